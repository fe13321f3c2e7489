// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/sc-decisions/internal/justice"
	"github.com/pdiddy/sc-decisions/internal/logging"
	"github.com/pdiddy/sc-decisions/internal/store"
	"github.com/pdiddy/sc-decisions/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "sc-decisions/0.1"
	defaultRosterURL = "https://api.github.com/repos/justmars/corpus/contents/justices/sc.yaml"
)

func setDefaults() {
	viper.SetDefault("storage.backend", string(types.BackendLocal))
	viper.SetDefault("storage.local_dir", "raw")
	viper.SetDefault("storage.region", "auto")
	viper.SetDefault("database.path", "data/decisions.db")
	viper.SetDefault("roster.path", "roster/sc.yaml")
	viper.SetDefault("roster.url", defaultRosterURL)
	viper.SetDefault("roster.timeout", defaultTimeout)
	viper.SetDefault("roster.user_agent", defaultUserAgent)
	viper.SetDefault("pdf.db_path", "data/pdf.db")
	viper.SetDefault("pdf.base_url", "https://sc.judiciary.gov.ph")
	viper.SetDefault("segment.min_chars", 10)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", logging.FormatJSON)
}

// pipelineConfig reads the full configuration from viper.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Storage: types.StorageConfig{
			Backend:         types.StorageBackend(viper.GetString("storage.backend")),
			LocalDir:        viper.GetString("storage.local_dir"),
			Bucket:          viper.GetString("storage.bucket"),
			Endpoint:        viper.GetString("storage.endpoint"),
			Region:          viper.GetString("storage.region"),
			AccessKeyID:     viper.GetString("storage.access_key_id"),
			SecretAccessKey: viper.GetString("storage.secret_access_key"),
		},
		Database: types.DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Roster: types.RosterConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("roster.timeout"),
				UserAgent: viper.GetString("roster.user_agent"),
			},
			Path:  viper.GetString("roster.path"),
			URL:   viper.GetString("roster.url"),
			Token: viper.GetString("roster.token"),
		},
		PDF: types.PDFConfig{
			DBPath:  viper.GetString("pdf.db_path"),
			Query:   viper.GetString("pdf.query"),
			BaseURL: viper.GetString("pdf.base_url"),
		},
		Segment: types.SegmentConfig{
			MinChars: viper.GetInt("segment.min_chars"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}
}

func newLogger(cfg types.PipelineConfig) (*zap.Logger, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("version", version)), nil
}

// loadResolver loads the roster file and wraps it in a resolver.
func loadResolver(cfg types.PipelineConfig, log *zap.Logger) (*justice.Resolver, error) {
	roster, err := justice.LoadRoster(cfg.Roster.Path)
	if err != nil {
		return nil, fmt.Errorf("%w (run \"sc-decisions roster fetch\" first)", err)
	}
	return justice.NewResolver(roster, log), nil
}

// openStore opens the database and syncs the roster into it.
func openStore(ctx context.Context, cfg types.PipelineConfig, resolver *justice.Resolver, log *zap.Logger) (*store.Store, error) {
	st, err := store.NewStore(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if resolver != nil {
		if err := st.SyncRoster(ctx, resolver.Roster().All()); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}
