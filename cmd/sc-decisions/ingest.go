// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/sc-decisions/internal/assemble"
	"github.com/pdiddy/sc-decisions/internal/logging"
	"github.com/pdiddy/sc-decisions/internal/pipeline"
	"github.com/pdiddy/sc-decisions/internal/source"
	"github.com/pdiddy/sc-decisions/internal/storage"
	"github.com/pdiddy/sc-decisions/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest decisions from the bucket or the PDF extraction database",
	Long: `Ingest normalizes, assembles and stores decisions one at a time. Invalid
source records and duplicates are reported and skipped; the run continues.`,
}

var ingestBucketCmd = &cobra.Command{
	Use:   "bucket [prefix]",
	Short: "Ingest every decision folder under a bucket prefix",
	Long: `Bucket walks the configured storage (a local directory or an S3/R2
bucket) and ingests each folder holding details.yaml (HTML source) or
pdf.yaml (PDF source). An optional prefix such as GR/2006 limits the walk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngestBucket,
}

var ingestPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Ingest rows from the PDF extraction database",
	Long: `PDF reads decision rows from the SQLite database produced by the PDF
extraction job. Each row carries its opinions as a JSON array.`,
	Args: cobra.NoArgs,
	RunE: runIngestPDF,
}

// session holds what an ingest or reconcile run needs.
type session struct {
	pipeline *pipeline.Pipeline
	store    *store.Store
	log      *zap.Logger
}

func (s *session) Close() {
	s.store.Close()
	logging.Sync(s.log)
}

func newSession(ctx context.Context, withBucket bool) (*session, error) {
	cfg := pipelineConfig()
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	resolver, err := loadResolver(cfg, log)
	if err != nil {
		return nil, err
	}

	var bucket storage.Bucket
	if withBucket {
		if bucket, err = storage.New(ctx, cfg.Storage); err != nil {
			return nil, err
		}
	}

	st, err := openStore(ctx, cfg, resolver, log)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(pipeline.Options{
		Bucket:     bucket,
		Resolver:   resolver,
		Assembler:  assemble.New(cfg.Segment.MinChars, nil, log),
		Persister:  st,
		PDFBaseURL: cfg.PDF.BaseURL,
		Log:        log,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	return &session{pipeline: p, store: st, log: log}, nil
}

func runIngestBucket(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	s, err := newSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.pipeline.IngestBucket(cmd.Context(), prefix, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d decision(s) failed", summary.Failed)
	}
	return nil
}

func runIngestPDF(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := pipelineConfig()
	rows, err := source.OpenPDFDatabase(cfg.PDF.DBPath, cfg.PDF.Query)
	if err != nil {
		return err
	}
	defer rows.Close()

	summary, err := s.pipeline.IngestRows(cmd.Context(), rows.Rows(cmd.Context()), os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d row(s) failed", summary.Failed)
	}
	return nil
}

func init() {
	ingestBucketCmd.Flags().String("backend", "", "storage backend: local or s3")
	ingestBucketCmd.Flags().String("dir", "", "root directory for the local backend")
	ingestBucketCmd.Flags().String("bucket", "", "bucket name for the s3 backend")
	viper.BindPFlag("storage.backend", ingestBucketCmd.Flags().Lookup("backend"))
	viper.BindPFlag("storage.local_dir", ingestBucketCmd.Flags().Lookup("dir"))
	viper.BindPFlag("storage.bucket", ingestBucketCmd.Flags().Lookup("bucket"))

	ingestPDFCmd.Flags().String("pdf-db", "", "path to the PDF extraction database")
	ingestPDFCmd.Flags().String("query", "", "row query (default selects every decision)")
	viper.BindPFlag("pdf.db_path", ingestPDFCmd.Flags().Lookup("pdf-db"))
	viper.BindPFlag("pdf.query", ingestPDFCmd.Flags().Lookup("query"))

	ingestCmd.AddCommand(ingestBucketCmd)
	ingestCmd.AddCommand(ingestPDFCmd)
	rootCmd.AddCommand(ingestCmd)
}
