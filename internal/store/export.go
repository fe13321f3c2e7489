// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes the stored decision id to w as YAML or JSON. found is
// false when no decision has id.
func (s *Store) Export(ctx context.Context, w io.Writer, id, format string) (found bool, err error) {
	rec, found, err := s.Load(ctx, id)
	if err != nil || !found {
		return found, err
	}

	var data []byte
	switch format {
	case FormatYAML, "":
		data, err = yaml.Marshal(rec)
		if err != nil {
			return true, fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatJSON:
		data, err = json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return true, fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return true, fmt.Errorf("unknown export format %q", format)
	}

	_, err = w.Write(data)
	return true, err
}
