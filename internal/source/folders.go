// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"path"
	"sort"

	"github.com/pdiddy/sc-decisions/internal/citation"
	"github.com/pdiddy/sc-decisions/internal/storage"
)

// FolderKind tells which normalizer reads a folder.
type FolderKind string

const (
	KindHTML FolderKind = "html"
	KindPDF  FolderKind = "pdf"
)

// Folder is one decision folder in the bucket.
type Folder struct {
	Prefix string
	Kind   FolderKind
}

// ID is the decision id the folder maps to.
func (f Folder) ID() string {
	return citation.IDFromPrefix(f.Prefix)
}

// ListFolders finds every decision folder under root. A folder holding
// both details.yaml and pdf.yaml is read as HTML.
func ListFolders(ctx context.Context, b storage.Bucket, root string) ([]Folder, error) {
	keys, err := b.List(ctx, root)
	if err != nil {
		return nil, err
	}

	kinds := make(map[string]FolderKind)
	for _, key := range keys {
		dir := path.Dir(key)
		switch path.Base(key) {
		case DetailsFile:
			kinds[dir] = KindHTML
		case PDFFile:
			if _, ok := kinds[dir]; !ok {
				kinds[dir] = KindPDF
			}
		}
	}

	folders := make([]Folder, 0, len(kinds))
	for prefix, kind := range kinds {
		folders = append(folders, Folder{Prefix: prefix, Kind: kind})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Prefix < folders[j].Prefix })
	return folders, nil
}
