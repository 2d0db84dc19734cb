package services

import (
	"context"
	"fmt"
	"log"

	"github.com/waste-point/web-go/uploads"
)

type ImageReferences interface {
	ReferencedImages(ctx context.Context) (map[string]struct{}, error)
}

// PruneUploads deletes stored files that no report points at and returns
// the names it removed.
func PruneUploads(ctx context.Context, reports ImageReferences, files uploads.FileStore) ([]string, error) {
	referenced, err := reports.ReferencedImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list referenced images: %w", err)
	}
	stored, err := files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	images := uploads.NewValidator(files)
	var removed []string
	for _, name := range stored {
		if _, ok := referenced[name]; ok {
			continue
		}
		if err := images.Delete(ctx, name); err != nil {
			log.Printf("Failed to delete orphaned upload %s: %v", name, err)
			continue
		}
		removed = append(removed, name)
	}
	return removed, nil
}
