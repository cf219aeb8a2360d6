// Package sources reads and writes JSON-lines documents from files, the
// standard streams and S3 objects.
package sources

import (
	"context"
	"fmt"
	"io"

	"typeshift/src/constraint"
	"typeshift/src/s3"
)

// SourceItem represents an item from a data source
type SourceItem struct {
	Type     SourceItemType
	Document constraint.DataDocument
}

type SourceItemType string

const (
	// SourceItemTypeDocument - A document to import
	SourceItemTypeDocument SourceItemType = "document"
	// SourceItemTypeClose - The source is closed, can't read more from it
	SourceItemTypeClose SourceItemType = "close"
)

// Source represents a data source interface
type Source interface {
	// GetOne gets a document from the source
	GetOne(ctx context.Context) (*SourceItem, error)

	// Close closes the source and releases resources
	Close() error
}

// ObjectStore opens S3 objects.
type ObjectStore interface {
	Reader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Writer(ctx context.Context, bucket, key string) (io.WriteCloser, error)
}

// ConnectToSource opens input: an s3:// URL, a file path, or stdin when
// input is empty or "-". objects is only used for s3:// inputs.
func ConnectToSource(ctx context.Context, input string, objects ObjectStore) (Source, error) {
	switch {
	case s3.IsURL(input):
		if objects == nil {
			return nil, fmt.Errorf("no object store configured for %s", input)
		}
		bucket, key, err := s3.ParseURL(input)
		if err != nil {
			return nil, err
		}
		body, err := objects.Reader(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		return NewBufSource(body), nil
	case input == "" || input == "-":
		return NewBufSourceFromStdin(), nil
	default:
		return NewBufSourceFromPath(input)
	}
}
