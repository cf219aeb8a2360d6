package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"typeshift/src/constraint"
	"typeshift/src/s3"
)

// Sink writes one JSON document per line.
type Sink struct {
	writer   io.WriteCloser
	encoder  *json.Encoder
	isStdout bool
}

// OpenSink opens output: an s3:// URL, a file path, or stdout when output is
// empty or "-".
func OpenSink(ctx context.Context, output string, objects ObjectStore) (*Sink, error) {
	switch {
	case s3.IsURL(output):
		if objects == nil {
			return nil, fmt.Errorf("no object store configured for %s", output)
		}
		bucket, key, err := s3.ParseURL(output)
		if err != nil {
			return nil, err
		}
		w, err := objects.Writer(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		return NewSink(w), nil
	case output == "" || output == "-":
		s := NewSink(os.Stdout)
		s.isStdout = true
		return s, nil
	default:
		logrus.Debugf("Writing to '%s'", output)
		f, err := os.Create(output)
		if err != nil {
			return nil, fmt.Errorf("failed to create file %s: %w", output, err)
		}
		return NewSink(f), nil
	}
}

// NewSink writes to any writer; Close closes it.
func NewSink(w io.WriteCloser) *Sink {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	return &Sink{writer: w, encoder: encoder}
}

// Write appends one document.
func (s *Sink) Write(doc constraint.DataDocument) error {
	if err := s.encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write document %s: %w", doc.ID(), err)
	}
	return nil
}

// Close flushes the output; stdout is left open.
func (s *Sink) Close() error {
	if s.isStdout {
		return nil
	}
	return s.writer.Close()
}
