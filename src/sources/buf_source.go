package sources

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"typeshift/src/constraint"
)

const maxLineSize = 16 * 1024 * 1024

// BufSource reads one JSON document per line. Numbers are kept as
// json.Number so the constraint engine sees their exact text.
type BufSource struct {
	reader  io.ReadCloser
	scanner *bufio.Scanner
	isStdin bool
	line    int
}

// NewBufSourceFromPath creates a new BufSource from a file path
func NewBufSourceFromPath(path string) (*BufSource, error) {
	logrus.Debugf("Reading from '%s'", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return NewBufSource(file), nil
}

// NewBufSourceFromStdin creates a new BufSource from stdin
func NewBufSourceFromStdin() *BufSource {
	logrus.Debug("Reading from stdin")
	s := NewBufSource(os.Stdin)
	s.isStdin = true
	return s
}

// NewBufSource reads from any reader; Close closes it.
func NewBufSource(reader io.ReadCloser) *BufSource {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &BufSource{
		reader:  reader,
		scanner: scanner,
	}
}

// GetOne implements Source interface
func (bs *BufSource) GetOne(ctx context.Context) (*SourceItem, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !bs.scanner.Scan() {
			if err := bs.scanner.Err(); err != nil {
				return nil, fmt.Errorf("scanner error: %w", err)
			}
			return &SourceItem{Type: SourceItemTypeClose}, nil
		}
		bs.line++

		line := bytes.TrimSpace(bs.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		decoder := json.NewDecoder(bytes.NewReader(line))
		decoder.UseNumber()
		var doc constraint.DataDocument
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON line %d: %w", bs.line, err)
		}

		return &SourceItem{
			Type:     SourceItemTypeDocument,
			Document: doc,
		}, nil
	}
}

// Close closes the underlying reader if it's not stdin
func (bs *BufSource) Close() error {
	if !bs.isStdin && bs.reader != nil {
		return bs.reader.Close()
	}
	return nil
}
