// Package export stores documents produced by the search-result export
// endpoint: on the local disk or in an S3-compatible bucket.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

var ErrInvalidName = errors.New("invalid export name")

// Sink receives an exported document and returns where it ended up.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// FileName builds the default name of an export made at t.
func FileName(format string, t time.Time) string {
	if format == "" {
		format = models.ExportCSV
	}
	return fmt.Sprintf("search-results-%s.%s", t.UTC().Format("20060102-150405"), format)
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// FileSink writes exports into Dir, creating it if needed.
type FileSink struct {
	Dir string
}

func (s FileSink) Write(_ context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
