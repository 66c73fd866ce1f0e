package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"restaurant-dashboard/internal/model"

	"github.com/rs/zerolog"
)

// fileSource implements Source over a local directory of CSV files.
type fileSource struct {
	dir    string
	logger zerolog.Logger
}

// NewFileSource creates a Source that reads <dir>/<dataset>.csv.
func NewFileSource(dir string, logger zerolog.Logger) Source {
	return &fileSource{
		dir:    dir,
		logger: logger.With().Str("component", "file-source").Logger(),
	}
}

// Fetch reads the dataset file from disk.
func (s *fileSource) Fetch(ctx context.Context, dataset model.Dataset) (*RawTable, error) {
	path := filepath.Join(s.dir, dataset.FileName())
	s.logger.Debug().Str("file", path).Msg("reading dataset file")

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Error().Str("file", path).Msg("dataset file not found")
			return nil, &model.DataNotFoundError{Dataset: dataset, Location: path}
		}
		s.logger.Error().Err(err).Str("file", path).Msg("failed to open dataset file")
		return nil, fmt.Errorf("failed to open dataset file %s: %w", path, err)
	}
	defer file.Close()

	table, err := ReadCSV(ctx, file)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("error reading dataset file")
		return nil, fmt.Errorf("error reading dataset file %s: %w", path, err)
	}

	s.logger.Debug().
		Str("file", path).
		Int("rows", table.Len()).
		Msg("dataset file read")

	return table, nil
}
