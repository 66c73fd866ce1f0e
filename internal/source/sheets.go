package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"restaurant-dashboard/internal/model"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// rangeReader fetches a rectangular range of cell values.
type rangeReader interface {
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// sheetsClient reads ranges through the Google Sheets API.
type sheetsClient struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

func (c *sheetsClient) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}
	return resp.Values, nil
}

// sheetsSource implements Source over one spreadsheet with a tab per dataset.
type sheetsSource struct {
	reader        rangeReader
	spreadsheetID string
	logger        zerolog.Logger
}

// NewSheetsSource creates a Source reading the <dataset>!A:Z range of a spreadsheet.
func NewSheetsSource(ctx context.Context, credentialsPath, spreadsheetID string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "sheets-source").Logger()

	service, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialise sheets client")
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	logger.Info().Str("spreadsheet_id", spreadsheetID).Msg("sheets source initialised")

	return newSheetsSource(&sheetsClient{service: service, spreadsheetID: spreadsheetID}, spreadsheetID, logger), nil
}

func newSheetsSource(reader rangeReader, spreadsheetID string, logger zerolog.Logger) *sheetsSource {
	return &sheetsSource{
		reader:        reader,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}
}

// Fetch reads the dataset tab. The first row is the header.
func (s *sheetsSource) Fetch(ctx context.Context, dataset model.Dataset) (*RawTable, error) {
	sheetRange := string(dataset) + "!A:Z"
	location := fmt.Sprintf("sheets://%s/%s", s.spreadsheetID, sheetRange)

	values, err := s.reader.ReadRange(ctx, sheetRange)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusBadRequest) {
			s.logger.Error().Str("location", location).Msg("dataset sheet not found")
			return nil, &model.DataNotFoundError{Dataset: dataset, Location: location, Err: err}
		}
		s.logger.Error().Err(err).Str("location", location).Msg("failed to read dataset sheet")
		return nil, fmt.Errorf("failed to read dataset sheet %s: %w", location, err)
	}

	table := &RawTable{Rows: make([][]string, 0, len(values))}
	for _, row := range values {
		cells := make([]string, len(row))
		blank := true
		for i, v := range row {
			cells[i] = strings.TrimSpace(fmt.Sprint(v))
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if table.Header == nil {
			table.Header = cells
			continue
		}
		// the API omits trailing empty cells
		for len(cells) < len(table.Header) {
			cells = append(cells, "")
		}
		table.Rows = append(table.Rows, cells)
	}

	s.logger.Info().
		Str("location", location).
		Int("rows", table.Len()).
		Msg("dataset loaded from sheets")

	return table, nil
}
