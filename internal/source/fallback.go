package source

import (
	"context"

	"restaurant-dashboard/internal/model"

	"github.com/rs/zerolog"
)

// fallbackSource tries a primary remote source first, then the local one.
type fallbackSource struct {
	remote  Source
	local   Source
	enabled bool
	logger  zerolog.Logger
}

// NewFallbackSource creates a Source that tries remote first, then falls back to local.
// If remote is nil or enabled is false, only local is used.
func NewFallbackSource(remote, local Source, enabled bool, logger zerolog.Logger) Source {
	return &fallbackSource{
		remote:  remote,
		local:   local,
		enabled: enabled,
		logger:  logger.With().Str("component", "fallback-source").Logger(),
	}
}

// Fetch attempts the remote source, and on any failure reads the local copy.
func (s *fallbackSource) Fetch(ctx context.Context, dataset model.Dataset) (*RawTable, error) {
	if s.enabled && s.remote != nil {
		s.logger.Info().
			Str("dataset", string(dataset)).
			Msg("attempting to load from remote source")

		table, err := s.remote.Fetch(ctx, dataset)
		if err == nil {
			return table, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Warn().
			Err(err).
			Str("dataset", string(dataset)).
			Msg("failed to load from remote source, falling back to local file system")
	} else {
		s.logger.Debug().
			Bool("enabled", s.enabled).
			Bool("has_remote", s.remote != nil).
			Msg("remote source disabled or not configured, using local file system")
	}

	return s.local.Fetch(ctx, dataset)
}
