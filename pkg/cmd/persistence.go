// Package cmd provides shared wiring helpers for the command-line
// entrypoints.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doclane/revflow/pkg/persistence"
	"github.com/doclane/revflow/pkg/persistence/file"
	"github.com/doclane/revflow/pkg/persistence/postgresql"
)

// NewPersistence creates a persistence backend from the database URL scheme.
// "postgres://" and "postgresql://" select PostgreSQL; anything else falls
// back to file storage.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
