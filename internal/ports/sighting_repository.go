package ports

import (
	"context"

	"sighting-intake-service/internal/domain"
)

// Port: the ordered, append-only store of sighting records.
type SightingRepository interface {
	// Append a validated, sanitized record and return it as stored.
	Append(ctx context.Context, s domain.Sighting) (domain.Sighting, error)
	// Return every stored record in insertion order.
	List(ctx context.Context) ([]domain.Sighting, error)
}
