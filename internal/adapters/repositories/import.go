package repositories

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/ports"
	"sighting-intake-service/internal/validation"
)

// importRecord mirrors a stored sighting with presence-checked coordinates.
type importRecord struct {
	Species  string `json:"species" validate:"required"`
	Location *struct {
		Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
		Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	} `json:"location" validate:"required"`
	DateTime     domain.DateTime `json:"dateTime" validate:"required"`
	Observations string          `json:"observations"`
}

// Append every record of a JSON array file to repo, in file order.
// Records are validated but not re-sanitized: their text was escaped when
// first submitted. Nothing is appended if any record is invalid.
func ImportJSON(ctx context.Context, repo ports.SightingRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("import sightings: read %q: %w", jsonPath, err)
	}

	var data []importRecord
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("import sightings: parse json: %w", err)
	}

	rows := make([]domain.Sighting, 0, len(data))
	for i, item := range data {
		if err := validation.ValidateStruct(item); err != nil {
			return 0, fmt.Errorf("import sightings: record at index %d: %w", i+1, err)
		}
		rows = append(rows, domain.Sighting{
			Species: item.Species,
			Location: domain.Location{
				Latitude:  *item.Location.Latitude,
				Longitude: *item.Location.Longitude,
			},
			DateTime:     item.DateTime,
			Observations: item.Observations,
		})
	}

	for i, s := range rows {
		if _, err := repo.Append(ctx, s); err != nil {
			return i, fmt.Errorf("import sightings: append record %d: %w", i+1, err)
		}
	}

	return len(rows), nil
}
