package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/ports"
)

func sampleSightings() []domain.Sighting {
	return []domain.Sighting{
		{
			Species:      "Red Fox",
			Location:     domain.Location{Latitude: 45, Longitude: -73.5},
			DateTime:     domain.DateTimeFromString("2024-05-01T06:30"),
			Observations: "&#60;b&#62;den&#60;/b&#62;",
		},
		{
			Species:  "Grey Heron",
			Location: domain.Location{Latitude: -90, Longitude: 180},
			DateTime: domain.DateTimeFromString("yesterday"),
		},
		{
			Species:      "Moose",
			Location:     domain.Location{Latitude: 0, Longitude: 0},
			DateTime:     domain.DateTimeFromString("2024-05-03"),
			Observations: "caf&#233;",
		},
	}
}

// exerciseRepository checks the behavior every backend shares: an empty
// store lists nothing and appended records come back in order.
func exerciseRepository(t *testing.T, repo ports.SightingRepository) {
	t.Helper()
	ctx := context.Background()

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	want := sampleSightings()
	for _, s := range want {
		stored, err := repo.Append(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, s, stored)
	}

	got, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
