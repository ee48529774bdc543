package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sighting-intake-service/internal/domain"
)

func newFileRepo(t *testing.T) *FileSightingRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "public", "requests.json")
	require.NoError(t, EnsureFile(path))
	return NewFileSightingRepository(path)
}

func TestFileRepository(t *testing.T) {
	exerciseRepository(t, newFileRepo(t))
}

func TestEnsureFileCreatesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "requests.json")

	require.NoError(t, EnsureFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestEnsureFileKeepsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"species":"Owl"}]`), 0o644))

	require.NoError(t, EnsureFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"species":"Owl"}]`, string(data))
}

func TestFileAppendWritesIndentedArray(t *testing.T) {
	repo := newFileRepo(t)

	_, err := repo.Append(context.Background(), domain.Sighting{
		Species:  "&#60;Fox&#62;",
		Location: domain.Location{Latitude: 45, Longitude: -73.25},
		DateTime: domain.DateTimeFromString("2024-05-01"),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(repo.Path)
	require.NoError(t, err)

	want := `[
  {
    "species": "&#60;Fox&#62;",
    "location": {
      "latitude": 45,
      "longitude": -73.25
    },
    "dateTime": "2024-05-01",
    "observations": ""
  }
]`
	assert.Equal(t, want, string(data))
}

func TestFileAppendPreservesForeignFields(t *testing.T) {
	repo := newFileRepo(t)
	existing := `[{"species":"Owl","legacyId":7,"tags":["night"]}]`
	require.NoError(t, os.WriteFile(repo.Path, []byte(existing), 0o644))

	_, err := repo.Append(context.Background(), sampleSightings()[0])
	require.NoError(t, err)

	data, err := os.ReadFile(repo.Path)
	require.NoError(t, err)

	var elems []map[string]any
	require.NoError(t, json.Unmarshal(data, &elems))
	require.Len(t, elems, 2)
	assert.Equal(t, float64(7), elems[0]["legacyId"])
	assert.Equal(t, []any{"night"}, elems[0]["tags"])
	assert.Equal(t, "Red Fox", elems[1]["species"])
}

func TestFileStorageErrors(t *testing.T) {
	cases := []struct {
		name    string
		content *string
		want    error
	}{
		{"missing file", nil, domain.ErrStorageRead},
		{"not json", ptr("{{nope"), domain.ErrStorageParse},
		{"object instead of array", ptr(`{"species":"Owl"}`), domain.ErrStorageParse},
		{"null document", ptr("null"), domain.ErrStorageParse},
		{"empty file", ptr(""), domain.ErrStorageParse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "requests.json")
			if tc.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.content), 0o644))
			}
			repo := NewFileSightingRepository(path)

			_, err := repo.Append(context.Background(), sampleSightings()[0])
			assert.True(t, errors.Is(err, tc.want), "append err = %v", err)

			_, err = repo.List(context.Background())
			assert.True(t, errors.Is(err, tc.want), "list err = %v", err)

			if tc.content != nil {
				data, readErr := os.ReadFile(path)
				require.NoError(t, readErr)
				assert.Equal(t, *tc.content, string(data), "file must not change on failure")
			}
		})
	}
}

func TestFileReadErrorOnDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requests.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	_, err := NewFileSightingRepository(path).Append(context.Background(), sampleSightings()[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageRead))
	assert.True(t, strings.Contains(err.Error(), "file append"))
}

func TestFileConcurrentAppendsKeepEveryRecord(t *testing.T) {
	repo := newFileRepo(t)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Append(context.Background(), sampleSightings()[1])
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func ptr(s string) *string { return &s }
