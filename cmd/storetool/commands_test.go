package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sighting-intake-service/internal/adapters/repositories"
	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/ports"
)

func useFileStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requests.json")

	prev := storeOpener
	storeOpener = func(context.Context) (ports.SightingRepository, io.Closer, string, error) {
		if err := repositories.EnsureFile(path); err != nil {
			return nil, nil, "", err
		}
		return repositories.NewFileSightingRepository(path), io.NopCloser(nil), "file", nil
	}
	t.Cleanup(func() { storeOpener = prev })
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"storetool"}, args...))
	return out.String(), err
}

func TestInitCreatesStore(t *testing.T) {
	path := useFileStore(t)

	_, err := run(t, "init")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestImportThenExport(t *testing.T) {
	useFileStore(t)
	src := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(src, []byte(`[
  {"species":"Owl","location":{"latitude":1,"longitude":2},"dateTime":"a"},
  {"species":"&#60;Fox&#62;","location":{"latitude":-3,"longitude":4},"dateTime":"b","observations":"den"}
]`), 0o644))

	_, err := run(t, "import", src)
	require.NoError(t, err)

	out, err := run(t, "export")
	require.NoError(t, err)

	var got []domain.Sighting
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Owl", got[0].Species)
	assert.Equal(t, "&#60;Fox&#62;", got[1].Species)
	assert.Contains(t, out, `"species": "&#60;Fox&#62;"`)
}

func TestExportToFile(t *testing.T) {
	useFileStore(t)
	dest := filepath.Join(t.TempDir(), "export.json")

	_, err := run(t, "export", "--out", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestImportRequiresFile(t *testing.T) {
	useFileStore(t)

	_, err := run(t, "import")
	require.Error(t, err)
}
