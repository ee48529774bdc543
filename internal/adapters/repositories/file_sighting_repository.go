package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/platform/obs"
)

const backendFile = "file"

// File-backed implementation of the SightingRepository port.
// The whole JSON array is read, extended and rewritten on every Append.
// Appends within one process are serialized; other processes writing the
// same file are not coordinated with and can still lose updates.
type FileSightingRepository struct {
	Path string

	mu sync.Mutex
}

func NewFileSightingRepository(path string) *FileSightingRepository {
	return &FileSightingRepository{Path: path}
}

// EnsureFile creates the data file as an empty array if it does not exist,
// creating parent directories as needed. An existing file is left untouched.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ensure file: stat %q: %w", path, err)
	}

	if err := EnsureDir(path); err != nil {
		return fmt.Errorf("ensure file: %w", err)
	}

	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("ensure file: write %q: %w", path, err)
	}
	return nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %q: %w", dir, err)
	}
	return nil
}

func (r *FileSightingRepository) Append(ctx context.Context, s domain.Sighting) (_ domain.Sighting, err error) {
	defer obs.Time(ctx, backendFile, "append")(&err)

	r.mu.Lock()
	defer r.mu.Unlock()

	elems, err := r.readElements()
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("file append: %w", err)
	}

	rec, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("file append: %w: encode record: %w", domain.ErrStorageWrite, err)
	}
	elems = append(elems, rec)

	compact, err := json.MarshalWithOption(elems, json.DisableHTMLEscape())
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("file append: %w: encode array: %w", domain.ErrStorageWrite, err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return domain.Sighting{}, fmt.Errorf("file append: %w: indent array: %w", domain.ErrStorageWrite, err)
	}

	if err := os.WriteFile(r.Path, out.Bytes(), 0o644); err != nil {
		return domain.Sighting{}, fmt.Errorf("file append: %w: write %q: %w", domain.ErrStorageWrite, r.Path, err)
	}

	return s, nil
}

func (r *FileSightingRepository) List(ctx context.Context) (_ []domain.Sighting, err error) {
	defer obs.Time(ctx, backendFile, "list")(&err)

	r.mu.Lock()
	elems, err := r.readElements()
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("file list: %w", err)
	}

	out := make([]domain.Sighting, 0, len(elems))
	for i, raw := range elems {
		var s domain.Sighting
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("file list: %w: element %d: %w", domain.ErrStorageParse, i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// readElements returns the stored array with each element kept verbatim,
// so fields this service does not model survive a rewrite.
func (r *FileSightingRepository) readElements() ([]json.RawMessage, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %w", domain.ErrStorageRead, r.Path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %q does not hold a JSON array", domain.ErrStorageParse, r.Path)
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: parse %q: %w", domain.ErrStorageParse, r.Path, err)
	}
	return elems, nil
}
