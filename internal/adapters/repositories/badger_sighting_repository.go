package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"sighting-intake-service/internal/domain"
	"sighting-intake-service/internal/platform/obs"
)

const (
	backendBadger = "badger"

	badgerRecordPrefix = "sighting:"
	badgerSequenceKey  = "seq:sighting"
	badgerSequenceBand = 100
)

// Badger-backed implementation of the SightingRepository port. Keys are
// "sighting:" plus a zero-padded sequence number, so a prefix scan returns
// records in insertion order.
type BadgerSightingRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db %q: %w", dir, err)
	}
	return db, nil
}

func NewBadgerSightingRepository(db *badger.DB) (*BadgerSightingRepository, error) {
	seq, err := db.GetSequence([]byte(badgerSequenceKey), badgerSequenceBand)
	if err != nil {
		return nil, fmt.Errorf("badger sighting repository: lease sequence: %w", err)
	}
	return &BadgerSightingRepository{db: db, seq: seq}, nil
}

func badgerRecordKey(n uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", badgerRecordPrefix, n))
}

func (r *BadgerSightingRepository) Append(ctx context.Context, s domain.Sighting) (_ domain.Sighting, err error) {
	defer obs.Time(ctx, backendBadger, "append")(&err)

	val, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("badger append: %w: encode record: %w", domain.ErrStorageWrite, err)
	}

	n, err := r.seq.Next()
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("badger append: %w: next sequence: %w", domain.ErrStorageWrite, err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerRecordKey(n), val)
	})
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("badger append: %w: set record %d: %w", domain.ErrStorageWrite, n, err)
	}

	return s, nil
}

func (r *BadgerSightingRepository) List(ctx context.Context) (_ []domain.Sighting, err error) {
	defer obs.Time(ctx, backendBadger, "list")(&err)

	var out []domain.Sighting
	err = r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerRecordPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var s domain.Sighting
			err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &s)
			})
			if err != nil {
				return fmt.Errorf("%w: key %s: %w", domain.ErrStorageParse, item.Key(), err)
			}
			out = append(out, s)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStorageParse) {
			return nil, fmt.Errorf("badger list: %w", err)
		}
		return nil, fmt.Errorf("badger list: %w: %w", domain.ErrStorageRead, err)
	}

	if out == nil {
		out = []domain.Sighting{}
	}
	return out, nil
}

// Close returns unused sequence numbers. The caller owns the database.
func (r *BadgerSightingRepository) Close() error {
	if err := r.seq.Release(); err != nil {
		return fmt.Errorf("badger sighting repository: release sequence: %w", err)
	}
	return nil
}
