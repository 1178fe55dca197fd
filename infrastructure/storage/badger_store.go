package storage

import (
	"blog-bus/contract"
	"blog-bus/errors"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

var _ contract.Store = (*BadgerStore)(nil)

// BadgerStore persists values in an embedded BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBadgerStore(db *badger.DB, log *slog.Logger) *BadgerStore {
	return &BadgerStore{db: db, log: log}
}

// OpenBadger opens (or creates) the database at path.
// An empty path opens an in-memory database.
func OpenBadger(ctx context.Context, path string, log *slog.Logger) (*BadgerStore, error) {
	db, err := badger.Open(BuildBadgerOpts(ctx, path, log))
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}
	return NewBadgerStore(db, log), nil
}

// BuildBadgerOpts aligns Badger verbosity on the application logger.
func BuildBadgerOpts(ctx context.Context, path string, log *slog.Logger) badger.Options {
	options := badger.DefaultOptions(path)
	if path == "" {
		options = options.WithInMemory(true)
	}

	if log.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}
	return options
}

func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", errors.ErrNotFound, key)
	}
	return value, err
}

func (s *BadgerStore) Set(_ context.Context, key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Scan walks keys sharing prefix in lexicographical order.
func (s *BadgerStore) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(string(item.KeyCopy(nil)), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BadgerStore) Close() error {
	s.log.Info("Closing BadgerDB...")
	return s.db.Close()
}
