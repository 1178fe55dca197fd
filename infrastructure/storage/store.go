package storage

import (
	"blog-bus/contract"
	"blog-bus/errors"
	"context"
	"fmt"
	"log/slog"
)

type Driver string

const (
	DriverMemory Driver = "memory"
	DriverBadger Driver = "badger"
	DriverRedis  Driver = "redis"
)

// Options selects and configures a store backend.
type Options struct {
	Driver         Driver
	BadgerFilepath string
	RedisURL       string
	RedisNamespace string
}

// Open returns the backend selected by opts.Driver.
func Open(ctx context.Context, opts Options, log *slog.Logger) (contract.Store, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverBadger:
		return OpenBadger(ctx, opts.BadgerFilepath, log)
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisURL, opts.RedisNamespace, log)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownDriver, opts.Driver)
	}
}
