package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eslsoft/speaktrack/internal/entity"
	"github.com/eslsoft/speaktrack/internal/repository"
	"github.com/sirupsen/logrus"
)

// collection reads and writes one JSON array stored under a single key.
type collection[T any] struct {
	store repository.KVStore
	key   string
	log   logrus.FieldLogger
}

func newCollection[T any](store repository.KVStore, kind repository.EntityKind, userID string, log logrus.FieldLogger) collection[T] {
	return collection[T]{store: store, key: repository.Key(kind, userID), log: log}
}

// load returns the stored items. Unreadable payloads are logged and treated as empty.
func (c collection[T]) load(ctx context.Context) ([]T, error) {
	raw, found, err := c.read(ctx)
	if err != nil || !found {
		return []T{}, err
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.log.WithError(fmt.Errorf("%w: %w", entity.ErrCorruptRecord, err)).
			WithField("key", c.key).
			Warn("discarding unreadable collection")
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// read fetches the raw payload. Blank payloads count as missing.
func (c collection[T]) read(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w: %w", c.key, entity.ErrStorage, err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return "", false, nil
	}
	return raw, true, nil
}

func (c collection[T]) encode(items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", c.key, err)
	}
	return string(payload), nil
}

func (c collection[T]) save(ctx context.Context, items []T) error {
	payload, err := c.encode(items)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key, payload); err != nil {
		return fmt.Errorf("save %s: %w: %w", c.key, entity.ErrStorage, err)
	}
	return nil
}

func (c collection[T]) clear(ctx context.Context) error {
	if err := c.store.Remove(ctx, c.key); err != nil {
		return fmt.Errorf("clear %s: %w: %w", c.key, entity.ErrStorage, err)
	}
	return nil
}

// document reads and writes one JSON value stored under a single key.
type document[T any] struct {
	store repository.KVStore
	key   string
	log   logrus.FieldLogger
}

func newDocument[T any](store repository.KVStore, kind repository.EntityKind, userID string, log logrus.FieldLogger) document[T] {
	return document[T]{store: store, key: repository.Key(kind, userID), log: log}
}

// load decodes the stored value onto fallback, so missing fields keep their defaults.
func (d document[T]) load(ctx context.Context, fallback T) (T, error) {
	if err := ctx.Err(); err != nil {
		return fallback, err
	}
	raw, found, err := d.store.Get(ctx, d.key)
	if err != nil {
		return fallback, fmt.Errorf("load %s: %w: %w", d.key, entity.ErrStorage, err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value := fallback
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		d.log.WithError(fmt.Errorf("%w: %w", entity.ErrCorruptRecord, err)).
			WithField("key", d.key).
			Warn("discarding unreadable document")
		return fallback, nil
	}
	return value, nil
}

func (d document[T]) save(ctx context.Context, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	if err := d.store.Set(ctx, d.key, string(payload)); err != nil {
		return fmt.Errorf("save %s: %w: %w", d.key, entity.ErrStorage, err)
	}
	return nil
}

func (d document[T]) clear(ctx context.Context) error {
	if err := d.store.Remove(ctx, d.key); err != nil {
		return fmt.Errorf("clear %s: %w: %w", d.key, entity.ErrStorage, err)
	}
	return nil
}
