package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// table implements the operations every entity accessor shares.
type table[T any] struct {
	store *Store
	name  string
}

type scope func(*gorm.DB) *gorm.DB

func where(query string, args ...interface{}) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

func (t table[T]) list(ctx context.Context, sc scope) ([]T, error) {
	rows := []T{}
	op := t.name + " list"
	if !t.store.Available() {
		return rows, t.store.readFailed(op, errNoStore)
	}

	q := t.store.conn(ctx)
	if sc != nil {
		q = sc(q)
	}
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return []T{}, t.store.readFailed(op, err)
	}
	return rows, nil
}

func (t table[T]) first(ctx context.Context, sc scope) (*T, error) {
	op := t.name + " get"
	if !t.store.Available() {
		if err := t.store.readFailed(op, errNoStore); err != nil {
			return nil, err
		}
		return nil, t.notFound()
	}

	var rec T
	err := sc(t.store.conn(ctx)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, t.notFound()
	}
	if err != nil {
		if rerr := t.store.readFailed(op, err); rerr != nil {
			return nil, rerr
		}
		return nil, t.notFound()
	}
	return &rec, nil
}

func (t table[T]) get(ctx context.Context, id uint) (*T, error) {
	return t.first(ctx, where("id = ?", id))
}

func (t table[T]) create(ctx context.Context, rec *T) error {
	op := t.name + " create"
	if !t.store.Available() {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, errNoStore)
	}
	if err := t.store.conn(ctx).Create(rec).Error; err != nil {
		return t.store.writeFailed(op, err)
	}
	return nil
}

// update writes the given columns and returns the reloaded row. An empty
// change set only checks that the row exists.
func (t table[T]) update(ctx context.Context, id uint, changes map[string]interface{}) (*T, error) {
	op := t.name + " update"
	if !t.store.Available() {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, errNoStore)
	}

	if len(changes) > 0 {
		res := t.store.conn(ctx).Model(new(T)).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return nil, t.store.writeFailed(op, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, t.notFound()
		}
	}

	var rec T
	err := t.store.conn(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, t.notFound()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return &rec, nil
}

func (t table[T]) delete(ctx context.Context, id uint) error {
	op := t.name + " delete"
	if !t.store.Available() {
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, errNoStore)
	}
	res := t.store.conn(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return t.store.writeFailed(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return t.notFound()
	}
	return nil
}

// count never fails: an unreachable store counts as zero rows.
func (t table[T]) count(ctx context.Context, sc scope) int64 {
	if !t.store.Available() {
		t.store.logger.Warn("count without store", "table", t.name)
		return 0
	}
	q := t.store.conn(ctx).Model(new(T))
	if sc != nil {
		q = sc(q)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		t.store.logger.Warn("count failed", "table", t.name, "error", err)
		return 0
	}
	return n
}

func (t table[T]) notFound() error {
	return fmt.Errorf("%s %w", t.name, ErrNotFound)
}
