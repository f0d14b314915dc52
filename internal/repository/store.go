package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNotFound     = gorm.ErrRecordNotFound
)

// store is the shared CRUD core behind every entity repository. Filters are exact-match,
// AND-combined, and keyed by the JSON field names clients see; sort keys use the same
// names with an optional leading "-" for descending order.
type store[T any] struct {
	db      *gorm.DB
	columns map[string]string
}

var schemaCache sync.Map

func newStore[T any](db *gorm.DB) store[T] {
	s, err := schema.Parse(new(T), &schemaCache, db.NamingStrategy)
	if err != nil {
		panic(fmt.Sprintf("repository: parse schema: %v", err))
	}

	cols := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.DBName == "" || f.DataType == "json" {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.DBName
		}
		cols[name] = f.DBName
	}
	return store[T]{db: db, columns: cols}
}

func (s store[T]) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s store[T]) order(q *gorm.DB, sort string) (*gorm.DB, error) {
	if sort == "" {
		return q.Order("id ASC"), nil
	}
	desc := strings.HasPrefix(sort, "-")
	col, ok := s.columns[strings.TrimPrefix(sort, "-")]
	if !ok {
		return nil, fmt.Errorf("%w: sort %q", ErrUnknownField, sort)
	}
	return q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc}), nil
}

func (s store[T]) where(q *gorm.DB, fields map[string]any) (*gorm.DB, error) {
	if len(fields) == 0 {
		return q, nil
	}
	cond := make(map[string]any, len(fields))
	for k, v := range fields {
		col, ok := s.columns[k]
		if !ok {
			return nil, fmt.Errorf("%w: filter %q", ErrUnknownField, k)
		}
		cond[col] = v
	}
	return q.Where(cond), nil
}

func (s store[T]) list(ctx context.Context, sort string, limit int) ([]T, error) {
	return s.filter(ctx, nil, sort, limit)
}

func (s store[T]) filter(ctx context.Context, fields map[string]any, sort string, limit int) ([]T, error) {
	q, err := s.where(s.db.WithContext(ctx), fields)
	if err != nil {
		return nil, err
	}
	if q, err = s.order(q, sort); err != nil {
		return nil, err
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	out := make([]T, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s store[T]) findByID(ctx context.Context, tx *gorm.DB, id uint) (*T, error) {
	var v T
	if err := s.conn(tx).WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (s store[T]) create(ctx context.Context, tx *gorm.DB, v *T) error {
	return s.conn(tx).WithContext(ctx).Create(v).Error
}

func (s store[T]) save(ctx context.Context, tx *gorm.DB, v *T) error {
	return s.conn(tx).WithContext(ctx).Save(v).Error
}

func (s store[T]) delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
