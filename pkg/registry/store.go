package registry

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListOptions carries pagination, ordering and relation expansion for
// FindMany. A zero Sort leaves ordering to the store default, which is not
// guaranteed stable across calls.
type ListOptions struct {
	Skip     int
	Limit    int
	Sort     []sortClause
	Preloads []string
}

// Store is the gorm-backed entity store for one entity type. Soft-deleted
// rows are excluded from every read through gorm's DeletedAt scope.
type Store[T any] struct {
	db *gorm.DB
}

// NewStore creates a store bound to db.
func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// FindMany returns one page of rows plus the total non-deleted count.
func (s *Store[T]) FindMany(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count rows: %w", err)
	}

	q := s.db.WithContext(ctx)
	for _, p := range opts.Preloads {
		q = q.Preload(p)
	}
	for _, c := range opts.Sort {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: c.Column}, Desc: c.Desc})
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Skip > 0 {
		q = q.Offset(opts.Skip)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list rows: %w", err)
	}
	return rows, total, nil
}

// FindOne returns the non-deleted row with the given id, or nil when no
// such row exists.
func (s *Store[T]) FindOne(ctx context.Context, id uint, preloads []string) (*T, error) {
	q := s.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	var row T
	if err := q.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get row %d: %w", id, err)
	}
	return &row, nil
}

// Exists reports whether a non-deleted row with the given id exists.
func (s *Store[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check row %d: %w", id, err)
	}
	return count > 0, nil
}

// Insert persists a new row; the generated id and timestamps are written
// back into the struct.
func (s *Store[T]) Insert(ctx context.Context, row *T) error {
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

// UpdateFields applies a column->value map to the row with the given id and
// returns the affected-row count. The updated_at column is touched by gorm.
func (s *Store[T]) UpdateFields(ctx context.Context, id uint, updates map[string]any) (int64, error) {
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("update row %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// SoftDelete marks the row deleted in two distinct steps: first the
// deleted_by attribution, then the soft delete itself. The returned count
// is from the second step; zero means the row was already gone.
func (s *Store[T]) SoftDelete(ctx context.Context, id uint, deletedBy string) (int64, error) {
	affected, err := s.UpdateFields(ctx, id, map[string]any{"deleted_by": deletedBy})
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return 0, fmt.Errorf("soft-delete row %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}
