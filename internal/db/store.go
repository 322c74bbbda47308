package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a lookup that needs a row matches none.
	ErrNotFound = errors.New("record not found")
	// ErrMultipleRows is returned when a lookup expected to be unique matches more than one row.
	ErrMultipleRows = errors.New("multiple records found")
	// ErrUniqueViolation is returned when a write collides with a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violated")
)

// Store is the relational store used by the services. Every write is committed
// on its own; Transaction groups several writes into one commit.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open gorm connection.
func NewStore(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// DB exposes the underlying gorm instance.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Insert persists a new entity. Associations are never written implicitly.
func (s *Store) Insert(ctx context.Context, entity any) error {
	return translateError(s.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error)
}

// Save writes every column of an existing entity.
func (s *Store) Save(ctx context.Context, entity any) error {
	return translateError(s.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error)
}

// Delete removes an entity by primary key.
func (s *Store) Delete(ctx context.Context, entity any) error {
	result := s.db.WithContext(ctx).Delete(entity)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWhere removes every row of model's table matching the condition.
func (s *Store) DeleteWhere(ctx context.Context, model any, query any, args ...any) error {
	return translateError(s.db.WithContext(ctx).Where(query, args...).Delete(model).Error)
}

// Transaction runs fn against a store bound to a single transaction.
// Any error returned by fn rolls back every write made through tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Store{db: gtx})
	})
	return translateError(err)
}

// Get loads the row of type T with the given primary key.
func Get[T any](ctx context.Context, s *Store, id uint, preloads ...string) (*T, error) {
	var row T
	query := withPreloads(s.db.WithContext(ctx), preloads)
	if err := query.First(&row, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

// FindOne loads the single row of type T matching the condition.
// It fails with ErrNotFound on zero matches and ErrMultipleRows on more than one.
func FindOne[T any](ctx context.Context, s *Store, query any, args ...any) (*T, error) {
	var rows []T
	if err := s.db.WithContext(ctx).Where(query, args...).Limit(2).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	switch len(rows) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, ErrMultipleRows
	}
}

// All loads every row of type T in the given order.
func All[T any](ctx context.Context, s *Store, order string, preloads ...string) ([]T, error) {
	var rows []T
	query := withPreloads(s.db.WithContext(ctx), preloads)
	if order != "" {
		query = query.Order(order)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

// Count returns the number of rows of type T.
func Count[T any](ctx context.Context, s *Store) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

func withPreloads(query *gorm.DB, preloads []string) *gorm.DB {
	for _, name := range preloads {
		query = query.Preload(name)
	}
	return query
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUniqueViolation), errors.Is(err, ErrNotFound), errors.Is(err, ErrMultipleRows):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueMessage(err):
		return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	default:
		return err
	}
}

// isUniqueMessage catches drivers that do not translate constraint errors.
func isUniqueMessage(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
