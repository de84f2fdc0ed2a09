package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ilfrich/go-basic-utils/logging"
)

// tablePlaceholder is replaced by the store's table name in query templates.
const tablePlaceholder = "{table}"

// RowMapper converts result rows into objects of type T and declares which
// columns the store selects.
type RowMapper[T any] interface {
	// Fields returns the column names of the backing table, in select
	// order.
	Fields() []string

	// FromRow scans a single result row. The scan function behaves like
	// sql.Rows.Scan.
	FromRow(scan func(dest ...any) error) (T, error)
}

// Store represents a single database table containing one type of business
// object.
type Store[T any] struct {
	conn     *Connection
	table    string
	mapper   RowMapper[T]
	idColumn string
	logger   *zap.Logger
}

// StoreOption customises a Store.
type StoreOption[T any] func(*Store[T])

// WithIDColumn overrides the primary key column, which defaults to "id".
func WithIDColumn[T any](column string) StoreOption[T] {
	return func(s *Store[T]) { s.idColumn = column }
}

// WithLogger overrides the store logger.
func WithLogger[T any](logger *zap.Logger) StoreOption[T] {
	return func(s *Store[T]) { s.logger = logger }
}

// NewStore binds a store to a table on an existing connection.
func NewStore[T any](conn *Connection, table string, mapper RowMapper[T], opts ...StoreOption[T]) *Store[T] {
	store := &Store[T]{
		conn:     conn,
		table:    table,
		mapper:   mapper,
		idColumn: "id",
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.logger == nil {
		store.logger = logging.New("sqlstore").With(zap.String("table", table))
	}
	return store
}

// Table returns the bound table name.
func (s *Store[T]) Table() string {
	return s.table
}

// EnsureTable creates the table if it does not exist. The definition is a
// CREATE TABLE statement using the {table} placeholder for the table name.
func (s *Store[T]) EnsureTable(ctx context.Context, definition string) error {
	if s.conn.tableExists(ctx, s.table) {
		s.logger.Info("Table already exists")
		return nil
	}

	statement := s.resolve(definition)
	s.logger.Info("Creating table", zap.String("statement", statement))
	if _, err := s.conn.Execute(ctx, statement); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// RunQuery runs a select statement (with {table} placeholder) and maps every
// result row through the store's mapper.
func (s *Store[T]) RunQuery(ctx context.Context, query string, args ...any) ([]T, error) {
	statement := s.resolve(query)
	rows, err := s.conn.Query(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("error running query %q: %w", statement, err)
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := s.mapper.FromRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}
	return results, nil
}

// RunInvoke runs an insert, update or delete statement (with {table}
// placeholder) and returns the last insert ID where the driver supports it.
func (s *Store[T]) RunInvoke(ctx context.Context, statement string, args ...any) (int64, error) {
	resolved := s.resolve(statement)
	result, err := s.conn.Execute(ctx, resolved, args...)
	if err != nil {
		return 0, fmt.Errorf("error running invoke %q: %w", resolved, err)
	}

	// not every driver supports this, a failure is not an error for the
	// caller
	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, nil
	}
	return lastID, nil
}

// Get retrieves a single row by primary key, or nil when it does not exist.
func (s *Store[T]) Get(ctx context.Context, id any) (*T, error) {
	query := s.SelectQuery(fmt.Sprintf("%s = %s", s.idColumn, s.placeholder(1)))
	results, err := s.RunQuery(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// GetAll retrieves all rows of the table.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	return s.RunQuery(ctx, s.SelectQuery(""))
}

// Delete removes a single row by primary key.
func (s *Store[T]) Delete(ctx context.Context, id any) error {
	statement := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", tablePlaceholder, s.idColumn, s.placeholder(1))
	if _, err := s.RunInvoke(ctx, statement, id); err != nil {
		return err
	}
	return nil
}

// SelectQuery builds a full select statement from the mapper's field list
// and an optional where clause (everything after WHERE).
func (s *Store[T]) SelectQuery(whereClause string) string {
	fields := strings.Join(s.mapper.Fields(), ", ")
	if whereClause == "" {
		return fmt.Sprintf("SELECT %s FROM %s", fields, tablePlaceholder)
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s", fields, tablePlaceholder, whereClause)
}

// resolve substitutes the table placeholder.
func (s *Store[T]) resolve(statement string) string {
	return strings.ReplaceAll(statement, tablePlaceholder, s.table)
}

// placeholder returns the positional parameter marker for the connection's
// driver.
func (s *Store[T]) placeholder(position int) string {
	if s.conn.driver == "postgres" {
		return fmt.Sprintf("$%d", position)
	}
	return "?"
}
