package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	sf "github.com/snowflakedb/gosnowflake"

	"retailpulse/config"
	"retailpulse/models"
)

// ConnectionError marks a failure to reach the warehouse. Callers treat it as
// fatal for the current page; no reconnect or retry is attempted.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("warehouse connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// QueryRecorder receives an audit entry for every executed statement.
type QueryRecorder interface {
	Record(entry models.QueryHistoryEntry) error
}

// Warehouse owns the single shared Snowflake connection for the process
// lifetime and executes statements against it.
type Warehouse struct {
	db      *sql.DB
	history QueryRecorder
	timeout time.Duration
}

func NewWarehouse(cfg config.SnowflakeConfig, history QueryRecorder, timeout time.Duration) (*Warehouse, error) {
	dsn, err := sf.DSN(&sf.Config{
		User:      cfg.User,
		Password:  cfg.Password,
		Account:   cfg.Account,
		Warehouse: cfg.Warehouse,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build Snowflake DSN: %w", err)
	}

	conn, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	// One live connection, shared and serialized across every view.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, &ConnectionError{Err: err}
	}

	return &Warehouse{
		db:      conn,
		history: history,
		timeout: timeout,
	}, nil
}

func (w *Warehouse) Close() error {
	if w.db != nil {
		return w.db.Close()
	}
	return nil
}

// Query executes a statement without bound parameters.
func (w *Warehouse) Query(ctx context.Context, query string) (*models.QueryResult, error) {
	return w.QueryParams(ctx, query)
}

// QueryParams executes a parameterized statement and materializes the full
// result set eagerly. Driver errors are returned to the caller, which renders
// a warning and an empty section instead of crashing the page.
func (w *Warehouse) QueryParams(ctx context.Context, query string, params ...interface{}) (*models.QueryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	result, err := w.execute(ctx, query, params...)

	entry := models.QueryHistoryEntry{
		View:       ViewLabel(ctx),
		SQL:        query,
		ParamCount: len(params),
		DurationMS: time.Since(start).Milliseconds(),
	}
	if result != nil {
		entry.RowCount = len(result.Rows)
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if w.history != nil {
		if recErr := w.history.Record(entry); recErr != nil {
			log.Printf("Warning: failed to record query history: %v", recErr)
		}
	}

	return result, err
}

func (w *Warehouse) execute(ctx context.Context, query string, params ...interface{}) (*models.QueryResult, error) {
	if w.db == nil {
		return nil, &ConnectionError{Err: fmt.Errorf("connection is not initialized")}
	}

	rows, err := w.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column descriptors: %w", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	columns := make([]models.Column, len(names))
	for i, name := range names {
		columns[i] = models.Column{Name: name, Type: types[i].DatabaseTypeName()}
	}

	var resultRows [][]interface{}

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]interface{}, len(columns))
		for i, val := range values {
			// Byte slices are driver transport detail; everything else is
			// kept as scanned so values round-trip exactly.
			if b, ok := val.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = val
			}
		}

		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return &models.QueryResult{
		Columns: columns,
		Rows:    resultRows,
	}, nil
}

func (w *Warehouse) IsConnected() bool {
	if w.db == nil {
		return false
	}
	return w.db.Ping() == nil
}

type viewLabelKey struct{}

// WithViewLabel tags a context with the dashboard view issuing the query, so
// history entries can attribute statements to their page.
func WithViewLabel(ctx context.Context, view string) context.Context {
	return context.WithValue(ctx, viewLabelKey{}, view)
}

func ViewLabel(ctx context.Context) string {
	if v, ok := ctx.Value(viewLabelKey{}).(string); ok {
		return v
	}
	return ""
}
