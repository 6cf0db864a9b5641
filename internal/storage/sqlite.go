// Package storage persists the lobby snapshot table in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/woozymasta/dstone/internal/models"
	_ "modernc.org/sqlite" // Driver sqlite
)

// Filter selects snapshot rows by column. Keys are column names of the
// simpleInfo table, multiple keys are combined with AND.
type Filter map[string]string

// columns lists the filterable and updatable columns of simpleInfo.
var columns = map[string]struct{}{
	"name":           {},
	"mode":           {},
	"rowId":          {},
	"season":         {},
	"maxconnections": {},
	"connected":      {},
	"version":        {},
	"platform":       {},
}

// ErrUnknownColumn is returned when a Filter or update names a column outside simpleInfo.
var ErrUnknownColumn = errors.New("unknown column")

const selectSimpleInfo = `
	SELECT id, name, mode, rowId, season, maxconnections, connected, version, platform
	FROM simpleInfo`

// Repository manages the SQLite database connection.
type Repository struct {
	db *sql.DB
}

// New opens the database at dbPath, tunes the pool and runs migrations.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(1 * time.Hour)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// UpsertSimpleInfo writes rows keyed by rowId, replacing every value of an existing row.
// Rows are written one statement at a time without a wrapping transaction, so readers
// may observe a partly applied batch. Failing rows do not stop the batch; their errors
// are joined into the result.
func (r *Repository) UpsertSimpleInfo(ctx context.Context, rows []models.SimpleInfo) error {
	if len(rows) == 0 {
		return nil
	}

	stmt, err := r.db.PrepareContext(ctx, `
	INSERT INTO simpleInfo (name, mode, rowId, season, maxconnections, connected, version, platform)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(rowId) DO UPDATE SET
		name           = excluded.name,
		mode           = excluded.mode,
		season         = excluded.season,
		maxconnections = excluded.maxconnections,
		connected      = excluded.connected,
		version        = excluded.version,
		platform       = excluded.platform;
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var errs []error
	for _, s := range rows {
		if _, err := stmt.ExecContext(ctx,
			s.Name, s.Mode, s.RowID, s.Season, s.MaxConnections, s.Connected, s.Version, s.Platform,
		); err != nil {
			errs = append(errs, fmt.Errorf("upsert %s: %w", s.RowID, err))
		}
	}

	return errors.Join(errs...)
}

// QuerySimpleInfo returns rows where every filtered column contains its value as a
// substring (case-sensitive). An empty filter returns all rows. limit <= 0 means no limit.
func (r *Repository) QuerySimpleInfo(ctx context.Context, filter Filter, limit int) ([]models.SimpleInfo, error) {
	where, args, err := buildWhere(filter, "instr(%s, ?) > 0")
	if err != nil {
		return nil, err
	}

	query := selectSimpleInfo + where + " ORDER BY id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.list(ctx, query, args...)
}

// GetSimpleInfo returns the row with rowID, or nil when there is none.
func (r *Repository) GetSimpleInfo(ctx context.Context, rowID string) (*models.SimpleInfo, error) {
	rows, err := r.list(ctx, selectSimpleInfo+" WHERE rowId = ?", rowID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

// UpdateSimpleInfo sets the update columns on every row exactly matching filter.
// It returns the number of affected rows.
func (r *Repository) UpdateSimpleInfo(ctx context.Context, filter Filter, update Filter) (int64, error) {
	if len(update) == 0 {
		return 0, nil
	}

	keys, err := sortedColumns(update)
	if err != nil {
		return 0, err
	}

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+len(filter))
	for _, k := range keys {
		sets = append(sets, k+" = ?")
		args = append(args, update[k])
	}

	where, whereArgs, err := buildWhere(filter, "%s = ?")
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	res, err := r.db.ExecContext(ctx, "UPDATE simpleInfo SET "+strings.Join(sets, ", ")+where, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// RemoveSimpleInfo deletes every row exactly matching filter.
// An empty filter is rejected instead of truncating the table.
func (r *Repository) RemoveSimpleInfo(ctx context.Context, filter Filter) (int64, error) {
	if len(filter) == 0 {
		return 0, errors.New("remove requires a filter")
	}

	where, args, err := buildWhere(filter, "%s = ?")
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, "DELETE FROM simpleInfo"+where, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// CountSimpleInfo returns the number of snapshot rows.
func (r *Repository) CountSimpleInfo(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM simpleInfo").Scan(&n)
	return n, err
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]models.SimpleInfo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []models.SimpleInfo
	for rows.Next() {
		var (
			s         models.SimpleInfo
			maxConn   sql.NullString
			connected sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Mode, &s.RowID, &s.Season, &maxConn, &connected, &s.Version, &s.Platform,
		); err != nil {
			return nil, err
		}
		s.MaxConnections = maxConn.String
		s.Connected = connected.String
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// buildWhere renders filter as a WHERE clause using cond as the per-column
// format, columns in sorted order so the SQL is stable.
func buildWhere(filter Filter, cond string) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	keys, err := sortedColumns(filter)
	if err != nil {
		return "", nil, err
	}

	parts := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf(cond, k))
		args = append(args, filter[k])
	}

	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func sortedColumns(f Filter) ([]string, error) {
	keys := make([]string, 0, len(f))
	for k := range f {
		if _, ok := columns[k]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys, nil
}
