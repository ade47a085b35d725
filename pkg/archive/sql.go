package archive

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yourusername/hoard/pkg/codec"
	"github.com/yourusername/hoard/pkg/herrors"
)

// identPattern restricts table names to a safe identifier subset,
// since table names cannot be parameterized in SQL and are instead
// validated and interpolated directly into DDL/DML.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQL is a single-shared-table archive (named by
// SQLConfig.Table, default "hoard_cache") holding every cache's keys,
// distinguished by a namespace column. Open with the pgx stdlib driver:
// sql.Open("pgx", dsn).
type SQL struct {
	db        *sql.DB
	table     string
	namespace string
	codec     codec.Codec
}

// SQLConfig configures a SQL-backed archive.
type SQLConfig struct {
	// DB is an already-opened *sql.DB (driver "pgx" for Postgres).
	DB *sql.DB
	// Table overrides the default shared table name.
	Table string
	// Namespace partitions keys within the shared table, typically the
	// owning cache's name. Required for SQL (single-table); ignored by
	// SQLMulti, which partitions via a dedicated table per namespace
	// instead.
	Namespace string
	Codec     codec.Codec
}

// NewSQL returns a SQL archive over cfg.DB, creating its table if
// absent.
func NewSQL(ctx context.Context, cfg SQLConfig) (*SQL, error) {
	table := cfg.Table
	if table == "" {
		table = "hoard_cache"
	}
	if !identPattern.MatchString(table) {
		return nil, &herrors.ArchiveError{Backend: "sql", Op: "validate-table", Err: fmt.Errorf("invalid table name %q", table)}
	}
	a := &SQL{db: cfg.DB, table: table, namespace: cfg.Namespace, codec: defaultCodec(cfg.Codec)}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		namespace TEXT NOT NULL,
		key TEXT NOT NULL,
		value BYTEA NOT NULL,
		PRIMARY KEY (namespace, key)
	)`, table)
	if _, err := a.db.ExecContext(ctx, ddl); err != nil {
		return nil, &herrors.ArchiveError{Backend: "sql", Op: "create-table", Err: err}
	}
	return a, nil
}

func (a *SQL) Load(key any) (any, bool, error) {
	ctx := context.Background()
	row := a.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE namespace = $1 AND key = $2", a.table),
		a.namespace, keyToString(key))
	var data []byte
	if err := row.Scan(&data); err == sql.ErrNoRows {
		return nil, false, nil
	} else if err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "sql", Op: "select", Err: err}
	}
	var v any
	if err := a.codec.Unmarshal(data, &v); err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "sql", Op: "decode", Err: err}
	}
	return v, true, nil
}

func (a *SQL) Dump(key any, value any) error {
	data, err := a.codec.Marshal(value)
	if err != nil {
		return &herrors.ArchiveError{Backend: "sql", Op: "encode", Err: err}
	}
	ctx := context.Background()
	_, err = a.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (namespace, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value
	`, a.table), a.namespace, keyToString(key), data)
	if err != nil {
		return &herrors.ArchiveError{Backend: "sql", Op: "upsert", Err: err}
	}
	return nil
}

func (a *SQL) Delete(key any) error {
	ctx := context.Background()
	_, err := a.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE namespace = $1 AND key = $2", a.table),
		a.namespace, keyToString(key))
	if err != nil {
		return &herrors.ArchiveError{Backend: "sql", Op: "delete", Err: err}
	}
	return nil
}

func (a *SQL) Keys() ([]any, error) {
	ctx := context.Background()
	rows, err := a.db.QueryContext(ctx,
		fmt.Sprintf("SELECT key FROM %s WHERE namespace = $1", a.table), a.namespace)
	if err != nil {
		return nil, &herrors.ArchiveError{Backend: "sql", Op: "select-keys", Err: err}
	}
	defer rows.Close()
	var keys []any
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, &herrors.ArchiveError{Backend: "sql", Op: "scan-key", Err: err}
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (a *SQL) Close() error { return a.db.Close() }

// SQLMulti is a table-per-cache archive: each cache gets its own table,
// named after the cache, instead of sharing one table partitioned by a
// namespace column.
type SQLMulti struct {
	db    *sql.DB
	table string
	codec codec.Codec
}

// NewSQLMulti returns a SQLMulti archive with its own table named
// after cacheName, creating it if absent.
func NewSQLMulti(ctx context.Context, db *sql.DB, cacheName string, c codec.Codec) (*SQLMulti, error) {
	table := "hoard_" + sanitizeIdent(cacheName)
	if !identPattern.MatchString(table) {
		return nil, &herrors.ArchiveError{Backend: "sqlmulti", Op: "validate-table", Err: fmt.Errorf("invalid table name %q", table)}
	}
	a := &SQLMulti{db: db, table: table, codec: defaultCodec(c)}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value BYTEA NOT NULL
	)`, table)
	if _, err := a.db.ExecContext(ctx, ddl); err != nil {
		return nil, &herrors.ArchiveError{Backend: "sqlmulti", Op: "create-table", Err: err}
	}
	return a, nil
}

// sanitizeIdent maps any cache name into the identifier subset SQL
// table names allow, replacing each disallowed character with an
// underscore and prefixing an underscore when the result is empty or
// starts with a digit.
func sanitizeIdent(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	if len(out) == 0 || (out[0] >= '0' && out[0] <= '9') {
		out = append([]rune{'_'}, out...)
	}
	return string(out)
}

func (a *SQLMulti) Load(key any) (any, bool, error) {
	ctx := context.Background()
	row := a.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE key = $1", a.table), keyToString(key))
	var data []byte
	if err := row.Scan(&data); err == sql.ErrNoRows {
		return nil, false, nil
	} else if err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "sqlmulti", Op: "select", Err: err}
	}
	var v any
	if err := a.codec.Unmarshal(data, &v); err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "sqlmulti", Op: "decode", Err: err}
	}
	return v, true, nil
}

func (a *SQLMulti) Dump(key any, value any) error {
	data, err := a.codec.Marshal(value)
	if err != nil {
		return &herrors.ArchiveError{Backend: "sqlmulti", Op: "encode", Err: err}
	}
	ctx := context.Background()
	_, err = a.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, a.table), keyToString(key), data)
	if err != nil {
		return &herrors.ArchiveError{Backend: "sqlmulti", Op: "upsert", Err: err}
	}
	return nil
}

func (a *SQLMulti) Delete(key any) error {
	ctx := context.Background()
	_, err := a.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE key = $1", a.table), keyToString(key))
	if err != nil {
		return &herrors.ArchiveError{Backend: "sqlmulti", Op: "delete", Err: err}
	}
	return nil
}

func (a *SQLMulti) Keys() ([]any, error) {
	ctx := context.Background()
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf("SELECT key FROM %s", a.table))
	if err != nil {
		return nil, &herrors.ArchiveError{Backend: "sqlmulti", Op: "select-keys", Err: err}
	}
	defer rows.Close()
	var keys []any
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, &herrors.ArchiveError{Backend: "sqlmulti", Op: "scan-key", Err: err}
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (a *SQLMulti) Close() error { return a.db.Close() }
