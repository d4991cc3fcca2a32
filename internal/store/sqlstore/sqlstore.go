// Package sqlstore is a store.Backend over PostgreSQL or SQLite. Each table
// keeps the index key in dedicated columns next to the JSON record.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"libranexus/internal/library"
	"libranexus/internal/store"
)

// ErrNoDriver is returned for an unknown driver name.
var ErrNoDriver = errors.New("sqlstore: unsupported driver")

const (
	colID        = "id"
	colVersion   = "version"
	colPartition = "partition_key"
	colSort      = "sort_key"
	colItem      = "item"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// Store implements store.Backend on database/sql.
type Store struct {
	db      *sql.DB
	driver  string
	dialect goqu.DialectWrapper
}

// Open connects with the named driver and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, classify(err, "failed to reach %s database", driver)
	}
	return New(db, driver), nil
}

// New wraps an existing pool.
func New(db *sql.DB, driver string) *Store {
	dialect := "postgres"
	if driver == DriverSQLite {
		dialect = "sqlite3"
	}
	return &Store{db: db, driver: driver, dialect: goqu.Dialect(dialect)}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// EnsureTable creates the table and its index if they do not exist.
func (s *Store) EnsureTable(ctx context.Context, t store.Table) error {
	textType, itemType := `TEXT COLLATE "C"`, "JSONB"
	if s.driver == DriverSQLite {
		textType, itemType = "TEXT", "TEXT"
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%[1]s" (
			%[2]s %[7]s PRIMARY KEY,
			%[3]s BIGINT NOT NULL,
			%[4]s %[7]s NOT NULL,
			%[5]s %[7]s NOT NULL,
			%[6]s %[8]s NOT NULL
		)`, t.Name, colID, colVersion, colPartition, colSort, colItem, textType, itemType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%[1]s_ndx" ON "%[1]s" (%[2]s, %[3]s, %[4]s)`,
			t.Name, colPartition, colSort, colID),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return classify(err, "failed to create table %s", t.Name)
		}
	}
	return nil
}

// DropTable removes the table. Used by tests.
func (s *Store) DropTable(ctx context.Context, t store.Table) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, t.Name))
	return err
}

func row(t store.Table, item store.Item) (store.Key, goqu.Record, error) {
	key, err := t.KeyOf(item)
	if err != nil {
		return store.Key{}, nil, err
	}
	data, err := store.Marshal(item)
	if err != nil {
		return store.Key{}, nil, err
	}
	return key, goqu.Record{
		colID:        key.ID,
		colVersion:   store.Version(item),
		colPartition: key.Partition,
		colSort:      key.Sort,
		colItem:      string(data),
	}, nil
}

func (s *Store) exec(ctx context.Context, ds interface {
	ToSQL() (string, []interface{}, error)
}) (int64, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, library.Runtime(err, "failed to build statement")
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Put(ctx context.Context, t store.Table, item store.Item) error {
	key, rec, err := row(t, item)
	if err != nil {
		return err
	}
	n, err := s.exec(ctx, s.dialect.Insert(t.Name).Rows(rec).OnConflict(goqu.DoNothing()).Prepared(true))
	if err != nil {
		return classify(err, "failed to insert %s %s", t.Name, key.ID)
	}
	if n == 0 {
		return library.DuplicateKey("%s %s already exists", t.Name, key.ID)
	}
	return nil
}

func (s *Store) Replace(ctx context.Context, t store.Table, item store.Item, expected int64) error {
	key, rec, err := row(t, item)
	if err != nil {
		return err
	}
	delete(rec, colID)
	ds := s.dialect.Update(t.Name).
		Set(rec).
		Where(goqu.C(colID).Eq(key.ID), goqu.C(colVersion).Eq(expected)).
		Prepared(true)
	n, err := s.exec(ctx, ds)
	if err != nil {
		return classify(err, "failed to update %s %s", t.Name, key.ID)
	}
	if n == 0 {
		return library.VersionConflict(t.Name, key.ID, expected)
	}
	return nil
}

func (s *Store) Lookup(ctx context.Context, t store.Table, id string, limit int) ([]store.Item, error) {
	ds := s.dialect.From(t.Name).
		Select(colItem).
		Where(goqu.C(colID).Eq(id)).
		Limit(uint(limit)).
		Prepared(true)
	return s.query(ctx, t, ds)
}

func (s *Store) Delete(ctx context.Context, t store.Table, id string) error {
	if _, err := s.exec(ctx, s.dialect.Delete(t.Name).Where(goqu.C(colID).Eq(id)).Prepared(true)); err != nil {
		return classify(err, "failed to delete %s %s", t.Name, id)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, t store.Table, scan store.IndexScan) ([]store.Item, error) {
	var where []exp.Expression
	if scan.Partition != nil {
		where = append(where, goqu.C(colPartition).Eq(*scan.Partition))
	}
	if scan.Sort != nil {
		where = append(where, goqu.C(colSort).Eq(*scan.Sort))
	}
	if a := scan.After; a != nil {
		where = append(where, goqu.Or(
			goqu.C(colPartition).Gt(a.Partition),
			goqu.And(goqu.C(colPartition).Eq(a.Partition), goqu.Or(
				goqu.C(colSort).Gt(a.Sort),
				goqu.And(goqu.C(colSort).Eq(a.Sort), goqu.C(colID).Gt(a.ID)),
			)),
		))
	}
	ds := s.dialect.From(t.Name).
		Select(colItem).
		Where(where...).
		Order(goqu.C(colPartition).Asc(), goqu.C(colSort).Asc(), goqu.C(colID).Asc()).
		Prepared(true)
	if scan.Limit > 0 {
		ds = ds.Limit(uint(scan.Limit))
	}
	return s.query(ctx, t, ds)
}

func (s *Store) query(ctx context.Context, t store.Table, ds *goqu.SelectDataset) ([]store.Item, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, library.Runtime(err, "failed to build query")
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "failed to query %s", t.Name)
	}
	defer rows.Close()

	var items []store.Item
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, classify(err, "failed to scan %s", t.Name)
		}
		item, err := store.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "failed to iterate %s", t.Name)
	}
	return items, nil
}

var _ store.Backend = (*Store)(nil)
