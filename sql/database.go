package sql

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sqlite "github.com/go-llsqlite/crawshaw"
	"github.com/go-llsqlite/crawshaw/sqlitex"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	// ErrNoConnection is returned when the pool is closed or the context is done
	// before a connection is free.
	ErrNoConnection = errors.New("database: no free connection")
	// ErrNotFound is returned by stores when the requested row doesn't exist.
	ErrNotFound = errors.New("database: not found")
	// ErrObjectExists is returned when a primary key or unique constraint rejects an insert.
	ErrObjectExists = errors.New("database: object exists")
)

const (
	beginDeferred  = "BEGIN;"
	beginImmediate = "BEGIN IMMEDIATE;"
	memoryURI      = "file::memory:?mode=memory"
)

// Executor runs a single statement. Both *Database and *Tx implement it, so stores
// work the same inside and outside of a transaction.
type Executor interface {
	Exec(string, Encoder, Decoder) (int, error)
}

// Statement is an sqlite statement.
type Statement = sqlite.Stmt

// Encoder binds statement parameters, positional (?1) or named (@account).
type Encoder func(*Statement)

// Decoder is called for every row. Returning false stops the iteration.
type Decoder func(*Statement) bool

type conf struct {
	connections   int
	busyTimeout   time.Duration
	enableLatency bool
	logger        *zap.Logger
}

// Opt for configuring database.
type Opt func(c *conf)

// WithConnections sets the size of the connection pool.
func WithConnections(n int) Opt {
	return func(c *conf) {
		c.connections = n
	}
}

// WithBusyTimeout sets how long a statement waits for a lock held by another
// process before failing with SQLITE_BUSY.
func WithBusyTimeout(d time.Duration) Opt {
	return func(c *conf) {
		c.busyTimeout = d
	}
}

// WithLogger specifies logger for the database.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *conf) {
		c.logger = logger
	}
}

// WithLatencyMetering records the duration of every query, labeled by the query text.
func WithLatencyMetering(enable bool) Opt {
	return func(c *conf) {
		c.enableLatency = enable
	}
}

// InMemory returns a migrated in-memory database with a single connection.
// It panics on failure and is meant for tests.
func InMemory(opts ...Opt) *Database {
	opts = append(opts, WithConnections(1))
	db, err := open(memoryURI, true, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// Open opens the database file at path, creating it when missing, and brings the
// schema up to date. The file is used in WAL mode.
func Open(path string, opts ...Opt) (*Database, error) {
	return open("file:"+path, false, opts...)
}

func open(uri string, memory bool, opts ...Opt) (*Database, error) {
	cfg := &conf{
		connections: 16,
		busyTimeout: 5 * time.Second,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	var flags sqlite.OpenFlags
	if !memory {
		flags = sqlite.SQLITE_OPEN_READWRITE |
			sqlite.SQLITE_OPEN_CREATE |
			sqlite.SQLITE_OPEN_WAL |
			sqlite.SQLITE_OPEN_URI |
			sqlite.SQLITE_OPEN_NOMUTEX
	}
	pool, err := sqlitex.Open(uri, flags, cfg.connections)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", uri, err)
	}
	db := &Database{pool: pool, busyTimeout: cfg.busyTimeout}
	if cfg.enableLatency {
		db.latency = queryDuration
	}
	version, err := migrate(db)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("apply migrations: %w", err), db.Close())
	}
	cfg.logger.Debug("database opened", zap.String("uri", uri), zap.Int("schema", version))
	return db, nil
}

// Database is a pool of sqlite connections.
type Database struct {
	pool        *sqlitex.Pool
	busyTimeout time.Duration
	latency     *prometheus.HistogramVec

	closeOnce sync.Once
	closeErr  error
}

func (db *Database) acquire(ctx context.Context) (*sqlite.Conn, error) {
	conn := db.pool.Get(ctx)
	if conn == nil {
		return nil, ErrNoConnection
	}
	conn.SetBusyTimeout(db.busyTimeout)
	return conn, nil
}

func (db *Database) observe(query string, start time.Time) {
	if db.latency != nil {
		db.latency.WithLabelValues(query).Observe(float64(time.Since(start)))
	}
}

func (db *Database) withTx(ctx context.Context, begin string, fn func(*Tx) error) error {
	conn, err := db.acquire(ctx)
	if err != nil {
		return err
	}
	defer db.pool.Put(conn)
	if _, err := exec(conn, begin, nil, nil); err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	tx := &Tx{db: db, conn: conn}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.rollback())
	}
	if _, err := exec(conn, "COMMIT;", nil, nil); err != nil {
		return errors.Join(fmt.Errorf("commit: %w", err), tx.rollback())
	}
	return nil
}

// WithTx runs fn in a deferred transaction, which takes the write lock only at the
// first write. The transaction is committed if fn returns nil and rolled back
// otherwise.
func (db *Database) WithTx(ctx context.Context, fn func(*Tx) error) error {
	return db.withTx(ctx, beginDeferred, fn)
}

// WithTxImmediate runs fn in a transaction that holds the write lock from the
// start, so the reads done by fn can't be invalidated by a concurrent writer.
// The transaction is committed if fn returns nil and rolled back otherwise.
func (db *Database) WithTxImmediate(ctx context.Context, fn func(*Tx) error) error {
	return db.withTx(ctx, beginImmediate, fn)
}

// Exec runs a statement outside of a transaction on any free connection.
func (db *Database) Exec(query string, encoder Encoder, decoder Decoder) (int, error) {
	conn, err := db.acquire(context.Background())
	if err != nil {
		return 0, err
	}
	defer db.pool.Put(conn)
	defer db.observe(query, time.Now())
	return exec(conn, query, encoder, decoder)
}

// Close closes all pooled connections. It is safe to call more than once.
func (db *Database) Close() error {
	db.closeOnce.Do(func() {
		if err := db.pool.Close(); err != nil {
			db.closeErr = fmt.Errorf("close pool: %w", err)
		}
	})
	return db.closeErr
}

// Tx is an open transaction passed to WithTx and WithTxImmediate callbacks.
type Tx struct {
	db   *Database
	conn *sqlite.Conn
}

// Exec runs a statement inside of the transaction.
func (tx *Tx) Exec(query string, encoder Encoder, decoder Decoder) (int, error) {
	defer tx.db.observe(query, time.Now())
	return exec(tx.conn, query, encoder, decoder)
}

func (tx *Tx) rollback() error {
	if tx.conn.GetAutocommit() {
		// sqlite already rolled back, e.g. after SQLITE_FULL
		return nil
	}
	if _, err := exec(tx.conn, "ROLLBACK;", nil, nil); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

func exec(conn *sqlite.Conn, query string, encoder Encoder, decoder Decoder) (int, error) {
	stmt, err := conn.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("prepare %s: %w", query, err)
	}
	defer stmt.ClearBindings()
	if encoder != nil {
		encoder(stmt)
	}

	for rows := 0; ; {
		row, err := stmt.Step()
		switch code := sqlite.ErrCode(err); {
		case code == sqlite.SQLITE_CONSTRAINT_PRIMARYKEY, code == sqlite.SQLITE_CONSTRAINT_UNIQUE:
			return 0, ErrObjectExists
		case err != nil:
			return 0, fmt.Errorf("step %d: %w", rows, err)
		case !row:
			return rows, nil
		}
		rows++
		if decoder != nil && !decoder(stmt) {
			if err := stmt.Reset(); err != nil {
				return rows, fmt.Errorf("reset statement: %w", err)
			}
			return rows, nil
		}
	}
}
