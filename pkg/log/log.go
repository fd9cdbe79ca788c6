// Package log provides a Zerolog-based package logger that writes to the
// console, to an SQLite database of JSON lines, or both.
package log

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var pkgLogger = zerolog.Nop()

var (
	console  io.Writer
	dbWriter *sqliteWriter
	dbHandle *sql.DB
	mu       sync.RWMutex
)

const timeFieldFmt = time.RFC3339Nano

// ErrNotInitialized is returned by retrieval functions before Init.
var ErrNotInitialized = errors.New("log: logger not initialized, call log.Init() first")

type sqliteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
	mu   sync.Mutex
}

func newSQLiteWriter(dbPath string) (*sqliteWriter, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", dbPath, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db %s: %w", dbPath, err)
	}

	_, err = db.Exec(`
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}
	if _, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_logs_json_level ON logs (json_extract(log_data, '$.level'));`); err != nil {
		stdlog.Printf("Warning: Failed to create JSON level index: %v\n", err)
	}

	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	return &sqliteWriter{db: db, stmt: stmt}, nil
}

func (w *sqliteWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.stmt.Exec(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *sqliteWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	if w.stmt != nil {
		errs = append(errs, w.stmt.Close())
		w.stmt = nil
	}
	if w.db != nil {
		errs = append(errs, w.db.Close())
		w.db = nil
	}
	return errors.Join(errs...)
}

// rebuild swaps pkgLogger for one writing to every configured sink.
// mu must be held.
func rebuild(level zerolog.Level) {
	var sinks []io.Writer
	if console != nil {
		sinks = append(sinks, console)
	}
	if dbWriter != nil {
		sinks = append(sinks, dbWriter)
	}
	switch len(sinks) {
	case 0:
		pkgLogger = zerolog.Nop()
	case 1:
		pkgLogger = zerolog.New(sinks[0]).Level(level).With().Timestamp().Logger()
	default:
		pkgLogger = zerolog.New(zerolog.MultiLevelWriter(sinks...)).Level(level).With().Timestamp().Logger()
	}
}

// SetStd sends human-readable logs to w (stderr when nil).
func SetStd(w io.Writer, debug bool) {
	if w == nil {
		w = os.Stderr
	}
	mu.Lock()
	defer mu.Unlock()
	console = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	rebuild(levelFor(debug))
}

// Init additionally records every log event as JSON in the SQLite database
// at dbPath.
func Init(dbPath string, debug bool) error {
	if dbPath == "" {
		return fmt.Errorf("logger need an explicit dbPath")
	}
	mu.Lock()
	defer mu.Unlock()
	if dbWriter != nil {
		return fmt.Errorf("logger already initialized")
	}
	w, err := newSQLiteWriter(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create SQLite writer: %w", err)
	}
	dbWriter = w
	dbHandle = w.db
	zerolog.TimeFieldFormat = timeFieldFmt
	rebuild(levelFor(debug))
	return nil
}

// Close detaches and closes the SQLite sink. The console sink stays.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if dbWriter == nil {
		return nil
	}
	w := dbWriter
	dbWriter = nil
	dbHandle = nil
	rebuild(pkgLogger.GetLevel())
	if err := w.close(); err != nil {
		return fmt.Errorf("error closing SQLite logger: %w", err)
	}
	return nil
}

func levelFor(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := pkgLogger
	return &l
}

func Debug() *zerolog.Event { return logger().Debug() }
func Info() *zerolog.Event  { return logger().Info() }
func Warn() *zerolog.Event  { return logger().Warn() }
func Error() *zerolog.Event { return logger().Error() }
func Fatal() *zerolog.Event { return logger().Fatal() }

// Printf sends an info event. Arguments are handled in the manner of
// fmt.Printf.
func Printf(format string, v ...any) {
	logger().Info().CallerSkipFrame(1).Msgf(format, v...)
}

// Fatalf logs at fatal level and exits.
func Fatalf(format string, v ...any) {
	logger().Fatal().Msgf(format, v...)
}

type LogEntry struct {
	ID         int64
	InsertedAt time.Time
	LogData    string // raw JSON
}

func getHandle() (*sql.DB, error) {
	mu.RLock()
	defer mu.RUnlock()
	if dbHandle == nil {
		return nil, ErrNotInitialized
	}
	return dbHandle, nil
}

func parseDBTimestamp(ts string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05.999"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GetLastNLogs returns the most recent n entries, oldest first.
func GetLastNLogs(n int) ([]LogEntry, error) {
	handle, err := getHandle()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []LogEntry{}, nil
	}
	rows, err := handle.Query(`SELECT id, inserted_at, log_data FROM logs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query last %d logs: %w", n, err)
	}
	defer rows.Close()

	var logs []LogEntry
	for rows.Next() {
		var entry LogEntry
		var insertedAt string
		if err := rows.Scan(&entry.ID, &insertedAt, &entry.LogData); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry.InsertedAt = parseDBTimestamp(insertedAt)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// DefaultLimit caps GetLogsBetween when no limit is given.
const DefaultLimit = 1000

// GetLogsBetween returns entries whose event time lies in [start, end],
// oldest first.
func GetLogsBetween(start, end time.Time, limit int) ([]LogEntry, error) {
	handle, err := getHandle()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	from, to := start.Format(timeFieldFmt), end.Format(timeFieldFmt)
	rows, err := handle.Query(`
        SELECT id, inserted_at, log_data
        FROM logs
        WHERE json_extract(log_data, '$.time') >= ? AND json_extract(log_data, '$.time') <= ?
        ORDER BY json_extract(log_data, '$.time') ASC, id ASC
        LIMIT ?`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs between %s and %s: %w", from, to, err)
	}
	defer rows.Close()

	var logs []LogEntry
	for rows.Next() {
		var entry LogEntry
		var insertedAt string
		if err := rows.Scan(&entry.ID, &insertedAt, &entry.LogData); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry.InsertedAt = parseDBTimestamp(insertedAt)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	return logs, nil
}

// GetLogsSince is GetLogsBetween ending now.
func GetLogsSince(start time.Time, limit int) ([]LogEntry, error) {
	return GetLogsBetween(start, time.Now(), limit)
}
