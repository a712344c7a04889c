package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"production-scheduler/internal/config"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

type Storage struct {
	db     *sql.DB
	driver string
}

// New открывает MySQL (прод) или встроенный SQLite (локально и в тестах) и накатывает схему.
func New(cfg config.Storage) (*Storage, error) {
	const op = "storage.sqlstore.New"

	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case DriverMySQL:
		mcfg := mysql.NewConfig()
		mcfg.User = cfg.DBUser
		mcfg.Passwd = cfg.DBPassword
		mcfg.Net = "tcp"
		mcfg.Addr = cfg.DBHost + ":" + strconv.Itoa(cfg.DBPort)
		mcfg.DBName = cfg.DBName
		mcfg.ParseTime = true
		mcfg.Loc = time.UTC

		db, err = sql.Open(DriverMySQL, mcfg.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case DriverSQLite:
		dsn := cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
		db, err = sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		// один писатель, заодно :memory: живёт пока жив пул
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}

	s := &Storage{db: db, driver: cfg.Driver}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Driver() string {
	return s.driver
}

func (s *Storage) migrate(ctx context.Context) error {
	const op = "storage.sqlstore.migrate"

	raw, err := schemaFS.ReadFile("schema/" + s.driver + ".sql")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, stmt := range strings.Split(string(raw), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %s: %w", op, firstLine(stmt), err)
		}
	}

	return nil
}

// isDuplicate нарушение уникального ключа у любого из драйверов
func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// ts время в БД хранится в UTC с точностью до секунды
func ts(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
