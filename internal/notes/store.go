package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gompdf/notepdf/internal/layout"

	_ "github.com/go-sql-driver/mysql" // side-effect
	_ "github.com/jackc/pgx/v5/stdlib" // side-effect
	_ "modernc.org/sqlite"             // side-effect
)

// Conf selects and locates the database
type Conf struct {
	Driver string `yaml:"driver" json:"driver"` // sqlite, mysql, pgx
	DSN    string `yaml:"dsn" json:"dsn"`       // overrides Path for sqlite
	Path   string `yaml:"path" json:"path"`     // sqlite database file
}

// DefaultPath is the sqlite file used when neither DSN nor Path is set
const DefaultPath = "notes.db"

type dialect struct {
	name        string
	driverName  string
	placeholder byte // '?' or '$'
	idColumn    string
	returning   bool
}

var dialects = map[string]dialect{
	"sqlite": {name: "sqlite", driverName: "sqlite", placeholder: '?', idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT", returning: true},
	"mysql":  {name: "mysql", driverName: "mysql", placeholder: '?', idColumn: "BIGINT AUTO_INCREMENT PRIMARY KEY"},
	"pgx":    {name: "pgx", driverName: "pgx", placeholder: '$', idColumn: "BIGSERIAL PRIMARY KEY", returning: true},
}

func lookupDialect(driver string) (dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return dialects["sqlite"], nil
	case "mysql", "maria", "mariadb":
		return dialects["mysql"], nil
	case "pgx", "pgsql", "postgres", "postgresql":
		return dialects["pgx"], nil
	}
	return dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
}

// Store persists notes in a single SQL table
type Store struct {
	db      *sql.DB
	dialect dialect
	path    string
	now     func() time.Time
}

// Open connects to the configured database and creates the notes table
// if it does not exist yet
func Open(ctx context.Context, conf Conf) (*Store, error) {
	d, err := lookupDialect(conf.Driver)
	if err != nil {
		return nil, err
	}

	dsn := conf.DSN
	path := ""
	if d.name == "sqlite" {
		path = conf.Path
		if dsn == "" {
			if path == "" {
				path = DefaultPath
			}
			dsn = path
		}
	} else if dsn == "" {
		return nil, fmt.Errorf("%s driver requires a dsn", d.name)
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d.name, err)
	}
	if d.name == "sqlite" {
		// one writer at a time; avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	} else {
		db.SetConnMaxLifetime(3 * time.Minute)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.name, err)
	}

	s := &Store{db: db, dialect: d, path: path, now: time.Now}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("[INFO] %s notes store ready", d.name)
	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the normalized driver name
func (s *Store) Driver() string {
	return s.dialect.name
}

// Migrate creates the notes table
func (s *Store) Migrate(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS notes (
	id ` + s.dialect.idColumn + `,
	doc_type TEXT NOT NULL,
	author TEXT NOT NULL,
	event_date TEXT NOT NULL,
	event_time TEXT NOT NULL,
	event TEXT NOT NULL,
	location TEXT NOT NULL,
	dress TEXT NOT NULL,
	person TEXT NOT NULL,
	participants TEXT NOT NULL,
	caution TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("failed to create notes table: %w", err)
	}
	return nil
}

const selectColumns = `id, doc_type, author, event_date, event_time, event, location, dress, person, participants, caution, created_at, updated_at`

// Create inserts n and sets its ID and timestamps
func (s *Store) Create(ctx context.Context, n *Note) error {
	if err := n.Prepare(); err != nil {
		return err
	}
	if err := n.Validate(); err != nil {
		return err
	}

	now := s.now().UTC()
	n.CreatedAt, n.UpdatedAt = now, now

	q := s.rebind(`INSERT INTO notes (doc_type, author, event_date, event_time, event, location, dress, person, participants, caution, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	args := []any{
		string(n.Kind), n.User, n.Date, n.Time, n.Event, n.Location, n.Dress, n.Person, n.Participants, n.Caution,
		formatTime(n.CreatedAt), formatTime(n.UpdatedAt),
	}

	if s.dialect.returning {
		if err := s.db.QueryRowContext(ctx, q+" RETURNING id", args...).Scan(&n.ID); err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	if n.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read note id: %w", err)
	}
	return nil
}

// Get returns the note with the given id
func (s *Store) Get(ctx context.Context, id int64) (*Note, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+selectColumns+` FROM notes WHERE id = ?`), id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load note %d: %w", id, err)
	}
	return n, nil
}

// List returns all notes, newest first
func (s *Store) List(ctx context.Context) ([]*Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM notes ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	out := []*Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return out, nil
}

// Update overwrites every editable column of the note with n.ID
func (s *Store) Update(ctx context.Context, n *Note) error {
	if err := n.Prepare(); err != nil {
		return err
	}
	if err := n.Validate(); err != nil {
		return err
	}

	n.UpdatedAt = s.now().UTC()
	q := s.rebind(`UPDATE notes SET doc_type = ?, author = ?, event_date = ?, event_time = ?, event = ?, location = ?,
dress = ?, person = ?, participants = ?, caution = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q,
		string(n.Kind), n.User, n.Date, n.Time, n.Event, n.Location, n.Dress, n.Person, n.Participants, n.Caution,
		formatTime(n.UpdatedAt), n.ID)
	if err != nil {
		return fmt.Errorf("failed to update note %d: %w", n.ID, err)
	}
	if err := expectOneRow(res, n.ID); err != nil {
		return err
	}

	stored, err := s.Get(ctx, n.ID)
	if err != nil {
		return err
	}
	n.CreatedAt = stored.CreatedAt
	return nil
}

// Delete removes the note with the given id
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM notes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(sc scanner) (*Note, error) {
	var (
		n                    Note
		kind                 string
		createdAt, updatedAt string
	)
	err := sc.Scan(&n.ID, &kind, &n.User, &n.Date, &n.Time, &n.Event, &n.Location, &n.Dress,
		&n.Person, &n.Participants, &n.Caution, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	n.Kind = layout.DocumentKind(kind)
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return &n, nil
}

// rebind rewrites '?' placeholders for drivers that number them
func (s *Store) rebind(q string) string {
	if s.dialect.placeholder == '?' {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 16)
	n := 1
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			b.WriteByte(s.dialect.placeholder)
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
