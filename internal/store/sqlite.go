package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/crewcheck/crewcheck/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS users (
	user_id        INTEGER PRIMARY KEY,
	username       TEXT NOT NULL DEFAULT '',
	fio            TEXT NOT NULL DEFAULT '',
	rank           TEXT NOT NULL DEFAULT '',
	qual_rank      TEXT NOT NULL DEFAULT '',
	vacation_start TEXT NOT NULL DEFAULT '',
	vacation_end   TEXT NOT NULL DEFAULT '',
	vlk_date       TEXT NOT NULL DEFAULT '',
	umo_date       TEXT NOT NULL DEFAULT '',
	kbp_4_md_m     TEXT NOT NULL DEFAULT '',
	kbp_7_md_m     TEXT NOT NULL DEFAULT '',
	kbp_4_md_90a   TEXT NOT NULL DEFAULT '',
	kbp_7_md_90a   TEXT NOT NULL DEFAULT '',
	jumps_date     TEXT NOT NULL DEFAULT '',
	registered     INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS info_base (
	id         TEXT PRIMARY KEY,
	keyword    TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS admins (
	user_id    INTEGER PRIMARY KEY,
	granted_by INTEGER NOT NULL,
	granted_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_users_registered ON users(registered);
CREATE INDEX IF NOT EXISTS idx_users_fio ON users(fio);
CREATE INDEX IF NOT EXISTS idx_info_base_keyword ON info_base(keyword);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertPerson(ctx context.Context, id int64, username string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, username, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET username = excluded.username, updated_at = excluded.updated_at`,
		id, username, time.Now().UTC(), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert person %d", id)
}

func (s *SQLiteStore) GetPerson(ctx context.Context, id int64) (*model.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM users WHERE user_id = ?`, id,
	)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get person %d", id)
	}
	return p, nil
}

func (s *SQLiteStore) SetField(ctx context.Context, id int64, field model.FieldID, value string) error {
	// field is a closed enum; Column() cannot carry user input.
	query := fmt.Sprintf(`UPDATE users SET %s = ?, updated_at = ? WHERE user_id = ?`, field.Column())
	res, err := s.db.ExecContext(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set %s for %d", field.Column(), id)
	}
	return checkRowsAffected(res, "person", id)
}

func (s *SQLiteStore) SetRegistered(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET registered = 1, updated_at = ? WHERE user_id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set registered %d", id)
	}
	return checkRowsAffected(res, "person", id)
}

func (s *SQLiteStore) ListRegistered(ctx context.Context) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM users WHERE registered = 1 ORDER BY fio, user_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list registered")
	}
	defer rows.Close()
	return collectPersons(rows)
}

func (s *SQLiteStore) SearchByName(ctx context.Context, query string) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM users WHERE registered = 1 AND fio LIKE ? ORDER BY fio, user_id`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: search by name %q", query)
	}
	defer rows.Close()
	return collectPersons(rows)
}

func (s *SQLiteStore) DeletePerson(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete person %d", id)
	}
	return checkRowsAffected(res, "person", id)
}

func (s *SQLiteStore) CountPersonnel(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(registered), 0) FROM users`,
	).Scan(&st.Total, &st.Registered)
	return st, eris.Wrap(err, "sqlite: count personnel")
}

func (s *SQLiteStore) AddInfo(ctx context.Context, keyword, content string) (*model.InfoEntry, error) {
	e := &model.InfoEntry{
		ID:        uuid.New().String(),
		Keyword:   keyword,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO info_base (id, keyword, content, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Keyword, e.Content, e.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: add info")
	}
	return e, nil
}

func (s *SQLiteStore) DeleteInfo(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM info_base WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete info %s", id)
	}
	return checkRowsAffected(res, "info entry", id)
}

func (s *SQLiteStore) SearchInfo(ctx context.Context, query string) ([]model.InfoEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, keyword, content, created_at FROM info_base
		 WHERE keyword LIKE ? OR content LIKE ? ORDER BY created_at DESC`,
		"%"+query+"%", "%"+query+"%",
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: search info %q", query)
	}
	defer rows.Close()

	var entries []model.InfoEntry
	for rows.Next() {
		var e model.InfoEntry
		if err := rows.Scan(&e.ID, &e.Keyword, &e.Content, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan info entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: search info iterate")
}

func (s *SQLiteStore) AddAdmin(ctx context.Context, id, grantedBy int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (user_id, granted_by, granted_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		id, grantedBy, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: add admin %d", id)
}

func (s *SQLiteStore) RemoveAdmin(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM admins WHERE user_id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: remove admin %d", id)
	}
	return checkRowsAffected(res, "admin", id)
}

func (s *SQLiteStore) ListAdmins(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM admins ORDER BY granted_at, user_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list admins")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan admin")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: list admins iterate")
}

func (s *SQLiteStore) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admins WHERE user_id = ?`, id,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: is admin %d", id)
	}
	return n > 0, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %v", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPerson(row scannable) (*model.Person, error) {
	var p model.Person
	err := row.Scan(
		&p.ID, &p.Username, &p.FIO, &p.Rank, &p.QualRank,
		&p.VacationStart, &p.VacationEnd, &p.VLK, &p.UMO,
		&p.KBP4MDM, &p.KBP7MDM, &p.KBP4MD90A, &p.KBP7MD90A, &p.Jumps,
		&p.Registered, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectPersons(rows *sql.Rows) ([]model.Person, error) {
	var persons []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan person")
		}
		persons = append(persons, *p)
	}
	return persons, eris.Wrap(rows.Err(), "sqlite: iterate persons")
}
