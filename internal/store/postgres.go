package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/crewcheck/crewcheck/internal/model"
)

// Pool abstracts pgxpool.Pool for unit testing with pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// preparedStatements lists queries prepared on each new connection for the
// hottest store operations (every incoming update hits get_person).
var preparedStatements = map[string]string{
	"get_person":     `SELECT ` + personColumns + ` FROM users WHERE user_id = $1`,
	"set_registered": `UPDATE users SET registered = TRUE, updated_at = $1 WHERE user_id = $2`,
	"upsert_person": `INSERT INTO users (user_id, username, created_at, updated_at) VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, updated_at = EXCLUDED.updated_at`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS users (
	user_id        BIGINT PRIMARY KEY,
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
	registered     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS info_base (
	id         TEXT PRIMARY KEY,
	keyword    TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS admins (
	user_id    BIGINT PRIMARY KEY,
	granted_by BIGINT NOT NULL,
	granted_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_users_registered ON users(registered);
CREATE INDEX IF NOT EXISTS idx_users_fio ON users(fio);
CREATE INDEX IF NOT EXISTS idx_info_base_keyword ON info_base(keyword);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) UpsertPerson(ctx context.Context, id int64, username string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (user_id, username, created_at, updated_at) VALUES ($1, $2, $3, $3)
		 ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, updated_at = EXCLUDED.updated_at`,
		id, username, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert person %d", id)
}

func (s *PostgresStore) GetPerson(ctx context.Context, id int64) (*model.Person, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+personColumns+` FROM users WHERE user_id = $1`, id,
	)
	p, err := scanPerson(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get person %d", id)
	}
	return p, nil
}

func (s *PostgresStore) SetField(ctx context.Context, id int64, field model.FieldID, value string) error {
	// field is a closed enum; Column() cannot carry user input.
	query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = $2 WHERE user_id = $3`, field.Column())
	tag, err := s.pool.Exec(ctx, query, value, time.Now().UTC(), id)
	if err != nil {
		return eris.Wrapf(err, "postgres: set %s for %d", field.Column(), id)
	}
	return checkTagAffected(tag, "person", id)
}

func (s *PostgresStore) SetRegistered(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET registered = TRUE, updated_at = $1 WHERE user_id = $2`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set registered %d", id)
	}
	return checkTagAffected(tag, "person", id)
}

func (s *PostgresStore) ListRegistered(ctx context.Context) ([]model.Person, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+personColumns+` FROM users WHERE registered ORDER BY fio, user_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list registered")
	}
	defer rows.Close()
	return collectPgPersons(rows)
}

func (s *PostgresStore) SearchByName(ctx context.Context, query string) ([]model.Person, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+personColumns+` FROM users WHERE registered AND fio ILIKE $1 ORDER BY fio, user_id`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: search by name %q", query)
	}
	defer rows.Close()
	return collectPgPersons(rows)
}

func (s *PostgresStore) DeletePerson(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete person %d", id)
	}
	return checkTagAffected(tag, "person", id)
}

func (s *PostgresStore) CountPersonnel(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE registered) FROM users`,
	).Scan(&st.Total, &st.Registered)
	return st, eris.Wrap(err, "postgres: count personnel")
}

func (s *PostgresStore) AddInfo(ctx context.Context, keyword, content string) (*model.InfoEntry, error) {
	e := &model.InfoEntry{
		ID:        uuid.New().String(),
		Keyword:   keyword,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO info_base (id, keyword, content, created_at) VALUES ($1, $2, $3, $4)`,
		e.ID, e.Keyword, e.Content, e.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: add info")
	}
	return e, nil
}

func (s *PostgresStore) DeleteInfo(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM info_base WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete info %s", id)
	}
	return checkTagAffected(tag, "info entry", id)
}

func (s *PostgresStore) SearchInfo(ctx context.Context, query string) ([]model.InfoEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, keyword, content, created_at FROM info_base
		 WHERE keyword ILIKE $1 OR content ILIKE $1 ORDER BY created_at DESC`,
		"%"+query+"%",
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: search info %q", query)
	}
	defer rows.Close()

	var entries []model.InfoEntry
	for rows.Next() {
		var e model.InfoEntry
		if err := rows.Scan(&e.ID, &e.Keyword, &e.Content, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan info entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: search info iterate")
}

func (s *PostgresStore) AddAdmin(ctx context.Context, id, grantedBy int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO admins (user_id, granted_by, granted_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO NOTHING`,
		id, grantedBy, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: add admin %d", id)
}

func (s *PostgresStore) RemoveAdmin(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM admins WHERE user_id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: remove admin %d", id)
	}
	return checkTagAffected(tag, "admin", id)
}

func (s *PostgresStore) ListAdmins(ctx context.Context) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id FROM admins ORDER BY granted_at, user_id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list admins")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan admin")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: list admins iterate")
}

func (s *PostgresStore) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM admins WHERE user_id = $1`, id,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: is admin %d", id)
	}
	return n > 0, nil
}

func checkTagAffected(tag pgconn.CommandTag, entity string, id any) error {
	if tag.RowsAffected() == 0 {
		return eris.Errorf("%s not found: %v", entity, id)
	}
	return nil
}

func collectPgPersons(rows pgx.Rows) ([]model.Person, error) {
	var persons []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan person")
		}
		persons = append(persons, *p)
	}
	return persons, eris.Wrap(rows.Err(), "postgres: iterate persons")
}
