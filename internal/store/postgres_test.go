package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewcheck/crewcheck/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func personRows() *pgxmock.Rows {
	now := time.Now().UTC()
	return pgxmock.NewRows([]string{
		"user_id", "username", "fio", "rank", "qual_rank",
		"vacation_start", "vacation_end", "vlk_date", "umo_date",
		"kbp_4_md_m", "kbp_7_md_m", "kbp_4_md_90a", "kbp_7_md_90a", "jumps_date",
		"registered", "created_at", "updated_at",
	}).AddRow(
		int64(42), "pilot42", "Иванов И. И.", "капитан", "1 класс",
		"", "", "01.02.2026", "нет",
		"", "", "", "", "освобожден",
		true, now, now,
	)
}

func TestPostgresGetPerson(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE user_id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(personRows())

	p, err := s.GetPerson(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Иванов И. И.", p.FIO)
	assert.Equal(t, "освобожден", p.Jumps)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetPersonMissing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE user_id = \$1`).
		WithArgs(int64(999)).
		WillReturnError(pgx.ErrNoRows)

	p, err := s.GetPerson(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetField(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE users SET vlk_date = \$1, updated_at = \$2 WHERE user_id = \$3`).
		WithArgs("01.02.2026", pgxmock.AnyArg(), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.SetField(context.Background(), 42, model.FieldVLK, "01.02.2026")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetFieldUnknownPerson(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE users SET rank = \$1`).
		WithArgs("майор", pgxmock.AnyArg(), int64(999)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.SetField(context.Background(), 999, model.FieldRank, "майор")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteInfoMissing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM info_base WHERE id = \$1`).
		WithArgs("no-such-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.DeleteInfo(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListRegistered(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE registered ORDER BY fio, user_id`).
		WillReturnRows(personRows())

	list, err := s.ListRegistered(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIsAdmin(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := s.IsAdmin(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
