package store

import (
	"context"

	"github.com/crewcheck/crewcheck/internal/model"
)

// Stats summarizes the personnel table for the admin panel.
type Stats struct {
	Total      int `json:"total"`
	Registered int `json:"registered"`
}

// Store defines persistence for personnel records, the reference info
// base, and the admin set. Implementations need single-statement atomicity
// only; the eligibility engine never touches the store.
type Store interface {
	// Personnel
	UpsertPerson(ctx context.Context, id int64, username string) error
	GetPerson(ctx context.Context, id int64) (*model.Person, error)
	SetField(ctx context.Context, id int64, field model.FieldID, value string) error
	SetRegistered(ctx context.Context, id int64) error
	ListRegistered(ctx context.Context) ([]model.Person, error)
	SearchByName(ctx context.Context, query string) ([]model.Person, error)
	DeletePerson(ctx context.Context, id int64) error
	CountPersonnel(ctx context.Context) (Stats, error)

	// Info base
	AddInfo(ctx context.Context, keyword, content string) (*model.InfoEntry, error)
	DeleteInfo(ctx context.Context, id string) error
	SearchInfo(ctx context.Context, query string) ([]model.InfoEntry, error)

	// Admins
	AddAdmin(ctx context.Context, id, grantedBy int64) error
	RemoveAdmin(ctx context.Context, id int64) error
	ListAdmins(ctx context.Context) ([]int64, error)
	IsAdmin(ctx context.Context, id int64) (bool, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// personColumns is the SELECT column list shared by both backends; scan
// order must match scanPerson.
const personColumns = `user_id, username, fio, rank, qual_rank,
	vacation_start, vacation_end, vlk_date, umo_date,
	kbp_4_md_m, kbp_7_md_m, kbp_4_md_90a, kbp_7_md_90a, jumps_date,
	registered, created_at, updated_at`
