// Package service defines the interfaces between the planning core and its
// external collaborators: persistence and the interactive confirmation loop.
package service

import (
	"context"
	"time"

	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/shopping"
)

// DiaryFilter defines filtering options for diary queries.
type DiaryFilter struct {
	From *time.Time
	To   *time.Time
}

// Storage defines the contract for the persistence layer. The diary is
// stored as (date, meal name) pairs; meals are resolved against the
// catalog at load time.
type Storage interface {
	// Diary operations
	SaveDiaryEntries(ctx context.Context, entries map[time.Time]string) error
	GetDiaryEntries(ctx context.Context, filter DiaryFilter) (map[time.Time]string, error)
	RemoveDiaryEntry(ctx context.Context, date time.Time) error

	// Shopping list operations
	SaveShoppingList(ctx context.Context, list *shopping.List) (int64, error)
	GetShoppingList(ctx context.Context, from, to time.Time) (*shopping.List, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// PlanReview is the user's verdict on a proposed plan: full acceptance, or
// a set of rejected dates to regenerate.
type PlanReview struct {
	Rejected []time.Time
	Accepted bool
}

// Prompter presents a proposed diary slice to the user and collects the
// review. Implementations own all I/O; the planning core never reads or
// writes the terminal itself.
type Prompter interface {
	ReviewPlan(ctx context.Context, proposal model.Diary, dates []time.Time) (PlanReview, error)
}
