package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/rule"
)

// Session drives one interactive planning run: propose a plan for the
// target dates, absorb rejections, and regenerate until the user accepts
// or the run turns out to be infeasible. The session owns the rejection
// set; the caller owns presentation and confirmation.
type Session struct {
	generator  *Generator
	rules      *rule.Set
	rejections *Rejections
	history    model.Diary
	current    model.Diary
	dates      []time.Time
	infeasible bool
}

// NewSession creates a session planning the given dates against the
// candidate pool, with prior diary history as fixed context.
func NewSession(pool []model.Meal, rules *rule.Set, history model.Diary, dates []time.Time, opts ...Option) (*Session, error) {
	rejections := NewRejections()
	ordered, err := normalizeDates(dates, history)
	if err != nil {
		return nil, err
	}
	return &Session{
		generator:  NewGenerator(pool, rules, rejections, opts...),
		rules:      rules,
		rejections: rejections,
		history:    history.Copy(),
		current:    model.NewDiary(),
		dates:      ordered,
	}, nil
}

// Dates returns the session's target dates in chronological order.
func (s *Session) Dates() []time.Time {
	return s.dates
}

// Current returns the current proposal.
func (s *Session) Current() model.Diary {
	return s.current.Copy()
}

// Infeasible reports whether the session has hit the terminal condition.
func (s *Session) Infeasible() bool {
	return s.infeasible
}

// Propose generates meals for every target date not already held in the
// current proposal, then re-validates the kept entries against the new
// picks. A changed meal can render a neighbour's kept meal inadmissible
// under cross-date rules, so kept entries that fail are re-picked too,
// until the whole proposal satisfies every rule.
func (s *Session) Propose(ctx context.Context) (model.Diary, error) {
	if s.infeasible {
		return model.Diary{}, fmt.Errorf("%w: session already terminal", ErrInfeasible)
	}

	pending := s.pendingDates()
	for round := 0; ; round++ {
		if round > len(s.dates)+s.generator.maxAttempts {
			s.infeasible = true
			return model.Diary{}, fmt.Errorf("%w: revalidation did not converge", ErrInfeasible)
		}

		addition, err := s.generator.Generate(ctx, pending, s.history.Upsert(s.current))
		if err != nil {
			if errors.Is(err, ErrInfeasible) {
				s.infeasible = true
			}
			return model.Diary{}, err
		}
		s.current = s.current.Upsert(addition)

		invalid := s.invalidDates()
		if len(invalid) == 0 {
			return s.current.Copy(), nil
		}
		s.current = s.current.Except(invalid...)
		pending = invalid
	}
}

// Reject records that the user declined the meal currently proposed for
// the date, and clears that date from the proposal so the next Propose
// re-picks it.
func (s *Session) Reject(date time.Time, mealName string) {
	s.rejections.Reject(date, mealName)
	s.current = s.current.Except(date)
}

// Rejections exposes the session's rejection set.
func (s *Session) Rejections() *Rejections {
	return s.rejections
}

func (s *Session) pendingDates() []time.Time {
	pending := make([]time.Time, 0, len(s.dates))
	for _, date := range s.dates {
		if !s.current.Has(date) {
			pending = append(pending, date)
		}
	}
	return pending
}

// invalidDates returns the proposal dates whose meals no longer pass every
// rule against the full diary, in chronological order.
func (s *Session) invalidDates() []time.Time {
	full := s.history.Upsert(s.current)
	var invalid []time.Time
	for _, date := range s.dates {
		meal, ok := s.current.Meal(date)
		if !ok {
			continue
		}
		if !s.rules.IsAdmissible(meal, date, full) {
			invalid = append(invalid, date)
		}
	}
	return invalid
}
