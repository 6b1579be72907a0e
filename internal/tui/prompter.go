package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/service"
)

// Prompter implements service.Prompter with a full-screen review.
type Prompter struct{}

// NewPrompter creates a TUI prompter.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// ReviewPlan runs the review screen and returns the user's verdict. A
// canceled review is an error: the caller stops the session rather than
// treating it as acceptance.
func (p *Prompter) ReviewPlan(ctx context.Context, proposal model.Diary, dates []time.Time) (service.PlanReview, error) {
	program := tea.NewProgram(NewReviewModel(proposal, dates), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return service.PlanReview{}, fmt.Errorf("plan review failed: %w", err)
	}

	m, ok := final.(ReviewModel)
	if !ok {
		return service.PlanReview{}, fmt.Errorf("unexpected review model type %T", final)
	}
	if m.Canceled() {
		return service.PlanReview{}, fmt.Errorf("plan review canceled")
	}
	if m.Accepted() {
		return service.PlanReview{Accepted: true}, nil
	}
	return service.PlanReview{Rejected: m.Rejected()}, nil
}
