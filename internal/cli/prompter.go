package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/service"
)

// Prompter implements the interactive line-based plan review. It renders
// the proposed diary slice, asks for acceptance, and on refusal collects
// the dates to regenerate.
type Prompter struct {
	writer      io.Writer
	reader      *LineReader
	progressBar *progressbar.ProgressBar
	totalDates  int
}

// NewPrompter creates a prompter with the given reader and writer,
// defaulting to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// ReviewPlan presents the proposal and returns the user's verdict.
func (p *Prompter) ReviewPlan(ctx context.Context, proposal model.Diary, dates []time.Time) (service.PlanReview, error) {
	select {
	case <-ctx.Done():
		return service.PlanReview{}, ctx.Err()
	default:
	}

	p.ensureProgressBar(len(dates))

	if _, err := fmt.Fprintln(p.writer, RenderBox("Proposed meal plan", p.formatPlan(proposal, dates))); err != nil {
		return service.PlanReview{}, fmt.Errorf("failed to write plan box: %w", err)
	}

	for {
		if _, err := fmt.Fprintln(p.writer, FormatPrompt("Accept this plan? [Y/n]")); err != nil {
			return service.PlanReview{}, fmt.Errorf("failed to write accept prompt: %w", err)
		}

		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return service.PlanReview{}, err
		}

		switch strings.ToLower(answer) {
		case "", "y", "yes":
			p.setSettled(len(dates))
			return service.PlanReview{Accepted: true}, nil
		case "n", "no":
			rejected, err := p.promptRejectedDates(ctx, dates)
			if err != nil {
				return service.PlanReview{}, err
			}
			p.setSettled(len(dates) - len(rejected))
			return service.PlanReview{Rejected: rejected}, nil
		default:
			if _, err := fmt.Fprintln(p.writer, FormatWarning("Please answer 'y' or 'n'")); err != nil {
				return service.PlanReview{}, fmt.Errorf("failed to write retry prompt: %w", err)
			}
		}
	}
}

func (p *Prompter) formatPlan(proposal model.Diary, dates []time.Time) string {
	var b strings.Builder
	for i, date := range dates {
		meal, ok := proposal.Meal(date)
		name := SubtleStyle.Render("(unassigned)")
		if ok {
			name = meal.Name
		}
		fmt.Fprintf(&b, "%2d. %s  %s\n", i+1, model.FormatDate(date), name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// promptRejectedDates asks which entries to change, accepting 1-based plan
// indices or YYYY-MM-DD dates, comma or space separated.
func (p *Prompter) promptRejectedDates(ctx context.Context, dates []time.Time) ([]time.Time, error) {
	for {
		if _, err := fmt.Fprintln(p.writer, FormatPrompt("Which entries should change? (numbers or dates)")); err != nil {
			return nil, fmt.Errorf("failed to write rejection prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return nil, err
		}

		rejected, err := parseDateSelection(line, dates)
		if err != nil {
			if _, werr := fmt.Fprintln(p.writer, FormatWarning(err.Error())); werr != nil {
				return nil, fmt.Errorf("failed to write selection warning: %w", werr)
			}
			continue
		}
		return rejected, nil
	}
}

func parseDateSelection(line string, dates []time.Time) ([]time.Time, error) {
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(tokens) == 0 {
		return nil, fmt.Errorf("enter at least one entry number or date")
	}

	selected := make(map[time.Time]bool, len(tokens))
	var rejected []time.Time
	for _, token := range tokens {
		date, err := resolveToken(token, dates)
		if err != nil {
			return nil, err
		}
		if !selected[date] {
			selected[date] = true
			rejected = append(rejected, date)
		}
	}
	return rejected, nil
}

func resolveToken(token string, dates []time.Time) (time.Time, error) {
	if index, err := strconv.Atoi(token); err == nil {
		if index < 1 || index > len(dates) {
			return time.Time{}, fmt.Errorf("entry %d is out of range (1-%d)", index, len(dates))
		}
		return dates[index-1], nil
	}

	parsed, err := time.Parse("2006-01-02", token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither an entry number nor a date (YYYY-MM-DD)", token)
	}
	day := model.Day(parsed)
	for _, date := range dates {
		if date.Equal(day) {
			return day, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s is not one of the planned dates", token)
}

func (p *Prompter) ensureProgressBar(total int) {
	if p.progressBar != nil {
		return
	}
	p.totalDates = total
	p.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Confirming meal plan...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// setSettled moves the progress bar to the number of dates the user has
// left standing after this round.
func (p *Prompter) setSettled(settled int) {
	if p.progressBar == nil {
		return
	}
	if settled < 0 {
		settled = 0
	}
	if err := p.progressBar.Set(settled); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
