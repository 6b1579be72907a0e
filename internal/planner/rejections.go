package planner

import (
	"time"

	"github.com/saucier/mise/internal/model"
)

// Rejections records the (date, meal) pairs the user has declined during a
// session. The set only grows: once rejected, a pair never reappears in a
// candidate pool for the rest of the session. It is not persisted across
// runs.
type Rejections struct {
	rejected map[time.Time]map[string]bool
}

// NewRejections creates an empty rejection set.
func NewRejections() *Rejections {
	return &Rejections{rejected: make(map[time.Time]map[string]bool)}
}

// Reject records that the meal was declined for the date.
func (r *Rejections) Reject(date time.Time, mealName string) {
	day := model.Day(date)
	if r.rejected[day] == nil {
		r.rejected[day] = make(map[string]bool)
	}
	r.rejected[day][mealName] = true
}

// IsRejected reports whether the meal has been declined for the date.
func (r *Rejections) IsRejected(date time.Time, mealName string) bool {
	return r.rejected[model.Day(date)][mealName]
}

// CountFor returns how many meals have been declined for the date.
func (r *Rejections) CountFor(date time.Time) int {
	return len(r.rejected[model.Day(date)])
}
