package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DiaryEntry pairs a date with its assigned meal.
type DiaryEntry struct {
	Date time.Time
	Meal Meal
}

// Diary is an ordered mapping from date to assigned meal. It spans both
// confirmed history and dates being planned; rule evaluation reads it to
// find the nearest populated neighbours of a target date, which are not
// necessarily calendar-adjacent.
type Diary struct {
	entries map[time.Time]Meal
}

// NewDiary creates an empty diary.
func NewDiary() Diary {
	return Diary{entries: make(map[time.Time]Meal)}
}

// Set assigns a meal to a date, overwriting any existing entry.
func (d Diary) Set(date time.Time, meal Meal) {
	d.entries[Day(date)] = meal
}

// Meal returns the meal assigned to the given date, if any.
func (d Diary) Meal(date time.Time) (Meal, bool) {
	meal, ok := d.entries[Day(date)]
	return meal, ok
}

// Has reports whether the date is populated.
func (d Diary) Has(date time.Time) bool {
	_, ok := d.entries[Day(date)]
	return ok
}

// Len returns the number of populated dates.
func (d Diary) Len() int {
	return len(d.entries)
}

// Dates returns the populated dates in chronological order.
func (d Diary) Dates() []time.Time {
	dates := make([]time.Time, 0, len(d.entries))
	for date := range d.entries {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Entries returns all entries in chronological order.
func (d Diary) Entries() []DiaryEntry {
	entries := make([]DiaryEntry, 0, len(d.entries))
	for _, date := range d.Dates() {
		entries = append(entries, DiaryEntry{Date: date, Meal: d.entries[date]})
	}
	return entries
}

// Previous returns the nearest populated entry strictly before date.
func (d Diary) Previous(date time.Time) (DiaryEntry, bool) {
	target := Day(date)
	var best time.Time
	var found bool
	for populated := range d.entries {
		if populated.Before(target) && (!found || populated.After(best)) {
			best = populated
			found = true
		}
	}
	if !found {
		return DiaryEntry{}, false
	}
	return DiaryEntry{Date: best, Meal: d.entries[best]}, true
}

// Next returns the nearest populated entry strictly after date.
func (d Diary) Next(date time.Time) (DiaryEntry, bool) {
	target := Day(date)
	var best time.Time
	var found bool
	for populated := range d.entries {
		if populated.After(target) && (!found || populated.Before(best)) {
			best = populated
			found = true
		}
	}
	if !found {
		return DiaryEntry{}, false
	}
	return DiaryEntry{Date: best, Meal: d.entries[best]}, true
}

// Copy returns an independent copy of the diary.
func (d Diary) Copy() Diary {
	out := NewDiary()
	for date, meal := range d.entries {
		out.entries[date] = meal
	}
	return out
}

// Upsert returns a new diary containing this diary's entries overlaid with
// the other diary's entries; the other diary wins on conflicts.
func (d Diary) Upsert(other Diary) Diary {
	out := d.Copy()
	for date, meal := range other.entries {
		out.entries[date] = meal
	}
	return out
}

// Except returns a new diary without the given dates.
func (d Diary) Except(dates ...time.Time) Diary {
	out := d.Copy()
	for _, date := range dates {
		delete(out.entries, Day(date))
	}
	return out
}

// Difference returns the entries of this diary whose dates are not
// populated in the other diary.
func (d Diary) Difference(other Diary) Diary {
	out := NewDiary()
	for date, meal := range d.entries {
		if !other.Has(date) {
			out.entries[date] = meal
		}
	}
	return out
}

// Window returns the entries with from <= date <= to.
func (d Diary) Window(from, to time.Time) Diary {
	out := NewDiary()
	first, last := Day(from), Day(to)
	for date, meal := range d.entries {
		if date.Before(first) || date.After(last) {
			continue
		}
		out.entries[date] = meal
	}
	return out
}

// String renders the diary one entry per line, chronologically.
func (d Diary) String() string {
	var b strings.Builder
	for _, entry := range d.Entries() {
		fmt.Fprintf(&b, "%s: %s\n", FormatDate(entry.Date), entry.Meal.Name)
	}
	return b.String()
}

// FormatDate renders a date as e.g. "Mon 1st Sep".
func FormatDate(date time.Time) string {
	return fmt.Sprintf("%s %d%s %s",
		date.Format("Mon"), date.Day(), daySuffix(date.Day()), date.Format("Jan"))
}

func daySuffix(day int) string {
	if day >= 4 && day <= 20 || day >= 24 && day <= 30 {
		return "th"
	}
	return [...]string{"st", "nd", "rd"}[day%10-1]
}
