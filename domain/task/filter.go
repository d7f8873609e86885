package task

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrUnknownFilter is returned when a filter name is not recognized.
var ErrUnknownFilter = errors.New("unknown filter")

// Filter selects a categorical subset of tasks.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterToday      Filter = "today"
	FilterOverdue    Filter = "overdue"
	FilterPending    Filter = "pending"
	FilterInProgress Filter = "in-progress"
	FilterCompleted  Filter = "completed"
)

// ParseFilter converts a filter name into a Filter. The empty string maps
// to FilterAll.
func ParseFilter(name string) (Filter, error) {
	switch Filter(name) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterToday, FilterOverdue, FilterPending, FilterInProgress, FilterCompleted:
		return Filter(name), nil
	}
	return "", ErrUnknownFilter
}

// Matches reports whether the task satisfies the filter predicate at the
// given reference time.
func (f Filter) Matches(t Task, now time.Time) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterPending:
		return t.Status == StatusPending
	case FilterInProgress:
		return t.Status == StatusInProgress
	case FilterCompleted:
		return t.Status == StatusCompleted
	case FilterOverdue:
		return t.IsOverdue(now)
	case FilterToday:
		return t.IsDueToday(now)
	}
	return false
}

// MatchesSearch reports whether the task matches a case-insensitive
// substring search against title or description. An empty term matches
// every task; a task without a description is still eligible via its title.
func MatchesSearch(t Task, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), needle)
}

// Apply derives the visible subset of tasks from a search term and a
// categorical filter. Both predicates must hold. The input order is
// preserved and the input slice is never mutated.
func Apply(tasks []Task, searchTerm string, filter Filter, now time.Time) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if MatchesSearch(t, searchTerm) && filter.Matches(t, now) {
			out = append(out, t)
		}
	}
	return out
}

// Stats aggregates task counts for the overview panel.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"in_progress"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completion_rate"`
}

// ComputeStats derives stat aggregates from the full task collection.
func ComputeStats(tasks []Task, now time.Time) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		case StatusInProgress:
			s.InProgress++
		case StatusPending:
			s.Pending++
		}
		if t.IsOverdue(now) {
			s.Overdue++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}
