package task

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

func datePtr(t time.Time) *time.Time {
	return &t
}

func sampleTasks() []Task {
	yesterday := testNow.AddDate(0, 0, -1)
	today := testNow.Add(2 * time.Hour)
	tomorrow := testNow.AddDate(0, 0, 1)

	return []Task{
		{ID: "1", Title: "Write report", Description: "Quarterly numbers", Status: StatusPending, DueDate: datePtr(yesterday)},
		{ID: "2", Title: "Review PR", Status: StatusInProgress, DueDate: datePtr(today)},
		{ID: "3", Title: "Ship release", Description: "Cut the final build", Status: StatusCompleted, DueDate: datePtr(yesterday)},
		{ID: "4", Title: "Plan sprint", Status: StatusPending, DueDate: datePtr(tomorrow)},
		{ID: "5", Title: "Fix login bug", Description: "Report from QA", Status: StatusInProgress},
	}
}

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Filter
		wantErr bool
	}{
		{"empty defaults to all", "", FilterAll, false},
		{"all", "all", FilterAll, false},
		{"today", "today", FilterToday, false},
		{"overdue", "overdue", FilterOverdue, false},
		{"pending", "pending", FilterPending, false},
		{"in-progress", "in-progress", FilterInProgress, false},
		{"completed", "completed", FilterCompleted, false},
		{"unknown", "urgent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFilter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFilter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tasks := sampleTasks()

	tests := []struct {
		name   string
		search string
		filter Filter
		want   []string
	}{
		{"no search and all returns everything", "", FilterAll, []string{"1", "2", "3", "4", "5"}},
		{"pending", "", FilterPending, []string{"1", "4"}},
		{"in-progress", "", FilterInProgress, []string{"2", "5"}},
		{"completed", "", FilterCompleted, []string{"3"}},
		{"overdue excludes completed", "", FilterOverdue, []string{"1"}},
		{"today", "", FilterToday, []string{"2"}},
		{"search matches title", "release", FilterAll, []string{"3"}},
		{"search matches description", "numbers", FilterAll, []string{"1"}},
		{"search is case-insensitive", "REPORT", FilterAll, []string{"1", "5"}},
		{"search and filter compose", "report", FilterInProgress, []string{"5"}},
		{"no matches", "zzz", FilterAll, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tasks, tt.search, tt.filter, testNow)
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("Apply(%q, %q) = %v, want %v", tt.search, tt.filter, ids(got), tt.want)
			}
		})
	}
}

func TestApplyPreservesOrderAndInput(t *testing.T) {
	tasks := sampleTasks()
	before := ids(tasks)

	got := Apply(tasks, "", FilterAll, testNow)
	if !equalIDs(ids(got), before) {
		t.Errorf("order changed: %v, want %v", ids(got), before)
	}
	if !equalIDs(ids(tasks), before) {
		t.Errorf("input mutated: %v, want %v", ids(tasks), before)
	}
}

func TestIsOverdue(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past due pending", Task{Status: StatusPending, DueDate: datePtr(yesterday)}, true},
		{"past due in-progress", Task{Status: StatusInProgress, DueDate: datePtr(yesterday)}, true},
		{"past due completed is not overdue", Task{Status: StatusCompleted, DueDate: datePtr(yesterday)}, false},
		{"no due date", Task{Status: StatusPending}, false},
		{"future due date", Task{Status: StatusPending, DueDate: datePtr(testNow.Add(time.Hour))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(testNow); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDueToday(t *testing.T) {
	startOfDay := time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local)
	endOfDay := time.Date(2025, 6, 15, 23, 59, 59, 0, time.Local)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"start of day", Task{DueDate: datePtr(startOfDay)}, true},
		{"end of day", Task{DueDate: datePtr(endOfDay)}, true},
		{"yesterday", Task{DueDate: datePtr(startOfDay.Add(-time.Second))}, false},
		{"tomorrow", Task{DueDate: datePtr(startOfDay.AddDate(0, 0, 1))}, false},
		{"no due date", Task{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsDueToday(testNow); got != tt.want {
				t.Errorf("IsDueToday() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleTasks(), testNow)

	if stats.Total != 5 {
		t.Errorf("Total = %d, want 5", stats.Total)
	}
	if stats.Completed != 1 {
		t.Errorf("Completed = %d, want 1", stats.Completed)
	}
	if stats.InProgress != 2 {
		t.Errorf("InProgress = %d, want 2", stats.InProgress)
	}
	if stats.Pending != 2 {
		t.Errorf("Pending = %d, want 2", stats.Pending)
	}
	if stats.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", stats.Overdue)
	}
	if stats.CompletionRate != 20 {
		t.Errorf("CompletionRate = %d, want 20", stats.CompletionRate)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, testNow)
	if stats.Total != 0 || stats.CompletionRate != 0 {
		t.Errorf("empty stats = %+v, want zeroes", stats)
	}
}

func TestComputeStatsRounding(t *testing.T) {
	tasks := []Task{
		{Status: StatusCompleted},
		{Status: StatusCompleted},
		{Status: StatusPending},
	}
	stats := ComputeStats(tasks, testNow)
	if stats.CompletionRate != 67 {
		t.Errorf("CompletionRate = %d, want 67 (2/3 rounded)", stats.CompletionRate)
	}
}
