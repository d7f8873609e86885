package notifier

import (
	"fmt"
	"testing"
)

func TestHistoryNewestFirst(t *testing.T) {
	h := newHistory()
	for i := 0; i < 3; i++ {
		h.add(newNotification(fmt.Sprintf("title %d", i), "", VariantDefault))
	}

	recent := h.recent(0)
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	if recent[0].Title != "title 2" || recent[2].Title != "title 0" {
		t.Errorf("wrong order: %q ... %q", recent[0].Title, recent[2].Title)
	}
}

func TestHistoryLimit(t *testing.T) {
	h := newHistory()
	for i := 0; i < historyLimit+10; i++ {
		h.add(newNotification(fmt.Sprintf("title %d", i), "", VariantDefault))
	}

	if h.size() != historyLimit {
		t.Fatalf("size = %d, want %d", h.size(), historyLimit)
	}

	recent := h.recent(0)
	if recent[0].Title != fmt.Sprintf("title %d", historyLimit+9) {
		t.Errorf("newest = %q, oldest entries should have been evicted", recent[0].Title)
	}
}

func TestHistoryRecentWithLimit(t *testing.T) {
	h := newHistory()
	for i := 0; i < 10; i++ {
		h.add(newNotification(fmt.Sprintf("title %d", i), "", VariantDefault))
	}

	recent := h.recent(3)
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	if recent[0].Title != "title 9" {
		t.Errorf("newest = %q, want title 9", recent[0].Title)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"google", "Google"},
		{"github", "Github"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
