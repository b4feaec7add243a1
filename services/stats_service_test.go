package services

import "testing"

func TestLevelForCompleted(t *testing.T) {
	cases := []struct {
		completed int
		level     string
		nextAt    int
	}{
		{0, "Beginner", 5},
		{4, "Beginner", 5},
		{5, "Beginner+", 20},
		{19, "Beginner+", 20},
		{20, "Advanced", 50},
		{49, "Advanced", 50},
		{50, "Expert", 0},
		{120, "Expert", 0},
	}
	for _, tc := range cases {
		level, nextAt := levelForCompleted(tc.completed)
		if level != tc.level || nextAt != tc.nextAt {
			t.Fatalf("levelForCompleted(%d) = (%q, %d), want (%q, %d)",
				tc.completed, level, nextAt, tc.level, tc.nextAt)
		}
	}
}

func TestLevelProgress(t *testing.T) {
	cases := []struct {
		completed int
		progress  int
	}{
		{0, 0},
		{1, 20},
		{4, 80},
		{5, 25},  // 5 of 20 toward Advanced
		{20, 40}, // 20 of 50 toward Expert
		{50, 100},
		{99, 100},
	}
	for _, tc := range cases {
		if got := levelProgress(tc.completed); got != tc.progress {
			t.Fatalf("levelProgress(%d) = %d, want %d", tc.completed, got, tc.progress)
		}
	}
}
