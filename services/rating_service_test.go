package services

import (
	"errors"
	"math"
	"testing"

	"task-market-system/models"
)

func TestResolveRating_RoleMatrix(t *testing.T) {
	cases := []struct {
		name    string
		task    models.Task
		raterID string
		rateeID string
		role    models.RatingRole
		err     error
	}{
		{
			name:    "doer rates the creator",
			task:    verifiedTask("t", "creator", strPtr("doer"), false, false),
			raterID: "doer",
			rateeID: "creator",
			role:    models.RatingRoleCreator,
		},
		{
			name:    "creator rates the doer",
			task:    verifiedTask("t", "creator", strPtr("doer"), false, false),
			raterID: "creator",
			rateeID: "doer",
			role:    models.RatingRoleDoer,
		},
		{
			name:    "doer cannot rate twice",
			task:    verifiedTask("t", "creator", strPtr("doer"), true, false),
			raterID: "doer",
			err:     ErrAlreadyRated,
		},
		{
			name:    "creator cannot rate twice",
			task:    verifiedTask("t", "creator", strPtr("doer"), false, true),
			raterID: "creator",
			err:     ErrAlreadyRated,
		},
		{
			name:    "stranger cannot rate",
			task:    verifiedTask("t", "creator", strPtr("doer"), false, false),
			raterID: "stranger",
			err:     ErrNotParticipant,
		},
		{
			name: "no rating before both verifications",
			task: models.Task{
				ID: "t", CreatorID: "creator", DoerID: strPtr("doer"),
				Status: models.TaskStatusActive, DoerVerified: true,
			},
			raterID: "doer",
			err:     ErrNotVerified,
		},
		{
			name: "creator cannot rate an unclaimed task",
			task: models.Task{
				ID: "t", CreatorID: "creator",
				RequestorVerified: true, DoerVerified: true,
			},
			raterID: "creator",
			err:     ErrNotParticipant,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := tc.task
			rateeID, role, err := resolveRating(&task, tc.raterID)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				if task.DoerRated != tc.task.DoerRated || task.RequestorRated != tc.task.RequestorRated {
					t.Fatalf("failed resolution must not flip rated flags")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rateeID != tc.rateeID || role != tc.role {
				t.Fatalf("resolved (%s, %s), want (%s, %s)", rateeID, role, tc.rateeID, tc.role)
			}
			rated := task.DoerRated
			if tc.raterID == task.CreatorID {
				rated = task.RequestorRated
			}
			if !rated {
				t.Fatalf("rater's rated flag must flip")
			}
		})
	}
}

func TestOwesRating_OtherPartysObligationIsNotOwed(t *testing.T) {
	// The doer already rated; only the requestor's flag is pending. The
	// doer cannot satisfy it, so a prompt fed this task would stick
	// open forever while every submission is rejected as a repeat.
	task := verifiedTask("t1", "creator", strPtr("doer"), true, false)

	if owesRating(&task, "doer") {
		t.Fatalf("doer does not owe the requestor-side rating")
	}
	if !owesRating(&task, "creator") {
		t.Fatalf("creator owes the requestor-side rating")
	}

	var owed []models.Task
	for _, c := range []models.Task{task} {
		if owesRating(&c, "doer") {
			owed = append(owed, c)
		}
	}
	p := NewRatingPrompt(nil)
	if p.CheckForTasksNeedingRating("doer", owed) {
		t.Fatalf("prompt over the doer's owed set must find nothing")
	}
}

func TestOwesRating_EachSideOwnFlag(t *testing.T) {
	cases := []struct {
		name   string
		task   models.Task
		userID string
		owes   bool
	}{
		{"doer owes their own flag", verifiedTask("t", "c", strPtr("d"), false, true), "d", true},
		{"doer settled", verifiedTask("t", "c", strPtr("d"), true, true), "d", false},
		{"creator owes their own flag", verifiedTask("t", "c", strPtr("d"), true, false), "c", true},
		{"creator settled", verifiedTask("t", "c", strPtr("d"), true, true), "c", false},
		{"bystander owes nothing", verifiedTask("t", "c", strPtr("d"), false, false), "x", false},
		{"unverified task owes nothing", models.Task{ID: "t", CreatorID: "c", DoerID: strPtr("d"), Status: models.TaskStatusActive}, "d", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := owesRating(&tc.task, tc.userID); got != tc.owes {
				t.Fatalf("owesRating = %v, want %v", got, tc.owes)
			}
		})
	}
}

func TestFoldScore_FirstRating(t *testing.T) {
	avg, count := foldScore(nil, 0, 4)
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if avg == nil || *avg != 4 {
		t.Fatalf("expected average 4, got %v", avg)
	}
}

func TestFoldScore_RunningAverage(t *testing.T) {
	// 4.5 over 2 ratings, then a 3 → (4.5*2+3)/3 = 4.0
	avg, count := foldScore(f64Ptr(4.5), 2, 3)
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
	if math.Abs(*avg-4.0) > 1e-9 {
		t.Fatalf("expected average 4.0, got %v", *avg)
	}
}

func TestFoldScore_SequenceMatchesPlainMean(t *testing.T) {
	scores := []int{5, 3, 4, 1, 5, 2}
	var avg *float64
	count := 0
	sum := 0
	for _, sc := range scores {
		avg, count = foldScore(avg, count, sc)
		sum += sc
	}
	want := float64(sum) / float64(len(scores))
	if count != len(scores) {
		t.Fatalf("expected count %d, got %d", len(scores), count)
	}
	if math.Abs(*avg-want) > 1e-9 {
		t.Fatalf("expected average %v, got %v", want, *avg)
	}
}
