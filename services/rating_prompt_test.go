package services

import (
	"errors"
	"testing"

	"task-market-system/models"
)

func strPtr(s string) *string { return &s }

func verifiedTask(id, creator string, doer *string, doerRated, requestorRated bool) models.Task {
	return models.Task{
		ID:                id,
		CreatorID:         creator,
		DoerID:            doer,
		Status:            models.TaskStatusCompleted,
		RequestorVerified: true,
		DoerVerified:      true,
		DoerRated:         doerRated,
		RequestorRated:    requestorRated,
	}
}

func TestCheck_DoerObligationBeforeRequestor(t *testing.T) {
	// t1: user owes a rating as creator; t2: user owes one as doer. The
	// doer pass runs first even though t1 comes first in order.
	tasks := []models.Task{
		verifiedTask("t1", "me", strPtr("other"), true, false),
		verifiedTask("t2", "other", strPtr("me"), false, true),
	}

	p := NewRatingPrompt(nil)
	if !p.CheckForTasksNeedingRating("me", tasks) {
		t.Fatalf("expected a pending rating")
	}
	if p.Current().ID != "t2" {
		t.Fatalf("expected doer-side task t2 first, got %s", p.Current().ID)
	}
	if !p.IsEnforced() {
		t.Fatalf("expected enforced prompt")
	}
}

func TestCheck_FirstMatchInInsertionOrderWins(t *testing.T) {
	tasks := []models.Task{
		verifiedTask("t1", "other", strPtr("me"), false, true),
		verifiedTask("t2", "other", strPtr("me"), false, true),
	}

	p := NewRatingPrompt(nil)
	if !p.CheckForTasksNeedingRating("me", tasks) {
		t.Fatalf("expected a pending rating")
	}
	if p.Current().ID != "t1" {
		t.Fatalf("expected first match t1, got %s", p.Current().ID)
	}
}

func TestCheck_RequestorObligationFound(t *testing.T) {
	tasks := []models.Task{
		verifiedTask("t1", "me", strPtr("other"), true, false),
	}

	p := NewRatingPrompt(nil)
	if !p.CheckForTasksNeedingRating("me", tasks) {
		t.Fatalf("expected a pending rating")
	}
	if p.Current().ID != "t1" {
		t.Fatalf("expected t1, got %s", p.Current().ID)
	}
}

func TestCheck_NothingOwedLeavesPromptClosed(t *testing.T) {
	tasks := []models.Task{
		// fully rated
		verifiedTask("t1", "other", strPtr("me"), true, true),
		// not verified yet
		{ID: "t2", CreatorID: "other", DoerID: strPtr("me"), Status: models.TaskStatusActive, DoerVerified: true},
	}

	p := NewRatingPrompt(nil)
	if p.CheckForTasksNeedingRating("me", tasks) {
		t.Fatalf("expected no pending rating")
	}
	if p.IsOpen() {
		t.Fatalf("prompt should stay closed")
	}
	if p.Current() != nil {
		t.Fatalf("no task should be selected")
	}
}

func TestCheck_Idempotent(t *testing.T) {
	tasks := []models.Task{
		verifiedTask("t1", "other", strPtr("me"), false, true),
		verifiedTask("t2", "other", strPtr("me"), false, true),
	}

	p := NewRatingPrompt(nil)
	p.CheckForTasksNeedingRating("me", tasks)
	first := p.Current().ID
	p.CheckForTasksNeedingRating("me", tasks)
	if p.Current().ID != first {
		t.Fatalf("repeated check selected %s, want %s", p.Current().ID, first)
	}
}

func TestSubmit_NoCurrentTaskFailsWithoutCallingSubmitter(t *testing.T) {
	called := false
	p := NewRatingPrompt(func(taskID string, score int) error {
		called = true
		return nil
	})

	if p.SubmitRating(5) {
		t.Fatalf("expected failure with no current task")
	}
	if called {
		t.Fatalf("submitter must not be invoked")
	}
}

func TestSubmit_ClearsStateBeforeSubmitterRuns(t *testing.T) {
	var p *RatingPrompt
	openDuringSubmit := true
	var taskDuringSubmit *models.Task

	p = NewRatingPrompt(func(taskID string, score int) error {
		openDuringSubmit = p.IsOpen()
		taskDuringSubmit = p.Current()
		return nil
	})

	tasks := []models.Task{verifiedTask("t1", "other", strPtr("me"), false, true)}
	p.CheckForTasksNeedingRating("me", tasks)

	if !p.SubmitRating(4) {
		t.Fatalf("expected successful submit")
	}
	if openDuringSubmit {
		t.Fatalf("prompt state must be cleared before the submitter runs")
	}
	if taskDuringSubmit != nil {
		t.Fatalf("current task must be cleared before the submitter runs")
	}
}

func TestSubmit_PropagatesSubmitterResult(t *testing.T) {
	p := NewRatingPrompt(func(taskID string, score int) error {
		return errors.New("persistence rejected")
	})
	tasks := []models.Task{verifiedTask("t1", "other", strPtr("me"), false, true)}
	p.CheckForTasksNeedingRating("me", tasks)

	if p.SubmitRating(3) {
		t.Fatalf("expected failure result from failing submitter")
	}
	if p.IsOpen() {
		t.Fatalf("prompt must stay closed after a failed submit")
	}
}

func TestSubmit_SwallowsSubmitterPanic(t *testing.T) {
	p := NewRatingPrompt(func(taskID string, score int) error {
		panic("boom")
	})
	tasks := []models.Task{verifiedTask("t1", "other", strPtr("me"), false, true)}
	p.CheckForTasksNeedingRating("me", tasks)

	if p.SubmitRating(3) {
		t.Fatalf("expected failure result from panicking submitter")
	}
}

func TestDismiss_EnforcedPromptCannotBeDismissed(t *testing.T) {
	p := NewRatingPrompt(nil)
	tasks := []models.Task{verifiedTask("t1", "other", strPtr("me"), false, true)}
	p.CheckForTasksNeedingRating("me", tasks)

	if p.Dismiss() {
		t.Fatalf("enforced prompt must not be dismissible")
	}
	if !p.IsOpen() {
		t.Fatalf("prompt should remain open")
	}

	task := verifiedTask("t2", "other", strPtr("me"), true, true)
	p.OpenFor(&task)
	if p.IsEnforced() {
		t.Fatalf("voluntary prompt should not be enforced")
	}
	if !p.Dismiss() {
		t.Fatalf("voluntary prompt should be dismissible")
	}
	if p.IsOpen() || p.Current() != nil {
		t.Fatalf("dismiss should clear all prompt state")
	}
}
