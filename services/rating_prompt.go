package services

import (
	"log"

	"task-market-system/models"
)

// promptState tracks the modal rating prompt. "open implies a task is set"
// holds by construction: the only transitions into open states go through
// openFor, which always carries a task.
type promptState int

const (
	promptClosed   promptState = iota
	promptOpen                 // dismissible
	promptEnforced             // cannot be dismissed without submitting
)

// SubmitFunc persists a rating for a task and flips the matching rated
// flag. It is the external collaborator the prompt delegates writes to.
type SubmitFunc func(taskID string, score int) error

// RatingPrompt decides whether a blocking rating prompt must be shown
// before the user can continue, and mediates its submission. It owns no
// persistent state; enforcement is re-derived from current data on every
// check, so repeated checks against unchanged input are a no-op.
type RatingPrompt struct {
	state  promptState
	task   *models.Task
	submit SubmitFunc
}

func NewRatingPrompt(submit SubmitFunc) *RatingPrompt {
	return &RatingPrompt{submit: submit}
}

// CheckForTasksNeedingRating scans the tasks visible to userID and opens
// the prompt in enforced mode on the first task owing a rating. Tasks
// where the user is the doer are checked before requestor-side
// obligations; within each pass the first match in slice order wins.
func (p *RatingPrompt) CheckForTasksNeedingRating(userID string, tasks []models.Task) bool {
	for i := range tasks {
		if tasks[i].IsDoer(userID) && tasks[i].NeedsDoerRating() {
			p.openFor(&tasks[i], promptEnforced)
			return true
		}
	}
	for i := range tasks {
		if tasks[i].NeedsRequestorRating() {
			p.openFor(&tasks[i], promptEnforced)
			return true
		}
	}
	return false
}

// OpenFor opens a dismissible prompt for a task the user chose to rate
// voluntarily.
func (p *RatingPrompt) OpenFor(task *models.Task) {
	p.openFor(task, promptOpen)
}

func (p *RatingPrompt) openFor(task *models.Task, state promptState) {
	p.task = task
	p.state = state
}

// Dismiss closes the prompt unless it is enforced.
func (p *RatingPrompt) Dismiss() bool {
	if p.state == promptEnforced {
		return false
	}
	p.task = nil
	p.state = promptClosed
	return true
}

// SubmitRating submits a score for the current task. Returns false when no
// task is selected, without calling the submitter. Prompt state is cleared
// before the submitter runs, so a re-check triggered mid-call cannot
// re-display the same prompt; a submitter error or panic is swallowed into
// a failure return.
func (p *RatingPrompt) SubmitRating(score int) bool {
	if p.task == nil {
		return false
	}
	task := p.task
	p.task = nil
	p.state = promptClosed

	ok := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[RATING] submit panicked for task %s: %v", task.ID, r)
				ok = false
			}
		}()
		if err := p.submit(task.ID, score); err != nil {
			log.Printf("[RATING] submit failed for task %s: %v", task.ID, err)
			return
		}
		ok = true
	}()
	return ok
}

// IsOpen reports whether the prompt is showing.
func (p *RatingPrompt) IsOpen() bool { return p.state != promptClosed }

// IsEnforced reports whether the prompt cannot be dismissed.
func (p *RatingPrompt) IsEnforced() bool { return p.state == promptEnforced }

// Current returns the task being rated, or nil.
func (p *RatingPrompt) Current() *models.Task { return p.task }
