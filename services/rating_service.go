package services

import (
	"errors"

	"task-market-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrScoreOutOfRange = errors.New("score must be between 1 and 5")
	ErrNotVerified     = errors.New("task is not verified by both parties")
	ErrAlreadyRated    = errors.New("rating already submitted for this task")
	ErrNotParticipant  = errors.New("user is not a participant of this task")
)

type RatingService struct {
	DB *gorm.DB
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{DB: db}
}

// resolveRating determines who receives raterID's rating on the task and
// flips the rater's rated flag in place. The doer rates the creator and
// vice versa; ratings are only accepted once both parties verified.
func resolveRating(task *models.Task, raterID string) (string, models.RatingRole, error) {
	if !task.BothVerified() {
		return "", "", ErrNotVerified
	}
	switch {
	case task.IsDoer(raterID):
		if task.DoerRated {
			return "", "", ErrAlreadyRated
		}
		task.DoerRated = true
		return task.CreatorID, models.RatingRoleCreator, nil
	case task.CreatorID == raterID:
		if task.RequestorRated {
			return "", "", ErrAlreadyRated
		}
		if task.DoerID == nil {
			return "", "", ErrNotParticipant
		}
		task.RequestorRated = true
		return *task.DoerID, models.RatingRoleDoer, nil
	default:
		return "", "", ErrNotParticipant
	}
}

// Submit persists a rating from raterID on the given task: flips the
// rater's rated flag, appends a RatingEvent and folds the score into the
// ratee's running average, all in one transaction.
func (s *RatingService) Submit(taskID, raterID string, score int) error {
	if score < 1 || score > 5 {
		return ErrScoreOutOfRange
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}
		rateeID, role, err := resolveRating(&task, raterID)
		if err != nil {
			return err
		}

		event := models.RatingEvent{
			ID:      uuid.NewString(),
			TaskID:  task.ID,
			RaterID: raterID,
			RateeID: rateeID,
			Role:    role,
			Score:   score,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		if err := applyScore(tx, rateeID, role, score); err != nil {
			return err
		}
		return tx.Save(&task).Error
	})
}

// applyScore folds a score into the ratee's UserRating row, creating the
// row on first rating.
func applyScore(tx *gorm.DB, rateeID string, role models.RatingRole, score int) error {
	var rec models.UserRating
	err := tx.Where("user_id = ?", rateeID).First(&rec).Error
	created := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = models.UserRating{UserID: rateeID}
		created = true
	} else if err != nil {
		return err
	}

	switch role {
	case models.RatingRoleCreator:
		rec.CreatorRating, rec.CreatorRatingCount = foldScore(rec.CreatorRating, rec.CreatorRatingCount, score)
	case models.RatingRoleDoer:
		rec.DoerRating, rec.DoerRatingCount = foldScore(rec.DoerRating, rec.DoerRatingCount, score)
	}

	if created {
		return tx.Create(&rec).Error
	}
	return tx.Save(&rec).Error
}

// foldScore folds a new score into a running average.
func foldScore(avg *float64, count int, score int) (*float64, int) {
	total := float64(score)
	if avg != nil {
		total += *avg * float64(count)
	}
	count++
	next := total / float64(count)
	return &next, count
}

// visibleTasks returns the tasks the user participates in, oldest first so
// prompt selection follows insertion order.
func (s *RatingService) visibleTasks(userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.
		Where("creator_id = ? OR doer_id = ?", userID, userID).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// owesRating reports whether userID can satisfy the pending rating on t:
// the doer-side flag on tasks they claimed, the requestor-side flag on
// tasks they created.
func owesRating(t *models.Task, userID string) bool {
	if t.IsDoer(userID) && t.NeedsDoerRating() {
		return true
	}
	return t.CreatorID == userID && t.NeedsRequestorRating()
}

// owedTasks narrows the visible set to tasks whose pending rating the
// user can satisfy themselves. Feeding the prompt anything wider would
// let it select a task whose OTHER party owes the rating, leaving the
// user stuck behind a prompt they cannot submit.
func (s *RatingService) owedTasks(userID string) ([]models.Task, error) {
	tasks, err := s.visibleTasks(userID)
	if err != nil {
		return nil, err
	}
	owed := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if owesRating(&tasks[i], userID) {
			owed = append(owed, tasks[i])
		}
	}
	return owed, nil
}

// GetPendingRating — GET /ratings/pending
// Re-derives the enforcement decision from current data.
func (s *RatingService) GetPendingRating(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	tasks, err := s.owedTasks(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load tasks",
			"cause": err.Error(),
		})
	}

	prompt := NewRatingPrompt(nil)
	if !prompt.CheckForTasksNeedingRating(userID, tasks) {
		return c.JSON(fiber.Map{"found": false})
	}
	return c.JSON(fiber.Map{
		"found":    true,
		"enforced": prompt.IsEnforced(),
		"task":     prompt.Current(),
	})
}

// SubmitRating — POST /ratings
// With a task_id the rating goes straight through; without one the
// pending task is re-derived and submitted through the prompt.
func (s *RatingService) SubmitRating(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		TaskID string `json:"task_id"`
		Score  int    `json:"score"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}

	if req.TaskID != "" {
		if err := s.Submit(req.TaskID, userID, req.Score); err != nil {
			return ratingError(c, err)
		}
		return c.JSON(fiber.Map{"message": "rating submitted", "task_id": req.TaskID})
	}

	tasks, err := s.owedTasks(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load tasks",
			"cause": err.Error(),
		})
	}
	prompt := NewRatingPrompt(func(taskID string, score int) error {
		return s.Submit(taskID, userID, score)
	})
	if !prompt.CheckForTasksNeedingRating(userID, tasks) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no task pending a rating",
		})
	}
	taskID := prompt.Current().ID
	if !prompt.SubmitRating(req.Score) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "rating submission failed",
			"task_id": taskID,
		})
	}
	return c.JSON(fiber.Map{"message": "rating submitted", "task_id": taskID})
}

// GetUserRating — GET /users/:id/rating
func (s *RatingService) GetUserRating(c *fiber.Ctx) error {
	userID := c.Params("id")

	var rec models.UserRating
	if err := s.DB.Where("user_id = ?", userID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(models.UserRating{UserID: userID})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load rating",
			"cause": err.Error(),
		})
	}
	return c.JSON(rec)
}

func ratingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
	case errors.Is(err, ErrScoreOutOfRange),
		errors.Is(err, ErrNotVerified),
		errors.Is(err, ErrAlreadyRated):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "rating submission failed",
			"cause": err.Error(),
		})
	}
}
