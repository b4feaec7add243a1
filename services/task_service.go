package services

import (
	"errors"
	"time"

	"task-market-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type TaskService struct {
	DB *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// CreateTask — POST /tasks
func (s *TaskService) CreateTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		ExpiresAt   *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "expires_at is in the past"})
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   userID,
		Status:      models.TaskStatusOpen,
		ExpiresAt:   req.ExpiresAt,
	}
	// Slug suffix keeps duplicate titles from colliding.
	task.Slug = slug.Make(req.Title) + "-" + task.ID[:8]

	if err := s.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create task",
			"cause": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// GetTasks — GET /tasks?status=&role=
// role=creator|doer narrows to the caller's side of the board.
func (s *TaskService) GetTasks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	q := s.DB.Model(&models.Task{}).Order("created_at ASC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	switch c.Query("role") {
	case "creator":
		q = q.Where("creator_id = ?", userID)
	case "doer":
		q = q.Where("doer_id = ?", userID)
	case "":
		// full board
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "role must be creator or doer"})
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load tasks",
			"cause": err.Error(),
		})
	}
	return c.JSON(tasks)
}

// GetTaskByID — GET /tasks/:id (uuid or slug)
func (s *TaskService) GetTaskByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var task models.Task
	if err := s.DB.Where("id = ? OR slug = ?", id, id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load task",
			"cause": err.Error(),
		})
	}
	return c.JSON(task)
}

// UpdateTask — PUT /tasks/:id (creator only, open tasks only)
func (s *TaskService) UpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		ExpiresAt   *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}

	task, respErr := s.loadOwnOpenTask(c, userID)
	if task == nil {
		return respErr
	}

	if req.Title != nil {
		if *req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title cannot be empty"})
		}
		task.Title = *req.Title
		task.Slug = slug.Make(*req.Title) + "-" + task.ID[:8]
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.ExpiresAt != nil {
		task.ExpiresAt = req.ExpiresAt
	}

	if err := s.DB.Save(task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update task",
			"cause": err.Error(),
		})
	}
	return c.JSON(task)
}

// DeleteTask — DELETE /tasks/:id (creator only, open tasks only)
func (s *TaskService) DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	task, respErr := s.loadOwnOpenTask(c, userID)
	if task == nil {
		return respErr
	}
	if err := s.DB.Delete(task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete task",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "task deleted", "id": task.ID})
}

// CancelTask — POST /tasks/:id/cancel (creator only, open tasks only)
func (s *TaskService) CancelTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	task, respErr := s.loadOwnOpenTask(c, userID)
	if task == nil {
		return respErr
	}
	task.Status = models.TaskStatusCancelled
	if err := s.DB.Save(task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to cancel task",
			"cause": err.Error(),
		})
	}
	return c.JSON(task)
}

// ClaimTask — POST /tasks/:id/claim
// Claiming flips open → active and sets the doer. Creators cannot claim
// their own tasks.
func (s *TaskService) ClaimTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	var task models.Task
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			return err
		}
		if task.Status != models.TaskStatusOpen {
			return errTaskNotOpen
		}
		if task.CreatorID == userID {
			return errOwnTask
		}
		task.DoerID = &userID
		task.Status = models.TaskStatusActive
		return tx.Save(&task).Error
	})
	if err != nil {
		return taskLifecycleError(c, err)
	}
	return c.JSON(task)
}

// VerifyTask — POST /tasks/:id/verify
// Each party flips their own verification flag; once both are set the
// task completes.
func (s *TaskService) VerifyTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id := c.Params("id")

	var task models.Task
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			return err
		}
		if task.Status != models.TaskStatusActive && task.Status != models.TaskStatusCompleted {
			return errTaskNotActive
		}
		switch {
		case task.CreatorID == userID:
			task.RequestorVerified = true
		case task.IsDoer(userID):
			task.DoerVerified = true
		default:
			return ErrNotParticipant
		}
		if task.BothVerified() {
			task.Status = models.TaskStatusCompleted
		}
		return tx.Save(&task).Error
	})
	if err != nil {
		return taskLifecycleError(c, err)
	}
	return c.JSON(task)
}

var (
	errTaskNotOpen   = errors.New("task is not open")
	errTaskNotActive = errors.New("task is not active")
	errOwnTask       = errors.New("cannot claim your own task")
)

// loadOwnOpenTask fetches c.Params("id") and checks it belongs to userID
// and is still open. On failure the error response has already been
// written and the returned task is nil.
func (s *TaskService) loadOwnOpenTask(c *fiber.Ctx, userID string) (*models.Task, error) {
	id := c.Params("id")

	var task models.Task
	if err := s.DB.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load task",
			"cause": err.Error(),
		})
	}
	if task.CreatorID != userID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not your task"})
	}
	if task.Status != models.TaskStatusOpen {
		return nil, c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "task is no longer open"})
	}
	return &task, nil
}

func taskLifecycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
	case errors.Is(err, errTaskNotOpen), errors.Is(err, errTaskNotActive):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, errOwnTask), errors.Is(err, ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "task update failed",
			"cause": err.Error(),
		})
	}
}
