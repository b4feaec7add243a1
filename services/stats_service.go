package services

import (
	"errors"

	"task-market-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// levelThresholds maps completed-task counts to level names. Progress
// denominators come from this same table, so every name the level
// function emits has a matching threshold.
var levelThresholds = []struct {
	Name      string
	Completed int
}{
	{"Beginner", 0},
	{"Beginner+", 5},
	{"Advanced", 20},
	{"Expert", 50},
}

// levelForCompleted returns the level name for a completed-task count and
// the count required for the next level (0 at the top level).
func levelForCompleted(completed int) (string, int) {
	idx := 0
	for i, lvl := range levelThresholds {
		if completed >= lvl.Completed {
			idx = i
		}
	}
	if idx == len(levelThresholds)-1 {
		return levelThresholds[idx].Name, 0
	}
	return levelThresholds[idx].Name, levelThresholds[idx+1].Completed
}

// levelProgress returns completion toward the next level in percent,
// 100 at the top level.
func levelProgress(completed int) int {
	_, next := levelForCompleted(completed)
	if next == 0 {
		return 100
	}
	pct := completed * 100 / next
	if pct > 100 {
		pct = 100
	}
	return pct
}

type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// GetUserStats — GET /stats
// Basic per-user statistics: task counts by role, reward earned, rating
// averages and the derived level.
func (s *StatsService) GetUserStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var created, closedAsCreator, completedAsDoer, activeAsDoer int64
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&created, s.DB.Model(&models.Task{}).Where("creator_id = ?", userID)},
		{&closedAsCreator, s.DB.Model(&models.Task{}).Where("creator_id = ? AND status = ?", userID, models.TaskStatusCompleted)},
		{&completedAsDoer, s.DB.Model(&models.Task{}).Where("doer_id = ? AND status = ?", userID, models.TaskStatusCompleted)},
		{&activeAsDoer, s.DB.Model(&models.Task{}).Where("doer_id = ? AND status = ?", userID, models.TaskStatusActive)},
	}
	for _, cnt := range counts {
		if err := cnt.query.Count(cnt.dest).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to count tasks",
				"cause": err.Error(),
			})
		}
	}

	var rating models.UserRating
	if err := s.DB.Where("user_id = ?", userID).First(&rating).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load rating",
				"cause": err.Error(),
			})
		}
		rating = models.UserRating{UserID: userID}
	}

	completed := int(completedAsDoer)
	level, nextAt := levelForCompleted(completed)

	return c.JSON(fiber.Map{
		"tasks_created":     created,
		"tasks_closed":      closedAsCreator,
		"tasks_completed":   completedAsDoer,
		"tasks_in_progress": activeAsDoer,
		"reward_earned":     completed * RewardPerTask,
		"creator_rating":    rating.CreatorRating,
		"doer_rating":       rating.DoerRating,
		"level":             level,
		"level_next_at":     nextAt,
		"level_progress":    levelProgress(completed),
	})
}
