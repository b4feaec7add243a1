package services

import (
	"sort"

	"task-market-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RewardPerTask is the fixed currency amount credited per completed task.
const RewardPerTask = 100

const (
	leaderboardSize = 10
	placeholderName = "Unknown user"
)

// Profile is the display identity resolved for a leaderboard entry.
type Profile struct {
	DisplayName string
	AvatarURL   *string
}

// ProfileLookup resolves display identity for a user id. The second
// return is false when the user has no profile record.
type ProfileLookup interface {
	Profile(userID string) (Profile, bool)
}

// LeaderboardEntry is derived on every aggregation, never persisted.
type LeaderboardEntry struct {
	UserID     string   `json:"user_id"`
	Name       string   `json:"name"`
	AvatarURL  *string  `json:"avatar_url"`
	Rating     *float64 `json:"rating"`
	TasksCount int      `json:"tasks_count"`
	Reward     int      `json:"reward"`
}

// roleSelector parameterizes the aggregation pipeline so the creator and
// doer passes share one implementation.
type roleSelector struct {
	userID func(*models.Task) (string, bool)
	rating func(*models.UserRating) *float64
}

var creatorRole = roleSelector{
	userID: func(t *models.Task) (string, bool) { return t.CreatorID, t.CreatorID != "" },
	rating: func(r *models.UserRating) *float64 { return r.CreatorRating },
}

var doerRole = roleSelector{
	userID: func(t *models.Task) (string, bool) {
		if t.DoerID == nil {
			return "", false
		}
		return *t.DoerID, true
	},
	rating: func(r *models.UserRating) *float64 { return r.DoerRating },
}

// buildLeaderboard runs the aggregation pipeline for one role: accumulate
// completed-task counts and reward totals per user, merge positive role
// averages (creating entries for rating-only users), resolve display
// identity, sort by reward then rating, truncate to the top 10. Users
// missing from the profile store keep their entry under a placeholder
// name.
func buildLeaderboard(tasks []models.Task, ratings []models.UserRating, profiles ProfileLookup, role roleSelector) []LeaderboardEntry {
	acc := make(map[string]*LeaderboardEntry)
	order := make([]string, 0, len(tasks))

	for i := range tasks {
		id, ok := role.userID(&tasks[i])
		if !ok {
			continue
		}
		e := acc[id]
		if e == nil {
			e = &LeaderboardEntry{UserID: id}
			acc[id] = e
			order = append(order, id)
		}
		if tasks[i].Status == models.TaskStatusCompleted {
			e.TasksCount++
			e.Reward += RewardPerTask
		}
	}

	for i := range ratings {
		avg := role.rating(&ratings[i])
		if avg == nil || *avg <= 0 {
			continue
		}
		id := ratings[i].UserID
		e := acc[id]
		if e == nil {
			e = &LeaderboardEntry{UserID: id}
			acc[id] = e
			order = append(order, id)
		}
		v := *avg
		e.Rating = &v
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, id := range order {
		e := acc[id]
		if p, ok := profiles.Profile(id); ok {
			e.Name = p.DisplayName
			e.AvatarURL = p.AvatarURL
		} else {
			e.Name = placeholderName
		}
		entries = append(entries, *e)
	}

	// Absent ratings compare as 0 but still serialize as null.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Reward != entries[j].Reward {
			return entries[i].Reward > entries[j].Reward
		}
		return ratingOrZero(entries[i].Rating) > ratingOrZero(entries[j].Rating)
	})

	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	return entries
}

func ratingOrZero(r *float64) float64 {
	if r == nil {
		return 0
	}
	return *r
}

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// dbProfiles resolves leaderboard identities against the users table.
type dbProfiles struct {
	db *gorm.DB
}

func (p dbProfiles) Profile(userID string) (Profile, bool) {
	var u models.User
	// Any lookup failure counts as missing: aggregation never fails for
	// profile data.
	if err := p.db.Select("display_name", "avatar_url").First(&u, "id = ?", userID).Error; err != nil {
		return Profile{}, false
	}
	return Profile{DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}, true
}

// GetLeaderboard — GET /leaderboard
// Recomputes both top-10 views from fresh snapshots on every request.
func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	var tasks []models.Task
	if err := s.DB.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load tasks",
			"cause": err.Error(),
		})
	}
	var ratings []models.UserRating
	if err := s.DB.Order("created_at ASC").Find(&ratings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load ratings",
			"cause": err.Error(),
		})
	}

	profiles := dbProfiles{db: s.DB}
	return c.JSON(fiber.Map{
		"creators": buildLeaderboard(tasks, ratings, profiles, creatorRole),
		"doers":    buildLeaderboard(tasks, ratings, profiles, doerRole),
	})
}
