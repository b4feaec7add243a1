package services

import (
	"log"
	"time"

	"task-market-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartExpiryScheduler flips open tasks past their expiry to expired.
func (s *TaskService) StartExpiryScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var tasks []models.Task
			now := time.Now()
			err := s.DB.Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?",
				models.TaskStatusOpen, now).
				Find(&tasks).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, t := range tasks {
				t.Status = models.TaskStatusExpired
				if err := s.DB.Save(&t).Error; err != nil {
					log.Printf("[Scheduler] Failed to expire task %s: %v", t.ID, err)
				} else {
					log.Printf("[Scheduler] Expired task: %s", t.Title)
				}
			}
		}),
	)
}
