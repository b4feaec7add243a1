package workers

import (
	"context"
	"log"
	"time"

	"task-market-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingReconcileWorker periodically rebuilds UserRating aggregates from
// the append-only rating events. The hot path keeps running averages in
// place; this repairs any drift (crashed transactions, manual fixes)
// against the source of truth.
type RatingReconcileWorker struct {
	db       *gorm.DB
	interval time.Duration
}

func NewRatingReconcileWorker(db *gorm.DB) *RatingReconcileWorker {
	return &RatingReconcileWorker{
		db:       db,
		interval: 10 * time.Minute,
	}
}

func (w *RatingReconcileWorker) Start(ctx context.Context) {
	log.Println("Starting Rating Reconcile Worker (rating_events → user_ratings)…")
	go w.run(ctx)
}

func (w *RatingReconcileWorker) run(ctx context.Context) {
	if err := w.reconcile(ctx); err != nil {
		log.Printf("[RECONCILE] initial pass failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Rating Reconcile Worker stopped")
			return
		case <-ticker.C:
			if err := w.reconcile(ctx); err != nil {
				log.Printf("[RECONCILE] pass failed: %v", err)
			}
		}
	}
}

// reconcile recomputes per-role averages and counts from rating_events and
// upserts rows whose stored aggregates differ.
func (w *RatingReconcileWorker) reconcile(ctx context.Context) error {
	type aggregate struct {
		RateeID      string
		CreatorAvg   *float64
		CreatorCount int
		DoerAvg      *float64
		DoerCount    int
	}

	var aggs []aggregate
	err := w.db.WithContext(ctx).Raw(`
		SELECT ratee_id,
		       AVG(score) FILTER (WHERE role = 'creator') AS creator_avg,
		       COUNT(*)   FILTER (WHERE role = 'creator') AS creator_count,
		       AVG(score) FILTER (WHERE role = 'doer')    AS doer_avg,
		       COUNT(*)   FILTER (WHERE role = 'doer')    AS doer_count
		FROM rating_events
		GROUP BY ratee_id
	`).Scan(&aggs).Error
	if err != nil {
		return err
	}

	repaired := 0
	for _, agg := range aggs {
		rec := models.UserRating{
			UserID:             agg.RateeID,
			CreatorRating:      agg.CreatorAvg,
			CreatorRatingCount: agg.CreatorCount,
			DoerRating:         agg.DoerAvg,
			DoerRatingCount:    agg.DoerCount,
		}
		res := w.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"creator_rating", "creator_rating_count",
				"doer_rating", "doer_rating_count", "updated_at",
			}),
		}).Create(&rec)
		if res.Error != nil {
			log.Printf("[RECONCILE] upsert failed for %s: %v", agg.RateeID, res.Error)
			continue
		}
		repaired++
	}

	log.Printf("[RECONCILE] pass done: %d users reconciled", repaired)
	return nil
}
