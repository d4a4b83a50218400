package app

import (
	"context"
	"fmt"
	"time"

	"github.com/libribooks/core/internal/modules/content/author"
	"github.com/libribooks/core/internal/modules/message"
	pkgcron "github.com/libribooks/core/internal/pkg/cron"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const messageRetention = 90 * 24 * time.Hour

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")
	messageSvc := message.NewService(db)
	authorSvc := author.NewService(db)

	sched.Register(pkgcron.Job{
		Name:        "prune_read_messages",
		Description: "delete read contact messages older than 90 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			deleted, err := messageSvc.PruneRead(messageRetention)
			if err != nil {
				cronLogger.Warn("message pruning failed", zap.Error(err))
				return err
			}
			if deleted > 0 {
				cronLogger.Info(fmt.Sprintf("pruned %d read messages", deleted))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "backfill_author_slugs",
		Description: "derive slugs for authors imported without one",
		Interval:    12 * time.Hour,
		Fn: func(ctx context.Context) error {
			fixed, err := authorSvc.BackfillSlugs()
			if err != nil {
				cronLogger.Warn("author slug backfill failed", zap.Error(err))
				return err
			}
			if fixed > 0 {
				cronLogger.Info(fmt.Sprintf("backfilled %d author slugs", fixed))
			}
			return nil
		},
	})
}
