package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// CronService runs the scheduled maintenance jobs: the nightly spent-total
// reconcile and refresh token cleanup.
type CronService struct {
	cron          *cron.Cron
	budgetService *BudgetService
	tokenCleaner  TokenCleaner
}

// TokenCleaner removes expired refresh tokens
type TokenCleaner interface {
	DeleteExpired(ctx context.Context) error
}

// NewCronService creates a new cron service
func NewCronService(budgetService *BudgetService, tokenCleaner TokenCleaner) *CronService {
	return &CronService{
		cron:          cron.New(),
		budgetService: budgetService,
		tokenCleaner:  tokenCleaner,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() {
	// Nightly at 02:00: rebuild every budget's spent total from its
	// approved expenditure rows. The approval path keeps the totals in
	// step transactionally; this catches anything done around the API.
	s.cron.AddFunc("0 2 * * *", func() {
		if err := s.budgetService.RecomputeAll(context.Background()); err != nil {
			log.Printf("⚠️ Budget reconcile failed: %v", err)
		}
	})

	// Nightly at 03:00: drop expired refresh tokens
	s.cron.AddFunc("0 3 * * *", func() {
		if err := s.tokenCleaner.DeleteExpired(context.Background()); err != nil {
			log.Printf("⚠️ Token cleanup failed: %v", err)
		}
	})

	s.cron.Start()
	log.Println("⏰ Cron jobs started")
}

// Stop stops the scheduled jobs
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("⏰ Cron jobs stopped")
}
