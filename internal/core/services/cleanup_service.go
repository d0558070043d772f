package services

import (
	"context"
	"log"
	"time"

	"refundhub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CleanupService purges expired refresh tokens on a schedule so the
// refresh_tokens table does not grow without bound.
type CleanupService struct {
	cron      *cron.Cron
	tokenRepo repositories.RefreshTokenRepository
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(tokenRepo repositories.RefreshTokenRepository) *CleanupService {
	return &CleanupService{
		cron:      cron.New(),
		tokenRepo: tokenRepo,
	}
}

// Start schedules the daily purge (03:30)
func (s *CleanupService) Start() {
	_, err := s.cron.AddFunc("30 3 * * *", s.purgeExpiredTokens)
	if err != nil {
		log.Printf("⚠️ Failed to schedule token cleanup: %v", err)
		return
	}

	s.cron.Start()
	log.Println("✅ Token cleanup scheduled (daily 03:30)")
}

// Stop stops the scheduler
func (s *CleanupService) Stop() {
	s.cron.Stop()
}

func (s *CleanupService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("⚠️ Token cleanup failed: %v", err)
		return
	}

	log.Println("🧹 Expired refresh tokens purged")
}
