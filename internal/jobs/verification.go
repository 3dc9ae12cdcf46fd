// Package jobs holds the background jobs started next to the HTTP server.
package jobs

import (
	"context"
	"fmt"
	"time"

	"saas_backend/internal/account"
	"saas_backend/internal/config"
	"saas_backend/internal/domain"
	"saas_backend/internal/mail"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// retryBatchSize caps the accounts handled by one run.
const retryBatchSize = 100

// VerificationRetrier re-sends the verification mail to local accounts whose
// first mail never went out.
type VerificationRetrier struct {
	db      *gorm.DB
	mailer  mail.Sender
	cfg     *config.Config
	timeout time.Duration
	cron    *cron.Cron
}

// NewVerificationRetrier creates a retrier. Nothing runs until Start.
func NewVerificationRetrier(db *gorm.DB, mailer mail.Sender, cfg *config.Config) *VerificationRetrier {
	return &VerificationRetrier{
		db:      db,
		mailer:  mailer,
		cfg:     cfg,
		timeout: 2 * time.Minute,
	}
}

// RunOnce handles one batch of pending accounts and returns how many mails
// went out. Per-user failures are logged and skipped.
func (r *VerificationRetrier) RunOnce(ctx context.Context) (int, error) {
	var pending []domain.User
	err := r.db.WithContext(ctx).
		Where("provider = ? AND is_verified = ? AND verification_sent_at IS NULL", domain.ProviderEmail, false).
		Order("id").
		Limit(retryBatchSize).
		Find(&pending).Error
	if err != nil {
		return 0, fmt.Errorf("find pending verifications: %w", err)
	}

	sent := 0
	for i := range pending {
		user := &pending[i]
		if err := account.SendVerification(ctx, r.db, r.mailer, r.cfg, user); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Warn("Verification retry failed")
			continue
		}
		sent++
	}
	if len(pending) > 0 {
		logrus.WithFields(logrus.Fields{
			"pending": len(pending),
			"sent":    sent,
		}).Info("Verification retry run finished")
	}
	return sent, nil
}

// Start schedules RunOnce on spec, a robfig/cron expression such as
// "@every 15m". An empty spec leaves the job disabled.
func (r *VerificationRetrier) Start(spec string) error {
	if spec == "" {
		logrus.Info("Verification retry job disabled")
		return nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, r.tick); err != nil {
		return fmt.Errorf("schedule verification retry %q: %w", spec, err)
	}
	c.Start()
	r.cron = c
	logrus.WithField("schedule", spec).Info("Verification retry job started")
	return nil
}

// Stop halts the schedule and waits for a running batch to finish or ctx to end.
func (r *VerificationRetrier) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (r *VerificationRetrier) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if _, err := r.RunOnce(ctx); err != nil {
		logrus.WithError(err).Error("Verification retry run failed")
	}
}
