// Package account issues the token-bearing links mailed to users.
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"saas_backend/internal/config"
	"saas_backend/internal/domain"
	"saas_backend/internal/mail"
	"saas_backend/internal/utils"

	"gorm.io/gorm"
)

// VerificationLink points at the API's verify endpoint.
func VerificationLink(cfg *config.Config, token string) string {
	return strings.TrimRight(cfg.PublicBaseURL, "/") + "/verify/" + token
}

// ResetLink points at the web client's reset form.
func ResetLink(cfg *config.Config, token string) string {
	return strings.TrimRight(cfg.FrontendURL, "/") + "/reset-password/" + token
}

// VerifiedRedirect is where a redeemed verification link lands.
func VerifiedRedirect(cfg *config.Config) string {
	return strings.TrimRight(cfg.FrontendURL, "/") + "/login?verified=true"
}

// SendVerification mails a fresh verification link to user and stamps
// VerificationSentAt. The stamp is only written after the mail went out.
func SendVerification(ctx context.Context, db *gorm.DB, mailer mail.Sender, cfg *config.Config, user *domain.User) error {
	token, err := utils.GenerateJWT(user.ID, utils.PurposeVerify, utils.VerifyTTL, cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("sign verification token: %w", err)
	}
	msg := mail.VerificationMessage(cfg.AppName, user.Email, VerificationLink(cfg, token))
	if err := mailer.Send(ctx, msg); err != nil {
		return err
	}
	now := time.Now()
	if err := db.WithContext(ctx).Model(user).Update("verification_sent_at", now).Error; err != nil {
		return fmt.Errorf("stamp verification mail: %w", err)
	}
	return nil
}

// SendPasswordReset mails a reset link to user.
func SendPasswordReset(ctx context.Context, mailer mail.Sender, cfg *config.Config, user *domain.User) error {
	token, err := utils.GenerateJWT(user.ID, utils.PurposeReset, utils.ResetTTL, cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}
	return mailer.Send(ctx, mail.ResetMessage(cfg.AppName, user.Email, ResetLink(cfg, token)))
}
