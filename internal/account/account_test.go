package account

import (
	"context"
	"errors"
	"strings"
	"testing"

	"saas_backend/internal/config"
	"saas_backend/internal/db"
	"saas_backend/internal/domain"
	"saas_backend/internal/mail"
	"saas_backend/internal/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:       "BulkDeleter",
		JWTSecret:     "account-secret",
		PublicBaseURL: "http://api.local/",
		FrontendURL:   "http://web.local",
	}
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.SeedPlans(gdb))
	return gdb
}

func TestLinks(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "http://api.local/verify/tok", VerificationLink(cfg, "tok"))
	assert.Equal(t, "http://web.local/reset-password/tok", ResetLink(cfg, "tok"))
	assert.Equal(t, "http://web.local/login?verified=true", VerifiedRedirect(cfg))
}

func TestSendVerification(t *testing.T) {
	cfg := testConfig()
	gdb := openDB(t)
	rec := &mail.Recorder{}
	user := &domain.User{Username: "alice", Email: "alice@x.com", Password: "h", Provider: domain.ProviderEmail, BillingPlanID: 1}
	require.NoError(t, gdb.Create(user).Error)

	require.NoError(t, SendVerification(context.Background(), gdb, rec, cfg, user))

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@x.com", sent[0].To)

	link := sent[0].HTML[strings.Index(sent[0].HTML, "/verify/")+len("/verify/"):]
	token := link[:strings.Index(link, `"`)]
	claims, err := utils.ParseJWT(token, utils.PurposeVerify, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	var stored domain.User
	require.NoError(t, gdb.First(&stored, user.ID).Error)
	assert.NotNil(t, stored.VerificationSentAt)
}

func TestSendVerification_MailFailureLeavesStampEmpty(t *testing.T) {
	cfg := testConfig()
	gdb := openDB(t)
	rec := &mail.Recorder{Err: errors.New("smtp down")}
	user := &domain.User{Username: "bob", Email: "bob@x.com", Password: "h", Provider: domain.ProviderEmail, BillingPlanID: 1}
	require.NoError(t, gdb.Create(user).Error)

	assert.EqualError(t, SendVerification(context.Background(), gdb, rec, cfg, user), "smtp down")

	var stored domain.User
	require.NoError(t, gdb.First(&stored, user.ID).Error)
	assert.Nil(t, stored.VerificationSentAt)
}

func TestSendPasswordReset(t *testing.T) {
	cfg := testConfig()
	rec := &mail.Recorder{}
	user := &domain.User{ID: 9, Email: "carol@x.com"}

	require.NoError(t, SendPasswordReset(context.Background(), rec, cfg, user))

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTML, "http://web.local/reset-password/")
	assert.Equal(t, "Reset your BulkDeleter account password", sent[0].Subject)
}
