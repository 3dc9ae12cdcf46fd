package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"saas_backend/internal/config"
	"saas_backend/internal/db"
	"saas_backend/internal/domain"
	"saas_backend/internal/mail"
	"saas_backend/internal/payment"
	"saas_backend/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "api-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	logrus.SetLevel(logrus.PanicLevel)
}

type testEnv struct {
	*Env
	Mail   *mail.Recorder
	Intent *payment.FakeIntent
	Router *gin.Engine
	Mini   *miniredis.Miniredis
}

type envOption func(*testEnv)

func withRedis(t *testing.T) envOption {
	return func(e *testEnv) {
		e.Mini = miniredis.RunT(t)
		e.Redis = redis.NewClient(&redis.Options{Addr: e.Mini.Addr()})
		t.Cleanup(func() { _ = e.Redis.Close() })
	}
}

func withConfig(fn func(*config.Config)) envOption {
	return func(e *testEnv) { fn(e.Config) }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.SeedPlans(gdb))

	e := &testEnv{
		Env: &Env{
			DB: gdb,
			Config: &config.Config{
				AppName:         "BulkDeleter",
				JWTSecret:       testSecret,
				BcryptCost:      bcrypt.MinCost,
				PublicBaseURL:   "http://api.local",
				FrontendURL:     "http://web.local",
				CORSOrigins:     "*",
				RateLimitPerMin: 20,
			},
		},
		Mail:   &mail.Recorder{},
		Intent: &payment.FakeIntent{},
	}
	e.Mailer = e.Mail
	e.Payments = e.Intent
	for _, opt := range opts {
		opt(e)
	}
	e.Router = NewRouter(e.Env)
	return e
}

func (e *testEnv) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createUser(t *testing.T, username, email, password string, verified bool) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Username:      username,
		Email:         email,
		Password:      hash,
		IsVerified:    verified,
		Provider:      domain.ProviderEmail,
		BillingPlanID: domain.DefaultBillingPlanID,
	}
	require.NoError(t, e.DB.Create(user).Error)
	return user
}

func (e *testEnv) sessionToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := utils.GenerateJWT(userID, utils.PurposeSession, utils.SessionTTL, testSecret)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func bearer(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
