package api

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"saas_backend/internal/config"
	"saas_backend/internal/domain"
	"saas_backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verifyLinkRe = regexp.MustCompile(`/verify/([A-Za-z0-9_\-.]+)`)

func register(username, email, password string) map[string]any {
	return map[string]any{"username": username, "email": email, "password": password}
}

func TestRegister_LocalAccount(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodPost, "/register", register("alice", "alice@x.com", "secret"))
	expectStatus(t, w, http.StatusCreated)
	resp := decode[MessageResponse](t, w)
	assert.Equal(t, "User registered. Please check your email to verify your account.", resp.Message)
	assert.NotContains(t, w.Body.String(), "token")

	sent := e.Mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@x.com", sent[0].To)
	assert.Contains(t, sent[0].HTML, "http://api.local/verify/")

	var user domain.User
	require.NoError(t, e.DB.Where("email = ?", "alice@x.com").First(&user).Error)
	assert.False(t, user.IsVerified)
	assert.Equal(t, domain.ProviderEmail, user.Provider)
	assert.Equal(t, domain.DefaultBillingPlanID, user.BillingPlanID)
	assert.NotNil(t, user.VerificationSentAt)
	assert.NotEqual(t, "secret", user.Password)
	assert.True(t, utils.CheckPassword(user.Password, "secret"))
}

func TestRegister_MissingFields(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodPost, "/register", map[string]any{"email": "a@x.com", "password": "p"})
	expectStatus(t, w, http.StatusBadRequest)
	assert.Empty(t, e.Mail.Sent())
}

func TestRegister_DuplicateEmailOrUsername(t *testing.T) {
	e := newTestEnv(t)
	expectStatus(t, e.do(http.MethodPost, "/register", register("alice", "alice@x.com", "secret")), http.StatusCreated)

	w := e.do(http.MethodPost, "/register", register("alice2", "alice@x.com", "secret"))
	expectStatus(t, w, http.StatusInternalServerError)
	assert.True(t, strings.HasPrefix(decode[MessageResponse](t, w).Message, "Error: "))

	w = e.do(http.MethodPost, "/register", register("alice", "other@x.com", "secret"))
	expectStatus(t, w, http.StatusInternalServerError)

	var count int64
	require.NoError(t, e.DB.Model(&domain.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_GoogleAccount(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodPost, "/register", map[string]any{
		"username":    "gina",
		"email":       "gina@x.com",
		"password":    "secret",
		"isGoogle":    true,
		"googleId":    "g-123",
		"accessToken": "ya29.token",
	})
	expectStatus(t, w, http.StatusCreated)
	resp := decode[RegisterResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.User.IsVerified)
	assert.Equal(t, domain.ProviderGoogle, resp.User.Provider)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "ya29.token")
	assert.Empty(t, e.Mail.Sent())

	claims, err := utils.ParseJWT(resp.Token, utils.PurposeSession, testSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	// Google accounts log in straight away
	w = e.do(http.MethodPost, "/login", map[string]any{"email": "gina@x.com", "password": "secret"})
	expectStatus(t, w, http.StatusOK)
}

func TestRegister_MailFailureKeepsUser(t *testing.T) {
	e := newTestEnv(t)
	e.Mail.SetErr(errors.New("smtp down"))

	w := e.do(http.MethodPost, "/register", register("bob", "bob@x.com", "secret"))
	expectStatus(t, w, http.StatusInternalServerError)
	assert.Equal(t, "Error: smtp down", decode[MessageResponse](t, w).Message)

	var user domain.User
	require.NoError(t, e.DB.Where("email = ?", "bob@x.com").First(&user).Error)
	assert.Nil(t, user.VerificationSentAt)
}

func TestRegisterVerifyLogin_Scenario(t *testing.T) {
	e := newTestEnv(t)
	expectStatus(t, e.do(http.MethodPost, "/register", register("alice", "alice@x.com", "secret")), http.StatusCreated)

	login := map[string]any{"email": "alice@x.com", "password": "secret"}
	w := e.do(http.MethodPost, "/login", login)
	expectStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "Email not verified", decode[MessageResponse](t, w).Message)

	sent := e.Mail.Sent()
	require.Len(t, sent, 1)
	m := verifyLinkRe.FindStringSubmatch(sent[0].HTML)
	require.Len(t, m, 2)

	// Redeeming twice leaves the account verified both times
	for i := 0; i < 2; i++ {
		w = e.do(http.MethodGet, "/verify/"+m[1], nil)
		expectStatus(t, w, http.StatusFound)
		assert.Equal(t, "http://web.local/login?verified=true", w.Header().Get("Location"))
	}

	w = e.do(http.MethodPost, "/login", login)
	expectStatus(t, w, http.StatusOK)
	resp := decode[LoginResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@x.com", resp.User.Email)
	assert.True(t, resp.User.IsVerified)
	assert.Equal(t, uint(1), resp.User.BillingPlanID)
	assert.Equal(t, domain.ProviderEmail, resp.User.Provider)
	assert.NotContains(t, w.Body.String(), "password")

	w = e.do(http.MethodGet, "/me", nil, bearer(resp.Token)...)
	expectStatus(t, w, http.StatusOK)
	assert.Equal(t, resp.User.ID, decode[UserResponse](t, w).ID)
}

func TestLogin_Failures(t *testing.T) {
	e := newTestEnv(t)
	e.createUser(t, "carol", "carol@x.com", "right", true)

	w := e.do(http.MethodPost, "/login", map[string]any{"email": "nobody@x.com", "password": "right"})
	expectStatus(t, w, http.StatusNotFound)
	assert.Equal(t, "User not found", decode[MessageResponse](t, w).Message)

	w = e.do(http.MethodPost, "/login", map[string]any{"email": "carol@x.com", "password": "wrong"})
	expectStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "Invalid password", decode[MessageResponse](t, w).Message)

	w = e.do(http.MethodPost, "/login", map[string]any{"email": "carol@x.com"})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestVerifyEmail_TokenErrors(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "dan", "dan@x.com", "secret", false)

	// A session token cannot verify an account
	w := e.do(http.MethodGet, "/verify/"+e.sessionToken(t, user.ID), nil)
	expectStatus(t, w, http.StatusInternalServerError)
	assert.Equal(t, "Internal server error", decode[MessageResponse](t, w).Message)

	w = e.do(http.MethodGet, "/verify/not-a-token", nil)
	expectStatus(t, w, http.StatusInternalServerError)

	token, err := utils.GenerateJWT(9999, utils.PurposeVerify, utils.VerifyTTL, testSecret)
	require.NoError(t, err)
	w = e.do(http.MethodGet, "/verify/"+token, nil)
	expectStatus(t, w, http.StatusNotFound)
}

func TestVerifyEmail_StrictTokenErrors(t *testing.T) {
	e := newTestEnv(t, withConfig(func(c *config.Config) { c.StrictTokenErrors = true }))

	w := e.do(http.MethodGet, "/verify/not-a-token", nil)
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestMe_RequiresSession(t *testing.T) {
	e := newTestEnv(t)
	user := e.createUser(t, "erin", "erin@x.com", "secret", true)

	expectStatus(t, e.do(http.MethodGet, "/me", nil), http.StatusUnauthorized)

	token, err := utils.GenerateJWT(user.ID, utils.PurposeReset, utils.ResetTTL, testSecret)
	require.NoError(t, err)
	expectStatus(t, e.do(http.MethodGet, "/me", nil, bearer(token)...), http.StatusUnauthorized)
}

func TestLogin_RateLimited(t *testing.T) {
	e := newTestEnv(t, withRedis(t), withConfig(func(c *config.Config) { c.RateLimitPerMin = 2 }))
	e.createUser(t, "fred", "fred@x.com", "secret", true)

	login := map[string]any{"email": "fred@x.com", "password": "secret"}
	expectStatus(t, e.do(http.MethodPost, "/login", login), http.StatusOK)
	expectStatus(t, e.do(http.MethodPost, "/login", login), http.StatusOK)
	expectStatus(t, e.do(http.MethodPost, "/login", login), http.StatusTooManyRequests)

	// Other routes keep their own budget
	expectStatus(t, e.do(http.MethodPost, "/forgot-password", map[string]any{"email": "fred@x.com"}), http.StatusOK)
}
