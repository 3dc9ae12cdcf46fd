package api

import (
	"errors"                           // Error inspection
	"net/http"                         // HTTP status codes
	"saas_backend/internal/account"    // Verification and reset mails
	"saas_backend/internal/config"     // Custom package for configuration
	"saas_backend/internal/domain"     // Importing domain models
	"saas_backend/internal/mail"       // Mail delivery
	"saas_backend/internal/middleware" // Authenticated user lookup
	"saas_backend/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Request and Response structs
type RegisterRequest struct {
	Username    string  `json:"username" binding:"required"` // Username must be provided
	Email       string  `json:"email" binding:"required"`    // Email must be provided
	Password    string  `json:"password" binding:"required"` // Password must be provided
	Name        *string `json:"name"`                        // Optional display name
	IsGoogle    bool    `json:"isGoogle"`                    // Account comes from Google sign-in
	GoogleID    string  `json:"googleId"`                    // Google subject id
	AccessToken string  `json:"accessToken"`                 // Google access token
}

// RegisterResponse is returned for Google sign-ups
type RegisterResponse struct {
	User  UserResponse `json:"user"`  // Created user
	Token string       `json:"token"` // Session token
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginResponse carries the session token and a reduced user projection
type LoginResponse struct {
	Token string    `json:"token"` // Session token
	User  LoginUser `json:"user"`  // Reduced user projection
}

// LoginUser is the user projection returned on login
type LoginUser struct {
	ID            uint   `json:"id"`            // User ID
	Username      string `json:"username"`      // Username
	IsVerified    bool   `json:"isVerified"`    // Verification flag
	Email         string `json:"email"`         // Email
	BillingPlanID uint   `json:"billingPlanId"` // Linked plan
	Provider      string `json:"provider"`      // Credential provider
}

// MessageResponse is the generic {message} body
type MessageResponse struct {
	Message string `json:"message"` // Human readable message
}

// nilIfEmpty maps "" to nil for nullable unique columns
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// respondTokenError answers a token that could not be decoded. Unless strict
// mode is on this stays a 500 like every other unexpected failure.
func respondTokenError(c *gin.Context, strict bool, err error) {
	logrus.WithFields(logrus.Fields{
		"route": c.FullPath(), // Flow that received the token
		"error": err.Error(),  // Decode failure
	}).Warn("Token rejected")
	if strict {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "Invalid or expired token"})
		return
	}
	c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
}

// RegisterHandler creates an account. Google sign-ups are verified at once and
// receive a session token; local sign-ups receive a verification mail.
func RegisterHandler(db *gorm.DB, mailer mail.Sender, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Username, email and password are required"})
			return
		}
		ctx := c.Request.Context() // Request scoped context
		// Hash the password before anything touches the database
		hash, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error: " + err.Error()})
			return
		}
		provider := domain.ProviderEmail // Local credentials by default
		if req.IsGoogle {
			provider = domain.ProviderGoogle
		}
		user := domain.User{
			Username:      req.Username,
			Name:          req.Name,
			Email:         req.Email,
			Password:      hash,
			IsVerified:    req.IsGoogle, // Google accounts skip email verification
			Provider:      provider,
			GoogleID:      nilIfEmpty(req.GoogleID),
			AccessToken:   nilIfEmpty(req.AccessToken),
			BillingPlanID: domain.DefaultBillingPlanID,
		}
		// Unique violations are reported like any other persistence failure
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"email": req.Email,   // Attempted email
				"error": err.Error(), // Error message
			}).Error("Registration failed")
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error: " + err.Error()})
			return
		}

		if req.IsGoogle {
			token, err := utils.GenerateJWT(user.ID, utils.PurposeSession, utils.SessionTTL, cfg.JWTSecret)
			if err != nil {
				c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error: " + err.Error()})
				return
			}
			logrus.WithField("user_id", user.ID).Info("Google user registered")
			c.JSON(http.StatusCreated, RegisterResponse{User: newUserResponse(&user, true), Token: token})
			return
		}

		// The row stays even when the mail fails; the retry job picks it up
		if err := account.SendVerification(ctx, db, mailer, cfg, &user); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Created user
				"error":   err.Error(), // Error message
			}).Error("Verification mail failed")
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error: " + err.Error()})
			return
		}
		logrus.WithField("user_id", user.ID).Info("User registered")
		c.JSON(http.StatusCreated, MessageResponse{Message: "User registered. Please check your email to verify your account."})
	}
}

// VerifyEmailHandler redeems a verification token and redirects to the web client
func VerifyEmailHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := utils.ParseJWT(c.Param("token"), utils.PurposeVerify, cfg.JWTSecret)
		if err != nil {
			respondTokenError(c, cfg.StrictTokenErrors, err)
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			respondLookupError(c, err)
			return
		}
		// Redeeming twice is harmless
		if err := db.WithContext(c.Request.Context()).Model(&user).Update("is_verified", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
			return
		}
		logrus.WithField("user_id", user.ID).Info("Email verified")
		c.Redirect(http.StatusFound, account.VerifiedRedirect(cfg))
	}
}

// LoginHandler authenticates a verified user and returns a session token
func LoginHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Email and password are required"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).Where("email = ?", req.Email).First(&user).Error; err != nil {
			respondLookupError(c, err)
			return
		}
		// Unverified accounts cannot log in even with the right password
		if !user.IsVerified {
			c.JSON(http.StatusForbidden, MessageResponse{Message: "Email not verified"})
			return
		}
		// Compare provided password with stored hash
		if !utils.CheckPassword(user.Password, req.Password) {
			c.JSON(http.StatusForbidden, MessageResponse{Message: "Invalid password"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, utils.PurposeSession, utils.SessionTTL, cfg.JWTSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
			return
		}
		// Return the token in the response
		c.JSON(http.StatusOK, LoginResponse{
			Token: token,
			User: LoginUser{
				ID:            user.ID,
				Username:      user.Username,
				IsVerified:    user.IsVerified,
				Email:         user.Email,
				BillingPlanID: user.BillingPlanID,
				Provider:      user.Provider,
			},
		})
	}
}

// MeHandler returns the authenticated user
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c) // Set by JWTAuthMiddleware
		var user domain.User                     // Fetch user from database
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			respondLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(&user, true))
	}
}

// respondLookupError maps a failed single-user lookup to 404 or 500
func respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, MessageResponse{Message: "User not found"})
		return
	}
	logrus.WithError(err).Error("User lookup failed")
	c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
}
