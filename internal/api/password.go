package api

import (
	"net/http"                      // HTTP status codes
	"saas_backend/internal/account" // Verification and reset mails
	"saas_backend/internal/config"  // Custom package for configuration
	"saas_backend/internal/domain"  // Importing domain models
	"saas_backend/internal/mail"    // Mail delivery
	"saas_backend/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for forgot password
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"` // Email must be provided
}

// Request struct for reset password
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"` // New password must be provided
}

// ForgotPasswordHandler mails a one hour reset link to a known address
func ForgotPasswordHandler(db *gorm.DB, mailer mail.Sender, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Email is required"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).Where("email = ?", req.Email).First(&user).Error; err != nil {
			respondLookupError(c, err)
			return
		}
		if err := account.SendPasswordReset(c.Request.Context(), mailer, cfg, &user); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Target user
				"error":   err.Error(), // Error message
			}).Error("Reset mail failed")
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, MessageResponse{Message: "Please check your email to reset your password."})
	}
}

// ResetPasswordHandler redeems a reset token and stores the new password hash
func ResetPasswordHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Password is required"})
			return
		}
		claims, err := utils.ParseJWT(c.Param("token"), utils.PurposeReset, cfg.JWTSecret)
		if err != nil {
			respondTokenError(c, cfg.StrictTokenErrors, err)
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			respondLookupError(c, err)
			return
		}
		hash, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
			return
		}
		// Overwrite unconditionally, a reset is idempotent
		if err := db.WithContext(c.Request.Context()).Model(&user).Update("password", hash).Error; err != nil {
			logrus.WithError(err).Error("Password update failed")
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
			return
		}
		logrus.WithField("user_id", user.ID).Info("Password reset")
		c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successfully. You can now login."})
	}
}
