package api

import (
	"errors"                       // Error inspection
	"net/http"                     // HTTP status codes
	"saas_backend/internal/domain" // Importing domain models
	"strconv"                      // String conversion
	"time"                         // Timestamps in projections

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// UserResponse is the public user projection. Password and access token never leave the server.
type UserResponse struct {
	ID            uint      `json:"id"`                 // User ID
	Username      string    `json:"username"`           // Username
	Name          *string   `json:"name"`               // Display name
	Email         string    `json:"email"`              // Email
	IsVerified    bool      `json:"isVerified"`         // Verification flag
	Provider      string    `json:"provider"`           // Credential provider
	GoogleID      *string   `json:"googleId,omitempty"` // Only on single-user lookups
	BillingPlanID uint      `json:"billingPlanId"`      // Linked plan
	CreatedAt     time.Time `json:"createdAt"`          // Creation timestamp
	UpdatedAt     time.Time `json:"updatedAt"`          // Update timestamp
}

// newUserResponse projects a user, optionally exposing the Google id
func newUserResponse(u *domain.User, withGoogleID bool) UserResponse {
	resp := UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Name:          u.Name,
		Email:         u.Email,
		IsVerified:    u.IsVerified,
		Provider:      u.Provider,
		BillingPlanID: u.BillingPlanID,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if withGoogleID {
		resp.GoogleID = u.GoogleID
	}
	return resp
}

// ListUsersHandler lists every user without credentials or Google linkage
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []domain.User // Fetch users from database
		if err := db.WithContext(c.Request.Context()).Order("id").Find(&users).Error; err != nil {
			logrus.WithError(err).Error("Failed to list users")
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
			return
		}
		resp := make([]UserResponse, 0, len(users)) // Never null in JSON
		for i := range users {
			resp = append(resp, newUserResponse(&users[i], false))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetUserHandler returns one user by numeric id
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64) // Parse user id from path
		if err != nil {
			// Non numeric ids can never match a row
			c.JSON(http.StatusNotFound, MessageResponse{Message: "User not found"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
			respondLookupError(c, err)
			return
		}
		c.JSON(http.StatusOK, newUserResponse(&user, true))
	}
}

// GetUserByEmailHandler returns one user by email. A missing user answers 200
// with a message body, unlike the lookup by id.
func GetUserByEmailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user domain.User // Fetch user from database
		err := db.WithContext(c.Request.Context()).Where("email = ?", c.Param("user")).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, MessageResponse{Message: "User not found"})
			return
		} else if err != nil {
			logrus.WithError(err).Error("User lookup by email failed")
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, newUserResponse(&user, true))
	}
}
