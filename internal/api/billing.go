package api

import (
	"errors"                       // Error inspection
	"net/http"                     // HTTP status codes
	"saas_backend/internal/domain" // Importing domain models
	"saas_backend/internal/utils"  // Utility functions
	"strconv"                      // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

// LinkGoogleRequest carries the Google credentials to store on a user
type LinkGoogleRequest struct {
	GoogleID    string `json:"googleId"`    // Google subject id
	AccessToken string `json:"accessToken"` // Google access token
}

// findUserByParam loads the user addressed by the :user path parameter
func findUserByParam(c *gin.Context, db *gorm.DB) (*domain.User, bool) {
	id, err := strconv.ParseUint(c.Param("user"), 10, 64) // Parse user id from path
	if err != nil {
		c.JSON(http.StatusNotFound, MessageResponse{Message: "User not found"})
		return nil, false
	}
	var user domain.User // Fetch user from database
	if err := db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		respondLookupError(c, err)
		return nil, false
	}
	return &user, true
}

// GetUserBillingHandler returns the billing plan linked to a user
func GetUserBillingHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := findUserByParam(c, db)
		if !ok {
			return
		}
		ctx := c.Request.Context()                                                  // Request scoped context
		cacheKey := utils.BillingPlanPrefix + strconv.Itoa(int(user.BillingPlanID)) // Cache key for the plan
		var plan domain.BillingPlan                                                 // Plan document
		// Try cache first
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &plan); err == nil && found {
			c.JSON(http.StatusOK, plan)
			return
		}
		if err := db.WithContext(ctx).First(&plan, user.BillingPlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, MessageResponse{Message: "Billing plan not found"})
				return
			}
			logrus.WithError(err).Error("Billing plan lookup failed")
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Internal server error"})
			return
		}
		// Cache failures only cost a database round trip
		if err := utils.SetCache(ctx, rdb, cacheKey, plan, utils.BillingPlanTTL); err != nil {
			logrus.WithError(err).Warn("Failed to cache billing plan")
		}
		c.JSON(http.StatusOK, plan)
	}
}

// LinkGoogleHandler overwrites the Google id and access token of a user
func LinkGoogleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LinkGoogleRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Invalid request"})
			return
		}
		user, ok := findUserByParam(c, db)
		if !ok {
			return
		}
		// Map updates so empty strings clear the columns instead of being skipped
		updates := map[string]any{
			"google_id":    nilIfEmpty(req.GoogleID),
			"access_token": nilIfEmpty(req.AccessToken),
		}
		if err := db.WithContext(c.Request.Context()).Model(user).Updates(updates).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Target user
				"error":   err.Error(), // Error message
			}).Error("Google link failed")
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error: " + err.Error()})
			return
		}
		logrus.WithField("user_id", user.ID).Info("Google account linked")
		c.JSON(http.StatusOK, MessageResponse{Message: "Google ID added successfully"})
	}
}
