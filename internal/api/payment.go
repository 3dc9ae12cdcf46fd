package api

import (
	"errors"                        // Error inspection
	"net/http"                      // HTTP status codes
	"saas_backend/internal/payment" // Price table and Stripe client

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// CreateIntentRequest is the body of POST /create-intent
type CreateIntentRequest struct {
	PlanID   uint   `json:"planId" binding:"required"`   // Plan being purchased
	Currency string `json:"currency" binding:"required"` // ISO currency code
	Amount   *int64 `json:"amount" binding:"required"`   // Client side price in minor units
}

// CreateIntentResponse carries the client secret of the new intent
type CreateIntentResponse struct {
	ClientSecret string `json:"clientSecret"` // Secret handed to Stripe.js
}

// CreateIntentHandler checks the client amount against the server price table
// and creates a payment intent for the validated amount
func CreateIntentHandler(payments payment.IntentCreator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateIntentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
			return
		}
		amount, err := payment.ValidateAmount(req.PlanID, *req.Amount)
		if errors.Is(err, payment.ErrUnknownPlan) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid plan"})
			return
		} else if err != nil {
			// Log the tampering attempt
			logrus.WithFields(logrus.Fields{
				"plan_id": req.PlanID,  // Requested plan
				"amount":  *req.Amount, // Client amount
			}).Warn("Payment amount mismatch")
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount"})
			return
		}
		secret, err := payments.CreateIntent(c.Request.Context(), amount, req.Currency)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"plan_id": req.PlanID,  // Requested plan
				"error":   err.Error(), // Error message
			}).Error("Payment intent failed")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, CreateIntentResponse{ClientSecret: secret})
	}
}
