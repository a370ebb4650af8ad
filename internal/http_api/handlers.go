package http_api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aurum-app/aurum/internal/models"
)

// UnsubscribeRequest represents the JSON body for removing a subscription
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// NotifyRequest represents the JSON body for a manual notification dispatch
type NotifyRequest struct {
	Message string `json:"message" binding:"required"`
	Secret  string `json:"secret"`
}

// subscribe is a handler for the /subscribe endpoint.
func (s *HTTPServer) subscribe(c *gin.Context) {
	var req models.PushSubscription

	// Parse and validate JSON request body
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := s.aurum.Subscribe(req); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidEndpoint):
			s.logger.Debug("Rejected subscription endpoint", "endpoint", req.Endpoint, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid subscription endpoint",
			})
		case errors.Is(err, models.ErrStoreFull):
			s.logger.Warn("Subscription store at capacity", "endpoint", req.Endpoint)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Subscription limit reached",
			})
		default:
			s.logger.Error("Failed to store subscription", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to store subscription",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// unsubscribe is a handler for the /unsubscribe endpoint.
// Removing an endpoint that was never registered is not an error.
func (s *HTTPServer) unsubscribe(c *gin.Context) {
	var req UnsubscribeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := s.aurum.Unsubscribe(req.Endpoint); err != nil {
		s.logger.Error("Failed to remove subscription", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to remove subscription",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// notify is a handler for the /notify endpoint. Calls without a secret
// are only permitted in development mode; otherwise the secret must
// match the configured value exactly. The caller learns nothing beyond
// "Unauthorized" on failure.
func (s *HTTPServer) notify(c *gin.Context) {
	var req NotifyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	authorized := false
	if req.Secret == "" {
		authorized = s.config.Development
	} else {
		authorized = s.config.NotifySecret != "" && req.Secret == s.config.NotifySecret
	}
	if !authorized {
		s.logger.Warn("Unauthorized notify attempt", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Unauthorized",
		})
		return
	}

	result := s.aurum.Dispatch(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, result)
}

// cronCheck is a handler for the /cron/check endpoint. It requires an
// exact bearer-token match and triggers one fetch-and-evaluate cycle.
func (s *HTTPServer) cronCheck(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || s.config.CronSecret == "" || token != s.config.CronSecret {
		s.logger.Warn("Unauthorized cron trigger", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Unauthorized",
		})
		return
	}

	snapshot, err := s.aurum.CheckPrices(c.Request.Context())
	if err != nil {
		s.logger.Error("Cron price check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch prices",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"price":   snapshot.GoldPrice,
	})
}

// prices is a handler for the /prices endpoint. It returns the latest
// snapshot; evaluating the price change (and any resulting dispatch)
// happens as a side effect of the refresh. A failed refresh serves the
// cached snapshot marked stale rather than an empty response.
func (s *HTTPServer) prices(c *gin.Context) {
	snapshot, stale, err := s.aurum.Snapshot(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to get price snapshot", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Price provider unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stale":   stale,
		"data":    snapshot,
	})
}

// health is a liveness probe.
func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
