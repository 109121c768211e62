package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pulsewatch/internal/alert"
	"github.com/pulsewatch/internal/audit"
	"github.com/pulsewatch/internal/auth"
	"github.com/pulsewatch/internal/database"
	"github.com/pulsewatch/internal/models"
	"github.com/pulsewatch/internal/store"

	"github.com/gin-gonic/gin"
)

type Server struct {
	rules     store.Rules
	alerts    store.Alerts
	lifecycle *alert.Lifecycle
	mutes     *alert.MuteController
	recorder  *audit.Recorder
	router    *gin.Engine
}

func NewServer(rules store.Rules, alerts store.Alerts, lifecycle *alert.Lifecycle, mutes *alert.MuteController, recorder *audit.Recorder) *Server {
	server := &Server{
		rules:     rules,
		alerts:    alerts,
		lifecycle: lifecycle,
		mutes:     mutes,
		recorder:  recorder,
		router:    gin.Default(),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// Public routes
	s.router.POST("/api/v1/auth/login", s.login)
	s.router.POST("/api/v1/auth/register", s.register)

	// Protected routes (require authentication)
	api := s.router.Group("/api/v1")
	api.Use(auth.AuthMiddleware())

	// Rule management endpoints
	rules := api.Group("/rules")
	{
		rules.GET("", s.listRules)
		rules.GET("/:id", s.getRule)
		rules.POST("", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.createRule)
		rules.PUT("/:id", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.updateRule)
		rules.DELETE("/:id", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.deleteRule)
		rules.POST("/:id/mute", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.muteRule)
		rules.POST("/:id/unmute", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.unmuteRule)
	}

	// Alert endpoints
	alerts := api.Group("/alerts")
	{
		alerts.GET("", s.listAlerts)
		alerts.GET("/stats", s.alertStats)
		alerts.GET("/:id", s.getAlert)
		alerts.POST("/:id/acknowledge", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.acknowledgeAlert)
		alerts.POST("/:id/resolve", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.resolveAlert)
	}

	// Metric ingest
	api.POST("/metrics/events", auth.RequireRole(models.RoleAdmin, models.RoleUser), s.ingestMetricEvent)
}

func (s *Server) Start(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Router exposes the gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// writeError maps the engine's error taxonomy onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var validationErr *alert.ValidationError
	var stateErr *alert.InvalidStateError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": stateErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Rule handlers

func (s *Server) listRules(c *gin.Context) {
	user := auth.CurrentUser(c)
	filter := store.RuleFilter{}
	if !user.IsAdmin() {
		filter.CreatedByID = &user.ID
	}

	rules, err := s.rules.List(filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

func (s *Server) getRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rule, err := s.rules.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	user := auth.CurrentUser(c)
	if !user.CanEditRule(rule) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your rule"})
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (s *Server) createRule(c *gin.Context) {
	var rule models.AlertRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := alert.ValidateRule(&rule); err != nil {
		writeError(c, err)
		return
	}

	user := auth.CurrentUser(c)
	rule.CreatedByID = user.ID

	if err := s.rules.Create(&rule); err != nil {
		writeError(c, err)
		return
	}

	s.recorder.Record(user.ID, "rule.create", "rule", rule.ID, rule.Name)
	c.JSON(http.StatusCreated, rule)
}

func (s *Server) updateRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := s.rules.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	user := auth.CurrentUser(c)
	if !user.CanEditRule(existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your rule"})
		return
	}

	var rule models.AlertRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule.ID = id
	rule.CreatedByID = existing.CreatedByID
	// Trigger bookkeeping belongs to the evaluator, not the editor.
	rule.TriggerCount = existing.TriggerCount
	rule.LastCheckedAt = existing.LastCheckedAt
	rule.LastTriggeredAt = existing.LastTriggeredAt

	if err := alert.ValidateRule(&rule); err != nil {
		writeError(c, err)
		return
	}

	if err := s.rules.Save(&rule); err != nil {
		writeError(c, err)
		return
	}

	s.recorder.Record(user.ID, "rule.update", "rule", rule.ID, rule.Name)
	c.JSON(http.StatusOK, rule)
}

func (s *Server) deleteRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := s.rules.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	user := auth.CurrentUser(c)
	if !user.CanEditRule(existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your rule"})
		return
	}

	if err := s.rules.Delete(id); err != nil {
		writeError(c, err)
		return
	}

	s.recorder.Record(user.ID, "rule.delete", "rule", id, existing.Name)
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted successfully"})
}

func (s *Server) muteRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := s.rules.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	user := auth.CurrentUser(c)
	if !user.CanEditRule(existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your rule"})
		return
	}

	var req struct {
		DurationMinutes *int `json:"durationMinutes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "durationMinutes must be positive"})
		return
	}

	if err := s.mutes.Mute(id, req.DurationMinutes); err != nil {
		writeError(c, err)
		return
	}

	s.recorder.Record(user.ID, "rule.mute", "rule", id, existing.Name)
	c.JSON(http.StatusOK, gin.H{"message": "rule muted"})
}

func (s *Server) unmuteRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	existing, err := s.rules.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	user := auth.CurrentUser(c)
	if !user.CanEditRule(existing) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your rule"})
		return
	}

	if err := s.mutes.Unmute(id); err != nil {
		writeError(c, err)
		return
	}

	s.recorder.Record(user.ID, "rule.unmute", "rule", id, existing.Name)
	c.JSON(http.StatusOK, gin.H{"message": "rule unmuted"})
}

// Alert handlers

func (s *Server) listAlerts(c *gin.Context) {
	filter := store.AlertFilter{
		Status:   models.AlertStatus(c.Query("status")),
		Severity: models.Severity(c.Query("severity")),
	}
	if ruleID := c.Query("ruleId"); ruleID != "" {
		if id, err := strconv.ParseUint(ruleID, 10, 32); err == nil {
			filter.RuleID = uint(id)
		}
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	alerts, err := s.alerts.List(filter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (s *Server) getAlert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a, err := s.alerts.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

func (s *Server) alertStats(c *gin.Context) {
	stats, err := s.alerts.Stats(time.Now())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (s *Server) acknowledgeAlert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user := auth.CurrentUser(c)
	a, err := s.lifecycle.Acknowledge(id, user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	s.recorder.Record(user.ID, "alert.acknowledge", "alert", id, a.RuleName)
	c.JSON(http.StatusOK, a)
}

func (s *Server) resolveAlert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req struct {
		Resolution string `json:"resolution"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := auth.CurrentUser(c)
	a, err := s.lifecycle.Resolve(id, req.Resolution)
	if err != nil {
		writeError(c, err)
		return
	}

	s.recorder.Record(user.ID, "alert.resolve", "alert", id, a.RuleName)
	c.JSON(http.StatusOK, a)
}

// Metric ingest

func (s *Server) ingestMetricEvent(c *gin.Context) {
	var event models.MetricEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if event.MetricType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metric_type is required"})
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := database.GetDB().Create(&event).Error; err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Auth handlers

func (s *Server) login(c *gin.Context) {
	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.GetDB().Where("username = ?", loginReq.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if !user.CheckPassword(loginReq.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Email    string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	if err := database.GetDB().Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already taken"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}
