package main

import (
	"log"
	"time"

	"github.com/pulsewatch/internal/alert"
	"github.com/pulsewatch/internal/api"
	"github.com/pulsewatch/internal/audit"
	"github.com/pulsewatch/internal/auth"
	"github.com/pulsewatch/internal/config"
	"github.com/pulsewatch/internal/database"
	"github.com/pulsewatch/internal/metrics"
	"github.com/pulsewatch/internal/models"
	"github.com/pulsewatch/internal/notify"
	"github.com/pulsewatch/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.Initialize(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	db := database.GetDB()
	auth.SetSecret(cfg.Auth.JWTSecret)

	rules := store.NewGormRules(db)
	alerts := store.NewGormAlerts(db)
	source := metrics.NewStoreSource(db)

	dispatcher := notify.NewDispatcher(
		notify.NewEmailChannel(
			cfg.Notify.Email.SMTPHost,
			cfg.Notify.Email.SMTPPort,
			cfg.Notify.Email.From,
			cfg.Notify.Email.Password,
		),
		notify.NewWebhookChannel(time.Duration(cfg.Notify.Webhook.TimeoutSeconds)*time.Second),
		notify.NewSlackChannel(cfg.Notify.Slack.Token, cfg.Notify.Slack.Channel),
	)

	lifecycle := alert.NewLifecycle(rules, alerts, dispatcher)
	mutes := alert.NewMuteController(rules)

	// Seed starter rules on an empty database
	var ruleCount int64
	if err := db.Model(&models.AlertRule{}).Count(&ruleCount).Error; err != nil {
		log.Printf("Warning: Failed to count rules: %v", err)
	} else if ruleCount == 0 {
		if err := alert.CreateDefaultRules(rules); err != nil {
			log.Printf("Warning: Failed to create default rules: %v", err)
		}
	}

	evaluator := alert.NewEvaluator(
		rules,
		source,
		lifecycle,
		time.Duration(cfg.Evaluator.IntervalSeconds)*time.Second,
		alert.WithRuleTimeout(time.Duration(cfg.Evaluator.RuleTimeoutSeconds)*time.Second),
		alert.WithBatchTimeout(time.Duration(cfg.Evaluator.BatchTimeoutSeconds)*time.Second),
		alert.WithMaxConcurrent(int64(cfg.Evaluator.MaxConcurrent)),
	)
	evaluator.Start()
	defer evaluator.Stop()

	recorder := audit.NewRecorder(db)

	server := api.NewServer(rules, alerts, lifecycle, mutes, recorder)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
