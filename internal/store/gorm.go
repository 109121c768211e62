package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/pulsewatch/internal/models"
	"gorm.io/gorm"
)

type GormRules struct {
	db *gorm.DB
}

func NewGormRules(db *gorm.DB) *GormRules {
	return &GormRules{db: db}
}

func (s *GormRules) Create(rule *models.AlertRule) error {
	return s.db.Create(rule).Error
}

func (s *GormRules) Save(rule *models.AlertRule) error {
	return s.db.Save(rule).Error
}

func (s *GormRules) Delete(id uint) error {
	res := s.db.Delete(&models.AlertRule{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	// Cascade: alerts belong to their rule's history, but a deleted rule
	// takes its alerts with it.
	return s.db.Where("rule_id = ?", id).Delete(&models.Alert{}).Error
}

func (s *GormRules) Get(id uint) (*models.AlertRule, error) {
	var rule models.AlertRule
	if err := s.db.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (s *GormRules) List(filter RuleFilter) ([]models.AlertRule, error) {
	var rules []models.AlertRule
	query := s.db
	if filter.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filter.CreatedByID)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if err := query.Order("id").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *GormRules) ListEligible(now time.Time) ([]models.AlertRule, error) {
	var rules []models.AlertRule
	err := s.db.
		Where("is_active = ?", true).
		Where("is_muted = ? OR (muted_until IS NOT NULL AND muted_until < ?)", false, now).
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch eligible rules: %v", err)
	}
	return rules, nil
}

func (s *GormRules) MarkChecked(id uint, now time.Time) error {
	return s.db.Model(&models.AlertRule{}).Where("id = ?", id).
		UpdateColumn("last_checked_at", now).Error
}

func (s *GormRules) MarkTriggered(id uint, now time.Time) error {
	return s.db.Model(&models.AlertRule{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"trigger_count":     gorm.Expr("trigger_count + 1"),
			"last_triggered_at": now,
		}).Error
}

func (s *GormRules) SetMuted(id uint, muted bool, until *time.Time) error {
	res := s.db.Model(&models.AlertRule{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_muted":    muted,
			"muted_until": until,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormAlerts struct {
	db *gorm.DB
}

func NewGormAlerts(db *gorm.DB) *GormAlerts {
	return &GormAlerts{db: db}
}

func (s *GormAlerts) Create(alert *models.Alert) error {
	return s.db.Create(alert).Error
}

func (s *GormAlerts) Save(alert *models.Alert) error {
	return s.db.Save(alert).Error
}

func (s *GormAlerts) Get(id uint) (*models.Alert, error) {
	var alert models.Alert
	if err := s.db.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

func (s *GormAlerts) List(filter AlertFilter) ([]models.Alert, error) {
	var alerts []models.Alert
	query := s.db
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.RuleID != 0 {
		query = query.Where("rule_id = ?", filter.RuleID)
	}
	if filter.From != nil {
		query = query.Where("triggered_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("triggered_at <= ?", *filter.To)
	}
	if err := query.Order("triggered_at desc").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (s *GormAlerts) Stats(now time.Time) (*models.AlertStats, error) {
	stats := &models.AlertStats{}

	model := func() *gorm.DB { return s.db.Model(&models.Alert{}) }

	if err := model().Count(&stats.TotalAlerts).Error; err != nil {
		return nil, err
	}
	if err := model().Where("status = ?", models.AlertStatusTriggered).Count(&stats.TriggeredAlerts).Error; err != nil {
		return nil, err
	}
	if err := model().Where("status = ?", models.AlertStatusAcknowledged).Count(&stats.AcknowledgedAlerts).Error; err != nil {
		return nil, err
	}
	if err := model().Where("status = ?", models.AlertStatusResolved).Count(&stats.ResolvedAlerts).Error; err != nil {
		return nil, err
	}
	if err := model().Select("severity, count(*) as count").
		Group("severity").Scan(&stats.AlertsBySeverity).Error; err != nil {
		return nil, err
	}
	if err := model().Where("triggered_at >= ?", now.Add(-24*time.Hour)).
		Count(&stats.AlertsLast24Hours).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
