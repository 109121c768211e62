package store

import (
	"sort"
	"sync"
	"time"

	"github.com/pulsewatch/internal/models"
)

// MemoryRules is an in-memory Rules implementation for tests.
type MemoryRules struct {
	mu     sync.Mutex
	nextID uint
	rules  map[uint]*models.AlertRule
}

func NewMemoryRules() *MemoryRules {
	return &MemoryRules{nextID: 1, rules: make(map[uint]*models.AlertRule)}
}

func (s *MemoryRules) Create(rule *models.AlertRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule.ID == 0 {
		rule.ID = s.nextID
		s.nextID++
	} else if rule.ID >= s.nextID {
		s.nextID = rule.ID + 1
	}
	rule.CreatedAt = time.Now()
	clone := *rule
	s.rules[rule.ID] = &clone
	return nil
}

func (s *MemoryRules) Save(rule *models.AlertRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[rule.ID]; !ok {
		return ErrNotFound
	}
	clone := *rule
	s.rules[rule.ID] = &clone
	return nil
}

func (s *MemoryRules) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return ErrNotFound
	}
	delete(s.rules, id)
	return nil
}

func (s *MemoryRules) Get(id uint) (*models.AlertRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rules[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *rule
	return &clone, nil
}

func (s *MemoryRules) List(filter RuleFilter) ([]models.AlertRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AlertRule
	for _, rule := range s.rules {
		if filter.CreatedByID != nil && rule.CreatedByID != *filter.CreatedByID {
			continue
		}
		if filter.Active != nil && rule.IsActive != *filter.Active {
			continue
		}
		out = append(out, *rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryRules) ListEligible(now time.Time) ([]models.AlertRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AlertRule
	for _, rule := range s.rules {
		if !rule.IsActive {
			continue
		}
		if rule.IsMuted && (rule.MutedUntil == nil || !rule.MutedUntil.Before(now)) {
			continue
		}
		out = append(out, *rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryRules) MarkChecked(id uint, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rules[id]
	if !ok {
		return ErrNotFound
	}
	t := now
	rule.LastCheckedAt = &t
	return nil
}

func (s *MemoryRules) MarkTriggered(id uint, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rules[id]
	if !ok {
		return ErrNotFound
	}
	t := now
	rule.TriggerCount++
	rule.LastTriggeredAt = &t
	return nil
}

func (s *MemoryRules) SetMuted(id uint, muted bool, until *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rules[id]
	if !ok {
		return ErrNotFound
	}
	rule.IsMuted = muted
	rule.MutedUntil = until
	return nil
}

// MemoryAlerts is an in-memory Alerts implementation for tests.
type MemoryAlerts struct {
	mu     sync.Mutex
	nextID uint
	alerts map[uint]*models.Alert
}

func NewMemoryAlerts() *MemoryAlerts {
	return &MemoryAlerts{nextID: 1, alerts: make(map[uint]*models.Alert)}
}

func (s *MemoryAlerts) Create(alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if alert.ID == 0 {
		alert.ID = s.nextID
		s.nextID++
	}
	alert.CreatedAt = time.Now()
	clone := *alert
	s.alerts[alert.ID] = &clone
	return nil
}

func (s *MemoryAlerts) Save(alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[alert.ID]; !ok {
		return ErrNotFound
	}
	clone := *alert
	s.alerts[alert.ID] = &clone
	return nil
}

func (s *MemoryAlerts) Get(id uint) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert, ok := s.alerts[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *alert
	return &clone, nil
}

func (s *MemoryAlerts) List(filter AlertFilter) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Alert
	for _, alert := range s.alerts {
		if filter.Status != "" && alert.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && alert.Severity != filter.Severity {
			continue
		}
		if filter.RuleID != 0 && alert.RuleID != filter.RuleID {
			continue
		}
		if filter.From != nil && alert.TriggeredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && alert.TriggeredAt.After(*filter.To) {
			continue
		}
		out = append(out, *alert)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TriggeredAt.After(out[j].TriggeredAt) })
	return out, nil
}

func (s *MemoryAlerts) Stats(now time.Time) (*models.AlertStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.AlertStats{}
	bySeverity := make(map[models.Severity]int64)
	for _, alert := range s.alerts {
		stats.TotalAlerts++
		switch alert.Status {
		case models.AlertStatusTriggered:
			stats.TriggeredAlerts++
		case models.AlertStatusAcknowledged:
			stats.AcknowledgedAlerts++
		case models.AlertStatusResolved:
			stats.ResolvedAlerts++
		}
		bySeverity[alert.Severity]++
		if alert.TriggeredAt.After(now.Add(-24 * time.Hour)) {
			stats.AlertsLast24Hours++
		}
	}
	for severity, count := range bySeverity {
		stats.AlertsBySeverity = append(stats.AlertsBySeverity, models.SeverityCount{Severity: severity, Count: count})
	}
	sort.Slice(stats.AlertsBySeverity, func(i, j int) bool {
		return stats.AlertsBySeverity[i].Severity < stats.AlertsBySeverity[j].Severity
	})
	return stats, nil
}
