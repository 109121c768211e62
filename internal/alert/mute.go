package alert

import (
	"time"

	"github.com/pulsewatch/internal/models"
	"github.com/pulsewatch/internal/store"
)

// MuteController suppresses rule evaluation for a duration or until an
// explicit unmute.
type MuteController struct {
	rules store.Rules
	now   func() time.Time
}

func NewMuteController(rules store.Rules) *MuteController {
	return &MuteController{rules: rules, now: time.Now}
}

// Mute marks the rule muted. With a duration the mute expires on its own;
// without one it holds until Unmute. Muting an already-muted rule
// overwrites the expiry.
func (m *MuteController) Mute(ruleID uint, durationMinutes *int) error {
	var until *time.Time
	if durationMinutes != nil {
		t := m.now().Add(time.Duration(*durationMinutes) * time.Minute)
		until = &t
	}
	return m.rules.SetMuted(ruleID, true, until)
}

// Unmute clears the mute state.
func (m *MuteController) Unmute(ruleID uint) error {
	return m.rules.SetMuted(ruleID, false, nil)
}

// Eligible reports whether a rule should be evaluated at the given time.
// A muted rule with an expired MutedUntil is eligible; expiry is implicit,
// no unmute write happens.
func Eligible(rule *models.AlertRule, now time.Time) bool {
	if !rule.IsActive {
		return false
	}
	if !rule.IsMuted {
		return true
	}
	return rule.MutedUntil != nil && rule.MutedUntil.Before(now)
}
