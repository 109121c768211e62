package alert

import (
	"testing"
	"time"

	"github.com/pulsewatch/internal/models"
	"github.com/pulsewatch/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMuteWithDuration(t *testing.T) {
	rules := store.NewMemoryRules()
	controller := NewMuteController(rules)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	controller.now = func() time.Time { return fixed }

	rule := seedRule(t, rules)

	duration := 30
	require.NoError(t, controller.Mute(rule.ID, &duration))

	muted, err := rules.Get(rule.ID)
	require.NoError(t, err)
	assert.True(t, muted.IsMuted)
	require.NotNil(t, muted.MutedUntil)
	assert.Equal(t, fixed.Add(30*time.Minute), *muted.MutedUntil)
}

func TestMuteIndefinitely(t *testing.T) {
	rules := store.NewMemoryRules()
	controller := NewMuteController(rules)
	rule := seedRule(t, rules)

	require.NoError(t, controller.Mute(rule.ID, nil))

	muted, err := rules.Get(rule.ID)
	require.NoError(t, err)
	assert.True(t, muted.IsMuted)
	assert.Nil(t, muted.MutedUntil)
}

func TestMuteOverwritesExistingExpiry(t *testing.T) {
	rules := store.NewMemoryRules()
	controller := NewMuteController(rules)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	controller.now = func() time.Time { return fixed }

	rule := seedRule(t, rules)

	first := 10
	require.NoError(t, controller.Mute(rule.ID, &first))
	second := 120
	require.NoError(t, controller.Mute(rule.ID, &second))

	muted, err := rules.Get(rule.ID)
	require.NoError(t, err)
	require.NotNil(t, muted.MutedUntil)
	assert.Equal(t, fixed.Add(120*time.Minute), *muted.MutedUntil)
}

func TestUnmuteClearsBothFields(t *testing.T) {
	rules := store.NewMemoryRules()
	controller := NewMuteController(rules)
	rule := seedRule(t, rules)

	duration := 30
	require.NoError(t, controller.Mute(rule.ID, &duration))
	require.NoError(t, controller.Unmute(rule.ID))

	unmuted, err := rules.Get(rule.ID)
	require.NoError(t, err)
	assert.False(t, unmuted.IsMuted)
	assert.Nil(t, unmuted.MutedUntil)
}

func TestMuteUnknownRule(t *testing.T) {
	controller := NewMuteController(store.NewMemoryRules())
	assert.ErrorIs(t, controller.Mute(999, nil), store.ErrNotFound)
	assert.ErrorIs(t, controller.Unmute(999), store.ErrNotFound)
}

func TestEligible(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		rule models.AlertRule
		want bool
	}{
		{"active unmuted", models.AlertRule{IsActive: true}, true},
		{"inactive", models.AlertRule{IsActive: false}, false},
		{"muted indefinitely", models.AlertRule{IsActive: true, IsMuted: true}, false},
		{"muted until future", models.AlertRule{IsActive: true, IsMuted: true, MutedUntil: &future}, false},
		// expired mute: still flagged muted, but eligible again
		{"muted until past", models.AlertRule{IsActive: true, IsMuted: true, MutedUntil: &past}, true},
		{"inactive with expired mute", models.AlertRule{IsActive: false, IsMuted: true, MutedUntil: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(&tt.rule, now))
		})
	}
}
