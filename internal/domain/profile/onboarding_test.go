package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOnboardingStep(t *testing.T) {
	// New user with no document starts at role selection.
	assert.Equal(t, StepRoleSelection, ResolveOnboardingStep(nil))

	// Document exists but no role chosen yet.
	assert.Equal(t, StepRoleSelection, ResolveOnboardingStep(&Profile{UID: "u1"}))

	// Role set advances to profile setup.
	assert.Equal(t, StepProfileSetup, ResolveOnboardingStep(&Profile{UID: "u1", Role: RolePlayer}))

	// Completed profile skips onboarding entirely, regardless of role.
	assert.Equal(t, StepCompleted, ResolveOnboardingStep(&Profile{UID: "u1", Role: RoleTrainer, ProfileComplete: true}))
	assert.Equal(t, StepCompleted, ResolveOnboardingStep(&Profile{UID: "u1", ProfileComplete: true}))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RolePlayer))
	assert.True(t, ValidRole(RoleTrainer))
	assert.True(t, ValidRole(RoleBoth))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}

func TestHasRole(t *testing.T) {
	assert.True(t, Profile{Role: RoleTrainer}.HasRole(RoleTrainer))
	assert.True(t, Profile{Role: RoleBoth}.HasRole(RoleTrainer))
	assert.True(t, Profile{Role: RoleBoth}.HasRole(RolePlayer))
	assert.False(t, Profile{Role: RolePlayer}.HasRole(RoleTrainer))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.Notifications.BookingUpdates)
	assert.True(t, s.Privacy.ShowProfile)
	assert.Equal(t, "metric", s.Units)
	assert.Equal(t, "light", s.Theme)
}
