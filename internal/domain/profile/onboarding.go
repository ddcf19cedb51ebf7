package profile

// Onboarding steps, in order. The backend resolves the step from the
// profile document; clients render whichever screen it names.
const (
	StepWelcome       = "welcome"
	StepRoleSelection = "role_selection"
	StepProfileSetup  = "profile_setup"
	StepCompleted     = "completed"
)

// ResolveOnboardingStep decides where a user is in the onboarding flow.
// A missing profile starts at role selection; a set role advances to
// profile setup; a completed profile skips onboarding entirely.
func ResolveOnboardingStep(p *Profile) string {
	if p == nil {
		return StepRoleSelection
	}
	if p.ProfileComplete {
		return StepCompleted
	}
	if p.Role != "" {
		return StepProfileSetup
	}
	return StepRoleSelection
}
