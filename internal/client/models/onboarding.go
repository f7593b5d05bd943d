package models

// OnboardingStatus is returned by GET /onboarding/status.
type OnboardingStatus struct {
	Completed   bool     `json:"completed"`
	CurrentStep string   `json:"current_step,omitempty"`
	Missing     []string `json:"missing,omitempty"`
}

// OnboardingProfile is sent to POST/PUT /onboarding/profile.
type OnboardingProfile struct {
	DisplayName       string   `json:"display_name,omitempty"`
	PreferredLanguage string   `json:"preferred_language,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	CompanionStyle    string   `json:"companion_style,omitempty"`
}
