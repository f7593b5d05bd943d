package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nexo/internal/client/messages"
	"github.com/dmitrijs2005/nexo/internal/client/models"
)

// Locale prints or changes the preferred language.
func (a *App) Locale(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Language: %s\n", a.translator.Lang())
		return nil
	}

	code, err := a.locale.Set(ctx, args[0])
	if err != nil {
		return err
	}
	a.setTranslator(messages.NewTranslator(code))
	fmt.Fprintf(a.out, "Language: %s\n", code)
	return nil
}

// Onboarding shows progress or fills in the companion profile.
//
//	onboarding [status]
//	onboarding profile
func (a *App) Onboarding(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return fmt.Errorf("please log in first")
	}

	sub := "status"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "status":
		st, err := a.onboarding.Status(ctx)
		if err != nil {
			return err
		}
		if st.Completed {
			fmt.Fprintln(a.out, "Onboarding complete.")
			return nil
		}
		fmt.Fprintf(a.out, "Current step: %s\n", st.CurrentStep)
		if len(st.Missing) > 0 {
			fmt.Fprintf(a.out, "Missing: %s\n", strings.Join(st.Missing, ", "))
		}
		return nil

	case "profile":
		p, err := a.readProfile()
		if err != nil {
			return err
		}
		if err := a.onboarding.SaveProfile(ctx, p); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Profile saved.")
		return nil

	default:
		return fmt.Errorf("unknown onboarding command %q", sub)
	}
}

func (a *App) readProfile() (models.OnboardingProfile, error) {
	var p models.OnboardingProfile

	name, err := getSimpleText(a.reader, "Display name", a.out)
	if err != nil {
		return p, err
	}
	interests, err := getSimpleText(a.reader, "Interests (comma separated)", a.out)
	if err != nil {
		return p, err
	}
	style, err := getSimpleText(a.reader, "Companion style (e.g. playful, calm)", a.out)
	if err != nil {
		return p, err
	}

	p.DisplayName = name
	p.PreferredLanguage = a.translator.Lang()
	p.CompanionStyle = style
	for _, s := range strings.Split(interests, ",") {
		if s = strings.TrimSpace(s); s != "" {
			p.Interests = append(p.Interests, s)
		}
	}
	return p, nil
}
