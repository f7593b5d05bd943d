package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/nexo/internal/client/messages"
)

const consentBanner = `NEXO uses essential cookies to keep you signed in. With your permission we
also collect anonymous usage analytics. Type "consent accept", "consent reject"
or "consent save on|off".`

func (a *App) printConsentBanner() {
	fmt.Fprintln(a.out, consentBanner)
}

// Consent shows or changes the cookie-consent decision.
//
//	consent [show]          current decision
//	consent accept          allow analytics
//	consent reject          essential cookies only
//	consent save on|off     explicit analytics choice
//	consent history         recent decisions
func (a *App) Consent(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		return a.showConsent(ctx)

	case "accept":
		if _, err := a.consent.AcceptAll(ctx); err != nil {
			return err
		}

	case "reject":
		if _, err := a.consent.RejectNonEssential(ctx); err != nil {
			return err
		}

	case "save":
		if len(args) < 2 {
			return fmt.Errorf("usage: consent save on|off")
		}
		analytics, err := parseOnOff(args[1])
		if err != nil {
			return err
		}
		if _, err := a.consent.SavePreferences(ctx, analytics); err != nil {
			return err
		}

	case "history":
		return a.consentHistory(ctx)

	default:
		return fmt.Errorf("unknown consent command %q", sub)
	}

	a.notifier.Success(0, a.translator.T(messages.ConsentSaved))
	return nil
}

func (a *App) showConsent(ctx context.Context) error {
	rec, ok, err := a.consent.ReadConsent(ctx)
	if err != nil {
		return err
	}
	if !ok {
		a.printConsentBanner()
		return nil
	}

	fmt.Fprintf(a.out, "Status: %s\n", a.consent.Status())
	fmt.Fprintf(a.out, "Essential: always on\n")
	fmt.Fprintf(a.out, "Analytics: %s\n", onOff(rec.Analytics))
	fmt.Fprintf(a.out, "Decided: %s (version %s)\n", rec.Timestamp.Local().Format(time.DateTime), rec.Version)
	return nil
}

func (a *App) consentHistory(ctx context.Context) error {
	entries, err := a.consent.History(ctx, 10)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No decisions recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tANALYTICS\tVERSION\tSOURCE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), onOff(e.Analytics), e.Version, e.Source)
	}
	return tw.Flush()
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
