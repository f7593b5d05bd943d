package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nexo/internal/bus"
	"github.com/dmitrijs2005/nexo/internal/client/messages"
	"github.com/dmitrijs2005/nexo/internal/client/pwa"
)

// Install shows or acts on the install prompt.
//
//	install [status]    prompt state
//	install prompt      ask now (uses the captured install handle)
//	install dismiss     hide the prompt for the cooldown period
func (a *App) Install(ctx context.Context, args []string) error {
	sub := "status"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "status":
		a.printInstallStatus()
		return nil

	case "prompt":
		accepted, err := a.install.PromptInstall(ctx)
		if err != nil {
			return err
		}
		if !accepted {
			if !a.install.State().HasDeferredPrompt && a.install.State().Platform != pwa.HintIOS {
				fmt.Fprintln(a.out, "Install is not available right now.")
			}
			return nil
		}
		a.events.Publish(bus.NewEvent(bus.KindInstalled, nil))
		a.notifier.Success(0, a.translator.T(messages.InstallAccepted))
		a.track(ctx, "app_installed")
		return nil

	case "dismiss":
		if err := a.install.DismissInstall(ctx); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "OK, we won't ask again for %s.\n", a.config.InstallCooldown)
		return nil

	default:
		return fmt.Errorf("unknown install command %q", sub)
	}
}

func (a *App) printInstallStatus() {
	st := a.install.State()
	fmt.Fprintf(a.out, "Platform: %s\n", st.Platform)
	fmt.Fprintf(a.out, "Installed: %t\n", st.IsStandalone)
	fmt.Fprintf(a.out, "Online: %t\n", st.IsOnline)
	fmt.Fprintf(a.out, "Install offered: %t\n", st.HasDeferredPrompt)
	fmt.Fprintf(a.out, "Prompt visible: %t\n", st.ShowPrompt || st.TriggerPrompt)
	fmt.Fprintf(a.out, "Recently dismissed: %t\n", st.IsDismissedRecently)
	fmt.Fprintf(a.out, "Update waiting: %t\n", st.UpdateAvailable)

	if st.ShowPrompt && st.Platform == pwa.HintIOS {
		fmt.Fprintln(a.out, "To install on iOS: tap Share, then \"Add to Home Screen\".")
	}
}

// Update shows or acts on a waiting update.
//
//	update [status]   whether an update is waiting
//	update apply      activate it
//	update dismiss    hide the notice
func (a *App) Update(ctx context.Context, args []string) error {
	sub := "status"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "status":
		if a.install.State().UpdateAvailable {
			fmt.Fprintln(a.out, a.translator.T(messages.UpdateReady))
		} else {
			fmt.Fprintln(a.out, "You are on the latest version.")
		}
		return nil

	case "apply":
		err := a.install.ActivateUpdate(ctx)
		if errors.Is(err, pwa.ErrUpdateUnavailable) {
			fmt.Fprintln(a.out, "No update waiting.")
			return nil
		}
		return err

	case "dismiss":
		a.install.DismissUpdate()
		return nil

	default:
		return fmt.Errorf("unknown update command %q", sub)
	}
}
