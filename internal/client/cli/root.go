package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the REPL prompt suffix, e.g. "(ana@nexo.chat online, update)".
func (a *App) getStatus() string {
	var parts []string

	if st := a.session.State(); st.User != nil {
		parts = append(parts, st.User.Email)
	}
	if m := a.mode(); m != "" {
		parts = append(parts, string(m))
	}
	if a.install != nil {
		ist := a.install.State()
		if ist.ShowPrompt || ist.TriggerPrompt {
			parts = append(parts, "install")
		}
		if ist.UpdateAvailable {
			parts = append(parts, "update")
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Root runs the interactive shell until the user exits.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to NEXO (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
