package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Consent(ctx context.Context, args []string) error
	Install(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Locale(ctx context.Context, args []string) error
	Onboarding(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the NEXO CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                         show available commands
//	  - whoami                       reload and show the session
//	  - consent [show|accept|reject|save on|off|history]
//	  - install [status|prompt|dismiss]
//	  - update  [status|apply|dismiss]
//	  - locale  [en|es]
//	  - exit | quit                  leave the program
//
//	Not logged in:
//	  - register, login
//
//	Logged in:
//	  - onboarding [status|profile]
//	  - logout
//
// Handler errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("nexo %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, onboarding, consent, install, update, locale, logout, exit")
			} else {
				printlnFn("Available commands: register, login, whoami, consent, install, update, locale, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "consent":
			cmdErr = a.Consent(ctx, args)

		case "install":
			cmdErr = a.Install(ctx, args)

		case "update":
			cmdErr = a.Update(ctx, args)

		case "locale":
			cmdErr = a.Locale(ctx, args)

		case "onboarding":
			cmdErr = a.Onboarding(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
