package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nexo/internal/client/models"
	"github.com/dmitrijs2005/nexo/internal/client/tokens"
	"github.com/dmitrijs2005/nexo/internal/common"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

var (
	errTOSRequired = errors.New("the terms of service must be accepted")
	errBadDate     = errors.New("date of birth must look like 2000-01-31")
)

// Register prompts for the account details and creates the account. On
// success the session store signs the user in with the same credentials.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	displayName, err := getSimpleText(a.reader, "Display name (optional)", a.out)
	if err != nil {
		return err
	}

	dob, err := getSimpleText(a.reader, "Date of birth (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	if _, err := time.Parse(time.DateOnly, dob); err != nil {
		return errBadDate
	}

	tos, err := confirm(a.reader, "Do you accept the terms of service?", a.out)
	if err != nil {
		return err
	}
	if !tos {
		return errTOSRequired
	}

	err = a.session.Register(ctx, models.RegisterRequest{
		Email:             email,
		Password:          string(password),
		DisplayName:       displayName,
		PreferredLanguage: a.translator.Lang(),
		DateOfBirth:       dob,
		TOSAccepted:       true,
	})
	if err != nil {
		return err
	}

	a.track(ctx, "signed_up")
	return nil
}

// Login prompts the user for credentials and authenticates. The failure
// message is already shown by the session store, so callers only need the
// error to decide whether to retry.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, models.Credentials{Email: email, Password: string(password)}); err != nil {
		return err
	}

	a.track(ctx, "logged_in")
	return nil
}

// Logout ends the session on the server (best effort) and locally.
func (a *App) Logout(ctx context.Context) error {
	a.track(ctx, "logged_out")
	a.session.Logout(ctx)
	return nil
}

// WhoAmI reloads the session from the server and prints it.
func (a *App) WhoAmI(ctx context.Context) error {
	a.session.LoadUser(ctx)

	st := a.session.State()
	if !st.IsAuthenticated {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	u := st.User
	fmt.Fprintf(a.out, "Signed in as %s <%s>\n", u.Name(), u.Email)
	fmt.Fprintf(a.out, "Plan: %s\n", u.Plan)
	if u.InTrial(time.Now()) {
		fmt.Fprintf(a.out, "Trial ends: %s\n", u.TrialEndsAt.Local().Format(time.DateOnly))
	}

	left, err := a.tokens.ExpiresIn()
	switch {
	case errors.Is(err, tokens.ErrNoSession):
	case err != nil:
		a.log.Debug(ctx, "session token unreadable", "error", err)
	case left > 0:
		fmt.Fprintf(a.out, "Session expires in %s\n", left.Round(time.Minute))
	}
	return nil
}

func (a *App) track(ctx context.Context, event string) {
	if err := a.tracker.Track(ctx, event, nil); err != nil {
		a.log.Debug(ctx, "analytics event dropped", "event", event, "error", err)
	}
}
