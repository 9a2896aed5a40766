package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/importsrc"
	"github.com/dmitrijs2005/gophdiary/internal/client/services"
	"github.com/dmitrijs2005/gophdiary/internal/common"
)

// getSimpleText, getSecret and getMultiline are indirections so tests can
// feed input without a terminal.
var getSimpleText = GetSimpleText
var getSecret = GetSecret
var getMultiline = GetMultiline

// describeErr turns an error into a message for the user.
func describeErr(err error) string {
	switch {
	case errors.Is(err, client.ErrNotSignedIn):
		return "You are not signed in. Type 'login' to sign in."
	case errors.Is(err, client.ErrUnauthorized):
		return "The server rejected your session. Sign in again."
	case errors.Is(err, client.ErrUnavailable):
		return "The entry server is unreachable. Try again later."
	case errors.Is(err, client.ErrNotFound):
		return "Entry not found."
	case errors.Is(err, common.ErrTokenExpired):
		return "The token has expired."
	case errors.Is(err, common.ErrInvalidToken):
		return "The token is not valid."
	case errors.Is(err, services.ErrInvalidImport):
		return "Not a valid diary file: no complete DATE ... END block found."
	case errors.Is(err, importsrc.ErrTooLarge), errors.Is(err, importsrc.ErrNotText):
		return "Cannot import: " + err.Error() + "."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	default:
		return "Error: " + err.Error()
	}
}

// fail prints err for the user and returns it.
func (a *App) fail(err error) error {
	printlnFn(newStyler(a.getTheme()).Err(describeErr(err)))
	return err
}

func (a *App) success(msg string) {
	printlnFn(newStyler(a.getTheme()).OK(msg))
}

// Login signs in through the browser, or with a pasted access token when
// called as "login token".
func (a *App) Login(ctx context.Context, args []string) error {
	if a.isLoggedIn() {
		printlnFn("Already signed in. Type 'logout' first to switch accounts.")
		return nil
	}

	if len(args) > 0 && strings.EqualFold(args[0], "token") {
		token, err := getSecret(a.reader, "Paste access token", os.Stdout)
		if err != nil {
			return a.fail(err)
		}
		defer common.WipeByteArray(token)
		if len(token) == 0 {
			printlnFn("No token entered.")
			return nil
		}

		s, err := a.authService.SignInWithToken(ctx, token)
		if err != nil {
			return a.fail(err)
		}
		a.success(fmt.Sprintf("Signed in as %s.", displayName(s.Email, s.UserID)))
		return nil
	}

	printlnFn("Waiting for the browser sign-in to complete (Ctrl+C to quit)...")
	s, err := a.authService.SignIn(ctx)
	if err != nil {
		return a.fail(err)
	}
	a.success(fmt.Sprintf("Signed in as %s.", displayName(s.Email, s.UserID)))
	return nil
}

// Logout forgets the session and the cached entries.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not signed in.")
		return nil
	}
	if err := a.authService.SignOut(ctx); err != nil {
		return a.fail(err)
	}
	a.success("Signed out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s := a.authService.Session()
	if s == nil {
		return a.fail(client.ErrNotSignedIn)
	}

	st := newStyler(a.getTheme())
	printlnFn("User:   ", displayName(s.Email, s.UserID))
	printlnFn("User ID:", st.ID(s.UserID))
	if !s.ExpiresAt.IsZero() {
		printlnFn("Token expires:", st.Date(s.ExpiresAt.Local().Format(listTimeLayout)))
	}
	if m := a.getMode(); m != "" {
		printlnFn("Server: ", string(m))
	}
	return nil
}

func displayName(email, userID string) string {
	if email != "" {
		return email
	}
	return userID
}
