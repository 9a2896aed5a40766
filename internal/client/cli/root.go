package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if s := a.currentSession(); s != nil {
		if s.Email != "" {
			parts = append(parts, s.Email)
		} else {
			parts = append(parts, s.UserID)
		}
	}
	if m := a.getMode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

func (a *App) prompt() string {
	st := newStyler(a.getTheme())
	if s := a.getStatus(); s != "" {
		return st.Prompt("diary") + " " + st.Muted(s) + st.Prompt("> ")
	}
	return st.Prompt("diary> ")
}

// Root runs the interactive session until the user leaves or ctx is done.
// Start must have been called.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to GophDiary (type 'help' for commands)")

	a.checkOnline(ctx)

	if a.isLoggedIn() {
		list, err := a.entryService.Refresh(ctx)
		if err != nil {
			a.logger.Warn(ctx, "loading entries failed", "error", err)
		}
		printlnFn(fmt.Sprintf("%d entries.", len(list)))
	} else {
		printlnFn("You are not signed in. Type 'login' to sign in.")
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	// the REPL blocks on stdin, so a cancelled ctx must not wait for it
	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.prompt, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		printlnFn()
		printlnFn("Bye!")
	}
}
