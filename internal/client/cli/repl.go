package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(stdout, a...) }
var printFn = func(a ...any) (int, error) { return fmt.Fprint(stdout, a...) }

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
}

const (
	helpSignedOut = `Available commands:
  login            sign in through the browser
  login token      sign in with a pasted access token
  theme [name]     toggle or set the color theme (light, dark)
  help             show this help
  exit | quit      leave the program`

	helpSignedIn = `Available commands:
  (l)ist           show your entries, newest first
  add [text]       write a new entry (multi-line when no text is given)
  delete <id>      delete an entry by id or unique id prefix
  import <source>  import a diary file (local path or s3://bucket/key)
  whoami           show the signed-in user
  logout           sign out
  theme [name]     toggle or set the color theme (light, dark)
  help             show this help
  exit | quit      leave the program`
)

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is done. Errors returned by handlers are ignored here; handlers print
// their own.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printFn(promptFn())
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "login":
			_ = a.Login(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx, args)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "import":
			_ = a.Import(ctx, args)

		case "theme":
			_ = a.Theme(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd, "(type 'help' for commands)")
		}

		if err != nil {
			return
		}
	}
}
