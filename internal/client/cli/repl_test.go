package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string, args []string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }
func (s *stubExec) Login(_ context.Context, args []string) error {
	return s.record("login", args)
}
func (s *stubExec) Logout(context.Context) error { return s.record("logout", nil) }
func (s *stubExec) WhoAmI(context.Context) error { return s.record("whoami", nil) }
func (s *stubExec) List(context.Context) error   { return s.record("list", nil) }
func (s *stubExec) Add(_ context.Context, args []string) error {
	return s.record("add", args)
}
func (s *stubExec) Delete(_ context.Context, args []string) error {
	return s.record("delete", args)
}
func (s *stubExec) Import(_ context.Context, args []string) error {
	return s.record("import", args)
}
func (s *stubExec) Theme(_ context.Context, args []string) error {
	return s.record("theme", args)
}

// captureOutput replaces the print seams for the duration of the test.
func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var sb strings.Builder
	oldPrintln, oldPrint := printlnFn, printFn
	t.Cleanup(func() { printlnFn, printFn = oldPrintln, oldPrint })
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&sb, a...) }
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&sb, a...) }
	return &sb
}

func TestRunREPL_Dispatch(t *testing.T) {
	captureOutput(t)
	stub := &stubExec{loggedIn: true}

	in := strings.Join([]string{
		"",
		"l",
		"LIST",
		"add hello there",
		"delete abc",
		"rm def",
		"import s3://b/k",
		"theme dark",
		"login token",
		"whoami",
		"logout",
		"exit",
		"list",
	}, "\n") + "\n"

	runREPL(context.Background(), stub, func() string { return "> " }, rdr(in))

	assert.Equal(t, []string{
		"list",
		"list",
		"add hello there",
		"delete abc",
		"delete def",
		"import s3://b/k",
		"theme dark",
		"login token",
		"whoami",
		"logout",
	}, stub.calls)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := captureOutput(t)
	runREPL(context.Background(), &stubExec{}, func() string { return "" }, rdr("help\n"))
	assert.Contains(t, out.String(), "login token")
	assert.NotContains(t, out.String(), "import <source>")

	out.Reset()
	runREPL(context.Background(), &stubExec{loggedIn: true}, func() string { return "" }, rdr("help\n"))
	assert.Contains(t, out.String(), "import <source>")
}

func TestRunREPL_UnknownAndExit(t *testing.T) {
	out := captureOutput(t)
	runREPL(context.Background(), &stubExec{}, func() string { return "p> " }, rdr("frobnicate\nquit\n"))

	s := out.String()
	assert.Contains(t, s, "Unknown command: frobnicate")
	assert.Contains(t, s, "Bye!")
	assert.Equal(t, 2, strings.Count(s, "p> "))
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	captureOutput(t)
	stub := &stubExec{}
	runREPL(context.Background(), stub, func() string { return "" }, rdr("whoami"))
	assert.Equal(t, []string{"whoami"}, stub.calls)
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	captureOutput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubExec{}
	runREPL(ctx, stub, func() string { return "" }, rdr("list\n"))
	assert.Empty(t, stub.calls)
}
