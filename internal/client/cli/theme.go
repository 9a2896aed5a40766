package cli

import (
	"io"
	"os"

	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/mattn/go-colorable"
	"golang.org/x/term"
)

const ansiReset = "\x1b[0m"

// palette holds the ANSI sequences for one theme. An empty sequence prints
// the text unchanged.
type palette struct {
	prompt string
	id     string
	date   string
	muted  string
	ok     string
	err    string
}

var palettes = map[models.Theme]palette{
	models.ThemeLight: {
		prompt: "\x1b[34m",
		id:     "\x1b[35m",
		date:   "\x1b[36m",
		muted:  "\x1b[90m",
		ok:     "\x1b[32m",
		err:    "\x1b[31m",
	},
	models.ThemeDark: {
		prompt: "\x1b[1;94m",
		id:     "\x1b[95m",
		date:   "\x1b[96m",
		muted:  "\x1b[37m",
		ok:     "\x1b[92m",
		err:    "\x1b[91m",
	},
}

// isTerminal is a test seam; colors are only emitted to a terminal.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// stdout translates ANSI sequences on consoles that do not understand them.
var stdout io.Writer = colorable.NewColorableStdout()

type styler struct {
	p       palette
	enabled bool
}

func newStyler(t models.Theme) styler {
	p, ok := palettes[t]
	if !ok {
		p = palettes[models.DefaultTheme]
	}
	return styler{p: p, enabled: isTerminal()}
}

func (s styler) paint(seq, text string) string {
	if !s.enabled || seq == "" {
		return text
	}
	return seq + text + ansiReset
}

func (s styler) Prompt(text string) string { return s.paint(s.p.prompt, text) }
func (s styler) ID(text string) string     { return s.paint(s.p.id, text) }
func (s styler) Date(text string) string   { return s.paint(s.p.date, text) }
func (s styler) Muted(text string) string  { return s.paint(s.p.muted, text) }
func (s styler) OK(text string) string     { return s.paint(s.p.ok, text) }
func (s styler) Err(text string) string    { return s.paint(s.p.err, text) }
