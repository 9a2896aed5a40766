package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/config"
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/importer"
)

const (
	listTimeLayout = "2006-01-02 15:04"
	shortIDLen     = 8
)

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// List re-fetches the entries and prints them. When the fetch fails the
// previously loaded list is printed after the error.
func (a *App) List(ctx context.Context) error {
	list, err := a.entryService.Refresh(ctx)
	if err != nil {
		a.fail(err)
		if len(list) == 0 {
			return err
		}
		printlnFn("Showing the last loaded list:")
	}

	a.printEntries(list)
	return err
}

// Refresh reloads the entry list without printing it.
func (a *App) Refresh(ctx context.Context) error {
	_, err := a.entryService.Refresh(ctx)
	return err
}

func (a *App) printEntries(list []models.Entry) {
	if len(list) == 0 {
		printlnFn("No entries yet. Type 'add' to write one.")
		return
	}

	st := newStyler(a.getTheme())
	for _, e := range list {
		printlnFn(st.ID(shortID(e.ID)), st.Date(e.CreatedAt.Local().Format(listTimeLayout)))
		for _, line := range strings.Split(e.Content, "\n") {
			printlnFn("    " + line)
		}
		printlnFn()
	}
	printlnFn(st.Muted(fmt.Sprintf("%d entries", len(list))))
}

// Add saves args joined by spaces, or multi-line input when args is empty.
func (a *App) Add(ctx context.Context, args []string) error {
	content := strings.TrimSpace(strings.Join(args, " "))
	if content == "" {
		var err error
		content, err = getMultiline(a.reader, "Write your entry", os.Stdout)
		if err != nil {
			return a.fail(err)
		}
	}
	if content == "" {
		printlnFn("Nothing to save.")
		return nil
	}

	e, err := a.entryService.Add(ctx, content)
	if err != nil {
		return a.fail(err)
	}
	a.success(fmt.Sprintf("Saved entry %s.", shortID(e.ID)))
	return nil
}

// Delete removes the entry named by a full id or by a prefix matching
// exactly one loaded entry.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: delete <id>")
		return nil
	}

	id, err := a.resolveID(args[0])
	if err != nil {
		return a.fail(err)
	}

	if err := a.entryService.Delete(ctx, id); err != nil {
		return a.fail(err)
	}
	a.success(fmt.Sprintf("Deleted entry %s.", shortID(id)))
	return nil
}

var errAmbiguousID = errors.New("id prefix matches more than one entry")

// resolveID expands a prefix against the cached list. An id that matches
// nothing is passed through so the store decides.
func (a *App) resolveID(prefix string) (string, error) {
	if e, ok := a.entryService.Entry(prefix); ok {
		return e.ID, nil
	}

	var match string
	for _, e := range a.entryService.Entries() {
		if strings.HasPrefix(e.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%q: %w", prefix, errAmbiguousID)
			}
			match = e.ID
		}
	}
	if match != "" {
		return match, nil
	}
	return prefix, nil
}

// Import reads a diary file from a local path or an s3:// URI and creates one
// entry per block.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: import <path | s3://bucket/key>")
		return nil
	}
	if !a.isLoggedIn() {
		return a.fail(client.ErrNotSignedIn)
	}

	text, err := a.sources.Read(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}

	report, err := a.entryService.Import(ctx, text)
	st := newStyler(a.getTheme())
	if report.Created > 0 || report.Failed > 0 || err == nil {
		printlnFn(st.OK(fmt.Sprintf("Imported %d entries.", report.Created)))
	}
	if report.Failed > 0 {
		printlnFn(st.Err(fmt.Sprintf("%d entries failed:", report.Failed)))
		for _, e := range report.Errors {
			printlnFn("  " + e.Error())
		}
	}
	if report.Skipped > 0 {
		printlnFn(st.Muted(fmt.Sprintf("%d incomplete blocks skipped.", report.Skipped)))
	}
	if err != nil {
		return a.fail(err)
	}
	return nil
}

// Theme toggles the theme, or sets it when a name is given.
func (a *App) Theme(ctx context.Context, args []string) error {
	var (
		next models.Theme
		err  error
	)
	if len(args) == 0 {
		next, err = a.prefs.ToggleTheme(ctx)
	} else {
		next, err = models.ParseTheme(args[0])
		if err == nil {
			err = a.prefs.SetTheme(ctx, next)
		}
	}
	if err != nil {
		return a.fail(err)
	}

	a.setTheme(next)
	a.success(fmt.Sprintf("Theme: %s", next))
	return nil
}

// ValidateImport checks a diary file without a session or network access to
// the entry store.
func ValidateImport(ctx context.Context, c *config.Config, src string) (importer.Result, error) {
	return validateImport(ctx, newSourceReader(c), src)
}

func validateImport(ctx context.Context, sources SourceReader, src string) (importer.Result, error) {
	text, err := sources.Read(ctx, src)
	if err != nil {
		return importer.Result{}, err
	}
	return importer.Scan(text), nil
}
