package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/client/repositories/entries"
	"github.com/dmitrijs2005/gophdiary/internal/importer"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
)

// ErrInvalidImport is returned when the import text holds no well-formed block.
var ErrInvalidImport = errors.New("not a valid diary file: no complete DATE ... END block found")

// ImportReport summarizes an import.
type ImportReport struct {
	// Created counts drafts the store accepted.
	Created int
	// Failed counts drafts the store rejected.
	Failed int
	// Skipped counts incomplete blocks the parser dropped.
	Skipped int
	// Errors holds one error per failed draft.
	Errors []error
}

// EntryService is the View Controller over the Remote Entry Store.
//
// Every mutation is followed by a full re-fetch. A failed re-fetch leaves
// the cached list as it was.
type EntryService interface {
	// Refresh re-fetches the list and returns the cached list afterwards.
	Refresh(ctx context.Context) ([]models.Entry, error)
	// Entries returns the cached list without a network call.
	Entries() []models.Entry
	// Entry looks id up in the cached list.
	Entry(id string) (models.Entry, bool)
	Add(ctx context.Context, content string) (*models.Entry, error)
	Delete(ctx context.Context, id string) error
	// Import validates text, then creates one entry per draft in file order.
	Import(ctx context.Context, text string) (ImportReport, error)
	// Clear drops the cached list.
	Clear()
}

type entryService struct {
	client client.Client
	repo   entries.Repository
	logger logging.Logger
}

func NewEntryService(c client.Client, repo entries.Repository, logger logging.Logger) EntryService {
	return &entryService{client: c, repo: repo, logger: logger}
}

func (s *entryService) Refresh(ctx context.Context) ([]models.Entry, error) {
	gen := s.repo.Begin()

	list, err := s.client.List(ctx)
	if err != nil {
		return s.repo.GetAll(), fmt.Errorf("refresh entries: %w", err)
	}

	if !s.repo.Commit(gen, list) {
		s.logger.Debug(ctx, "stale entry list discarded", "generation", gen)
	}
	return s.repo.GetAll(), nil
}

func (s *entryService) Entries() []models.Entry {
	return s.repo.GetAll()
}

func (s *entryService) Entry(id string) (models.Entry, bool) {
	return s.repo.GetByID(id)
}

func (s *entryService) Clear() {
	s.repo.Clear()
}

func (s *entryService) Add(ctx context.Context, content string) (*models.Entry, error) {
	e, err := s.client.Create(ctx, models.NewEntry{Content: content})
	if err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}
	s.refreshAfter(ctx, "add")
	return e, nil
}

func (s *entryService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	s.refreshAfter(ctx, "delete")
	return nil
}

func (s *entryService) Import(ctx context.Context, text string) (ImportReport, error) {
	res := importer.Scan(text)
	report := ImportReport{Skipped: res.Skipped}
	if len(res.Drafts) == 0 {
		return report, ErrInvalidImport
	}

	for i, d := range res.Drafts {
		if err := ctx.Err(); err != nil {
			return s.abortImport(ctx, report, err)
		}

		_, err := s.client.Create(ctx, models.NewEntry{Content: d.Content(), CreatedAt: d.CreatedAt()})
		if err == nil {
			report.Created++
			continue
		}

		if errors.Is(err, client.ErrNotSignedIn) || errors.Is(err, client.ErrUnauthorized) || ctx.Err() != nil {
			return s.abortImport(ctx, report, err)
		}

		report.Failed++
		report.Errors = append(report.Errors, fmt.Errorf("block %d (%s): %w", i+1, d.Date, err))
		s.logger.Warn(ctx, "import entry failed", "block", i+1, "date", d.Date, "error", err)
	}

	s.refreshAfter(ctx, "import")
	s.logger.Info(ctx, "import finished", "created", report.Created, "failed", report.Failed, "skipped", report.Skipped)
	return report, nil
}

// abortImport stops an import that cannot go on. Entries created so far stay.
func (s *entryService) abortImport(ctx context.Context, report ImportReport, err error) (ImportReport, error) {
	if report.Created > 0 && ctx.Err() == nil {
		s.refreshAfter(ctx, "import")
	}
	return report, fmt.Errorf("import stopped after %d entries: %w", report.Created, err)
}

func (s *entryService) refreshAfter(ctx context.Context, op string) {
	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "refresh after "+op+" failed, showing previous list", "error", err)
	}
}
