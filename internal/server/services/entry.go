// Package services holds the entry server's business logic between the HTTP
// handlers and the repositories.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/dmitrijs2005/gophdiary/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// MaxContentBytes bounds the size of one entry.
const MaxContentBytes = 64 << 10

const dateLayout = "2006-01-02"

// NewEntry is a create request.
type NewEntry struct {
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

type EntryService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewEntryService(db dbx.DBTX, repomanager repomanager.RepositoryManager) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: repomanager,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

func (s *EntryService) List(ctx context.Context, userID string) ([]models.Entry, error) {
	return s.repomanager.Entries(s.db).List(ctx, userID)
}

// Create validates req and stores it for userID. A missing created_at means
// now; a bare date means midnight UTC of that day.
func (s *EntryService) Create(ctx context.Context, userID string, req NewEntry) (*models.Entry, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is empty", common.ErrorValidation)
	}
	if len(req.Content) > MaxContentBytes {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", common.ErrorValidation, MaxContentBytes)
	}
	if !utf8.ValidString(req.Content) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", common.ErrorValidation)
	}

	createdAt := s.now().UTC()
	if req.CreatedAt != "" {
		t, err := ParseCreatedAt(req.CreatedAt)
		if err != nil {
			return nil, err
		}
		createdAt = t
	}

	entry := &models.Entry{
		ID:        s.newID(),
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: createdAt,
	}
	return s.repomanager.Entries(s.db).Create(ctx, entry)
}

// Delete removes the user's entry. Ids that are not UUIDs cannot exist and
// report common.ErrorNotFound.
func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return s.repomanager.Entries(s.db).Delete(ctx, userID, id)
}

// ParseCreatedAt accepts YYYY-MM-DD or RFC 3339.
func ParseCreatedAt(v string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: created_at %q is neither YYYY-MM-DD nor RFC 3339", common.ErrorValidation, v)
}
