package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophdiary/internal/common"
)

// SessionStore persists the session between runs.
type SessionStore interface {
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

type metadataStore struct {
	repo metadata.Repository
}

// NewMetadataStore keeps the session as JSON under metadata.KeySession.
func NewMetadataStore(repo metadata.Repository) SessionStore {
	return &metadataStore{repo: repo}
}

func (m *metadataStore) Load(ctx context.Context) (*models.Session, error) {
	raw, err := m.repo.Get(ctx, metadata.KeySession)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func (m *metadataStore) Save(ctx context.Context, s *models.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.repo.Set(ctx, metadata.KeySession, raw); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *metadataStore) Clear(ctx context.Context) error {
	if err := m.repo.Delete(ctx, metadata.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
