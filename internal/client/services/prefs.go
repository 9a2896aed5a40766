package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
)

// PreferenceService keeps user preferences in the local metadata store.
type PreferenceService interface {
	Theme(ctx context.Context) (models.Theme, error)
	SetTheme(ctx context.Context, t models.Theme) error
	ToggleTheme(ctx context.Context) (models.Theme, error)
}

type preferenceService struct {
	db *sql.DB
}

func NewPreferenceService(db *sql.DB) PreferenceService {
	return &preferenceService{db: db}
}

// Theme returns the stored theme, or models.DefaultTheme when none is stored
// or the stored value is unknown.
func (p *preferenceService) Theme(ctx context.Context) (models.Theme, error) {
	return loadTheme(ctx, metadata.NewSQLiteRepository(p.db))
}

func (p *preferenceService) SetTheme(ctx context.Context, t models.Theme) error {
	return saveTheme(ctx, metadata.NewSQLiteRepository(p.db), t)
}

// ToggleTheme flips the stored theme in a single transaction.
func (p *preferenceService) ToggleTheme(ctx context.Context) (models.Theme, error) {
	var next models.Theme
	err := dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		cur, err := loadTheme(ctx, repo)
		if err != nil {
			return err
		}
		next = cur.Toggle()
		return saveTheme(ctx, repo, next)
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

func loadTheme(ctx context.Context, repo metadata.Repository) (models.Theme, error) {
	raw, err := repo.Get(ctx, metadata.KeyTheme)
	if errors.Is(err, common.ErrorNotFound) {
		return models.DefaultTheme, nil
	}
	if err != nil {
		return models.DefaultTheme, fmt.Errorf("load theme: %w", err)
	}

	t, err := models.ParseTheme(string(raw))
	if err != nil {
		return models.DefaultTheme, nil
	}
	return t, nil
}

func saveTheme(ctx context.Context, repo metadata.Repository, t models.Theme) error {
	if _, err := models.ParseTheme(string(t)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if err := repo.Set(ctx, metadata.KeyTheme, []byte(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
