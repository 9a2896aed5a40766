package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/client/client"
	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/go-resty/resty/v2"
)

// goTrue is a minimal client of the GoTrue REST API.
type goTrue struct {
	http *resty.Client
}

func newGoTrue(baseURL, apiKey string, timeout time.Duration) *goTrue {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/") + "/auth/v1").
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		c.SetHeader("apikey", apiKey)
	}
	return &goTrue{http: c}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (t *tokenResponse) session(now time.Time) *models.Session {
	s := &models.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		UserID:       t.User.ID,
		Email:        t.User.Email,
	}
	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0).UTC()
	case t.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second).UTC()
	}

	if s.UserID == "" || s.ExpiresAt.IsZero() {
		claims := readClaims(t.AccessToken)
		if s.UserID == "" {
			s.UserID = claims.subject
		}
		if s.ExpiresAt.IsZero() {
			s.ExpiresAt = claims.expiresAt
		}
	}
	return s
}

func (g *goTrue) exchangeCode(ctx context.Context, code, verifier string) (*tokenResponse, error) {
	return g.token(ctx, "pkce", map[string]string{"auth_code": code, "code_verifier": verifier})
}

func (g *goTrue) refresh(ctx context.Context, refreshToken string) (*tokenResponse, error) {
	return g.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (g *goTrue) token(ctx context.Context, grant string, body map[string]string) (*tokenResponse, error) {
	op := "token " + grant
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", grant).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/token")
	if err := checkAuthResponse(op, resp, err, http.StatusOK); err != nil {
		return nil, err
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("%s: empty access token", op)
	}
	return &tr, nil
}

func (g *goTrue) logout(ctx context.Context, accessToken string) error {
	resp, err := g.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		Post("/logout")
	return checkAuthResponse("logout", resp, err, http.StatusOK, http.StatusNoContent)
}

type authErrorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
}

func (b authErrorBody) String() string {
	for _, s := range []string{b.Description, b.Msg, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// checkAuthResponse maps auth server failures onto the client sentinels: a
// rejected grant is ErrUnauthorized, anything transport-level is
// ErrUnavailable.
func checkAuthResponse(op string, resp *resty.Response, err error, want ...int) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %v", op, client.ErrUnavailable, err)
	}

	code := resp.StatusCode()
	if slices.Contains(want, code) {
		return nil
	}

	var body authErrorBody
	_ = json.Unmarshal(resp.Body(), &body)

	if code >= http.StatusInternalServerError {
		return fmt.Errorf("%s: %w: status %d", op, client.ErrUnavailable, code)
	}
	if code >= http.StatusBadRequest {
		return fmt.Errorf("%s: %w: %s", op, client.ErrUnauthorized, body)
	}
	return &client.StatusError{Op: op, Status: code, Body: resp.String()}
}
