package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/client/models"
	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// RESTClient talks to the Remote Entry Store over HTTP/JSON.
type RESTClient struct {
	http   *resty.Client
	tokens TokenSource
	logger logging.Logger
}

// NewRESTClient returns a client for the store at baseURL. Every data call
// asks tokens for a bearer token first and makes no request without one.
func NewRESTClient(baseURL string, tokens TokenSource, timeout time.Duration, logger logging.Logger) *RESTClient {
	c := &RESTClient{tokens: tokens, logger: logger}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader(common.RequestIDHeaderName, uuid.NewString())
			return nil
		}).
		OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
			c.logger.Debug(r.Request.Context(), "api call",
				"method", r.Request.Method,
				"url", r.Request.URL,
				"status", r.StatusCode(),
				"request_id", r.Request.Header.Get(common.RequestIDHeaderName),
				"duration", r.Time())
			return nil
		})

	return c
}

func (c *RESTClient) authorized(ctx context.Context) (*resty.Request, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	return c.http.R().SetContext(ctx).SetAuthToken(token), nil
}

// List returns all entries of the signed-in user.
func (c *RESTClient) List(ctx context.Context) ([]models.Entry, error) {
	req, err := c.authorized(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/entries")
	if err := checkResponse("list entries", resp, err, http.StatusOK); err != nil {
		return nil, err
	}

	entries := []models.Entry{}
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("list entries: decode: %w", err)
	}
	return entries, nil
}

// Create stores a new entry and returns it as the store assigned it.
func (c *RESTClient) Create(ctx context.Context, e models.NewEntry) (*models.Entry, error) {
	req, err := c.authorized(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(e).
		Post("/entries")
	if err := checkResponse("create entry", resp, err, http.StatusOK, http.StatusCreated); err != nil {
		return nil, err
	}

	var created models.Entry
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return nil, fmt.Errorf("create entry: decode: %w", err)
	}
	return &created, nil
}

// Delete removes the entry with the given id.
func (c *RESTClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("delete entry: %w", ErrNotFound)
	}

	req, err := c.authorized(ctx)
	if err != nil {
		return err
	}

	resp, err := req.SetPathParam("id", id).Delete("/entries/{id}")
	return checkResponse("delete entry", resp, err, http.StatusOK, http.StatusAccepted, http.StatusNoContent)
}

// Ping checks that the store answers at all; it needs no session.
func (c *RESTClient) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return fmt.Errorf("ping: %w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("ping: %w: status %d", ErrUnavailable, resp.StatusCode())
	}
	return nil
}

// Close releases idle connections.
func (c *RESTClient) Close() error {
	c.http.GetClient().CloseIdleConnections()
	return nil
}

// checkResponse maps transport errors and unexpected statuses to the
// package's sentinel errors.
func checkResponse(op string, resp *resty.Response, err error, want ...int) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	code := resp.StatusCode()
	if slices.Contains(want, code) {
		return nil
	}

	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w: status %d", op, ErrUnavailable, code)
	default:
		return &StatusError{Op: op, Status: code, Body: strings.TrimSpace(resp.String())}
	}
}
