// Package netx contains network helpers for the terminal client.
package netx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// CallbackServer receives a single OAuth redirect on a loopback address.
type CallbackServer struct {
	listener net.Listener
	path     string
	result   chan url.Values
}

// ListenCallback binds addr (use "127.0.0.1:0" for a free port) and serves
// path until Wait returns.
func ListenCallback(addr, path string) (*CallbackServer, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &CallbackServer{listener: l, path: path, result: make(chan url.Values, 1)}, nil
}

// RedirectURL is the URL the authorization server should redirect to.
func (s *CallbackServer) RedirectURL() string {
	return "http://" + s.listener.Addr().String() + s.path
}

// Wait serves requests until the first hit on the callback path or ctx is done
// and returns that request's query parameters.
func (s *CallbackServer) Wait(ctx context.Context) (url.Values, error) {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, func(w http.ResponseWriter, r *http.Request) {
		select {
		case s.result <- r.URL.Query():
		default:
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, "You can close this window and return to the terminal.")
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			close(s.result)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case q, ok := <-s.result:
		if !ok {
			return nil, errors.New("callback server stopped")
		}
		return q, nil
	}
}
