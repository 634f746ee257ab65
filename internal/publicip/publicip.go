// Package publicip resolves the public IP address of the host.
package publicip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// DefaultLookupURL returns the caller's public IP as plain text.
const DefaultLookupURL = "https://api.ipify.org"

// ErrUnexpectedStatus is wrapped when the lookup service answers with a non-success status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// ResolutionError is returned when no override is set and the lookup failed.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("publicip: resolving via %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Resolver returns the current public IP, or Override when it is set.
type Resolver struct {
	URL      string
	Override string
	client   *http.Client
	log      logr.Logger
}

// NewResolver creates a Resolver. An empty lookupURL selects DefaultLookupURL
// and a zero timeout leaves requests unbounded.
func NewResolver(log logr.Logger, lookupURL, override string, timeout time.Duration) *Resolver {
	if lookupURL == "" {
		lookupURL = DefaultLookupURL
	}
	return &Resolver{
		URL:      lookupURL,
		Override: override,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Resolve returns the public IP. The override short-circuits any network access.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	if r.Override != "" {
		r.log.V(1).Info("using manual IP", "ip", r.Override)
		return r.Override, nil
	}

	ip, err := r.lookup(ctx)
	if err != nil {
		return "", &ResolutionError{URL: r.URL, Err: err}
	}
	r.log.V(1).Info("resolved public IP", "ip", ip, "via", r.URL)
	return ip, nil
}

func (r *Resolver) lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnexpectedStatus)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	ip := strings.TrimSpace(string(body))
	if ip == "" {
		return "", errors.New("empty response")
	}
	return ip, nil
}
