package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/liverylab/catalog/services/livery/application/handlers"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
	liverydomain "github.com/liverylab/catalog/services/livery/domain"
	"github.com/liverylab/catalog/services/livery/domain/models"
)

const (
	catalogPath = "/api/liveries"
	minePath    = "/api/liveries/mine"
	sessionPath = "/api/session"

	defaultTimeout = 30 * time.Second
)

// StatusError is returned for API responses that do not map to a domain error.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog api: %d %s", e.Status, e.Message)
}

// NewHTTPClient returns an http.Client with OTel transport instrumentation
// and a cookie jar, so a session started with StartSession is reused.
func NewHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Jar:       jar,
		Timeout:   defaultTimeout,
	}, nil
}

// PathFor returns the API path that serves bc. Another owner's collection is
// browsed through the catalog endpoint with an explicit id scope.
func PathFor(bc BrowsingContext) string {
	if bc == ContextMyCollection {
		return minePath
	}
	return catalogPath
}

// HTTPFetcher loads pages for one browsing context from the catalog API.
type HTTPFetcher struct {
	baseURL string
	path    string
	client  *http.Client
}

// NewHTTPFetcher returns a fetcher for bc against baseURL.
func NewHTTPFetcher(baseURL string, bc BrowsingContext, client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    PathFor(bc),
		client:  client,
	}
}

// FetchPage requests the page described by f.
func (h *HTTPFetcher) FetchPage(ctx context.Context, f models.FilterSpec) (*models.Page, error) {
	// An empty id list cannot be put on the wire; dropping it would widen
	// the request to the whole catalog.
	if f.HasScope() && len(f.Scope) == 0 {
		return &models.Page{Items: []*models.Livery{}}, nil
	}
	u := h.baseURL + h.path
	if q := appsvcs.EncodeParams(f).Encode(); q != "" {
		u += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var body handlers.PageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return body.ToPage(), nil
}

// StartSession signs client in as ownerID through the development session
// endpoint. The session cookie is kept in the client's jar.
func StartSession(ctx context.Context, client *http.Client, baseURL, ownerID string) error {
	payload, err := json.Marshal(handlers.CreateSessionRequest{OwnerID: ownerID})
	if err != nil {
		return err
	}
	u := strings.TrimRight(baseURL, "/") + sessionPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusNoContent {
		return responseError(resp)
	}
	return nil
}

// responseError maps an error response onto the domain sentinels so callers
// can use errors.Is across the wire.
func responseError(resp *http.Response) error {
	var body handlers.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	statusErr := &StatusError{Status: resp.StatusCode, Message: body.Error}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return errors.Join(liverydomain.ErrInvalidFilter, statusErr)
	case http.StatusNotFound:
		return errors.Join(liverydomain.ErrLiveryNotFound, statusErr)
	case http.StatusGone:
		return errors.Join(liverydomain.ErrStaleCursor, statusErr)
	default:
		return statusErr
	}
}
