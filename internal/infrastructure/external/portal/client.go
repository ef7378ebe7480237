// Package portal implements the UQAM portal API client.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/uqgrd/uqgrd/internal/domain/grade"
	"github.com/uqgrd/uqgrd/internal/domain/semester"
	"github.com/uqgrd/uqgrd/internal/domain/shared"
	"github.com/uqgrd/uqgrd/internal/domain/transcript"
)

// Portal endpoints, relative to the base URL.
const (
	authPath   = "/authentification"
	resumePath = "/apis/resumeResultat/identifiant"
	detailPath = "/apis/resultatActivite/identifiant"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the portal client.
type ClientConfig struct {
	// BaseURL is the portal base URL.
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the UQAM portal API client.
//
// The client is stateless: the authentication token is returned to the
// caller and passed back explicitly on every fetch, never cached here.
// Every operation is a single round trip with no implicit retry.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	mapper     *Mapper
}

// NewClient creates a new portal client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger,
		mapper: NewMapper(),
	}
}

// Authenticate posts the credentials and returns a bearer token.
// It fails if the transport errors, the response is unparsable, or the
// returned token is empty.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(AuthRequestDTO{
		Identifiant: username,
		MotDePasse:  password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+authPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		var status *statusError
		if errors.As(err, &status) && (status.code == http.StatusUnauthorized || status.code == http.StatusForbidden) {
			return "", shared.WrapError("portal", "Authenticate", shared.ErrAuthFailed, "portal rejected the login", err)
		}
		return "", fmt.Errorf("authenticate: %w", err)
	}

	var auth AuthResponseDTO
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", shared.WrapError("portal", "Authenticate", shared.ErrInvalidPayload, "parse auth response", err)
	}

	if auth.Token == "" {
		return "", shared.ErrEmptyToken
	}

	return auth.Token, nil
}

// FetchTranscript fetches the full academic transcript, sorted by
// semester code descending (most recent first).
func (c *Client) FetchTranscript(ctx context.Context, token string) ([]transcript.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+resumePath, nil)
	if err != nil {
		return nil, fmt.Errorf("create transcript request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}

	var resume TranscriptResponseDTO
	if err := json.Unmarshal(body, &resume); err != nil {
		return nil, shared.WrapError("portal", "FetchTranscript", shared.ErrInvalidPayload, "parse transcript", err)
	}

	return c.mapper.EntriesFromDTO(&resume), nil
}

// FetchCourseDetail fetches the live result for one course instance.
func (c *Client) FetchCourseDetail(ctx context.Context, token string, code semester.Code, sigle string, group int) (grade.Detail, error) {
	fullURL := fmt.Sprintf("%s%s/%d/%s/%d",
		c.config.BaseURL, detailPath, int(code), url.PathEscape(sigle), group)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return grade.Detail{}, fmt.Errorf("create detail request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.do(req)
	if err != nil {
		return grade.Detail{}, fmt.Errorf("fetch course %s: %w", sigle, err)
	}

	var details DetailResponseDTO
	if err := json.Unmarshal(body, &details); err != nil {
		return grade.Detail{}, shared.WrapError("portal", "FetchCourseDetail", shared.ErrInvalidPayload, "parse course "+sigle, err)
	}

	detail, err := c.mapper.DetailFromDTO(&details)
	if err != nil {
		return grade.Detail{}, fmt.Errorf("course %s: %w", sigle, err)
	}

	return detail, nil
}

// statusError is a non-2xx portal response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("portal returned status %d", e.code)
}

// do executes a single request and returns the response body.
// Non-2xx statuses are errors; there is no retry.
func (c *Client) do(req *http.Request) ([]byte, error) {
	c.logger.Debug("portal request", "method", req.Method, "path", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}

	return body, nil
}
