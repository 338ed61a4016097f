package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/havenlink/haven-engine/pkg/apperrors"
	"github.com/havenlink/haven-engine/pkg/config"
	"github.com/havenlink/haven-engine/pkg/models"
	"github.com/havenlink/haven-engine/pkg/retry"
)

// Client talks to the user-management service over HTTP/JSON. Directory
// reads are bounded by the configured timeout and transient failures are
// retried with backoff; a response from the service is never retried.
type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
	retryCfg     *retry.Config
	logger       *zap.Logger
}

// NewClient creates a directory client from config.
func NewClient(cfg *config.DirectoryConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		serviceToken: cfg.ServiceToken,
		httpClient:   &http.Client{Timeout: timeout},
		retryCfg:     retry.DefaultConfig(),
		logger:       logger.Named("directory"),
	}
}

// ListByCategory returns all professionals in the given category.
func (c *Client) ListByCategory(ctx context.Context, category models.Category) ([]models.Professional, error) {
	endpoint := fmt.Sprintf("%s/internal/professionals?category=%s", c.baseURL, url.QueryEscape(string(category)))

	var payload struct {
		Professionals []models.Professional `json:"professionals"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("list professionals for %s: %w", category, err)
	}

	// Directory contract: only exact category matches are returned.
	// Filter defensively anyway so a directory bug cannot violate the
	// role-matches-category invariant on our side.
	professionals := payload.Professionals[:0]
	for _, p := range payload.Professionals {
		if p.Category == category {
			professionals = append(professionals, p)
		}
	}

	return professionals, nil
}

// Get resolves a single professional by id.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	endpoint := fmt.Sprintf("%s/internal/professionals/%s", c.baseURL, id)

	var professional models.Professional
	if err := c.getJSON(ctx, endpoint, &professional); err != nil {
		return nil, fmt.Errorf("get professional %s: %w", id, err)
	}

	return &professional, nil
}

// GetUser resolves any account to its display identity.
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	endpoint := fmt.Sprintf("%s/internal/users/%s", c.baseURL, id)

	var user models.User
	if err := c.getJSON(ctx, endpoint, &user); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}

	return &user, nil
}

// getJSON performs a GET with service auth and decodes the response body.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	_, err := retry.DoWithResult(ctx, c.retryCfg, func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return struct{}{}, err
		}
		if c.serviceToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.serviceToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return struct{}{}, apperrors.ErrNotFound
		case resp.StatusCode != http.StatusOK:
			return struct{}{}, fmt.Errorf("directory returned status %d", resp.StatusCode)
		}

		return struct{}{}, json.NewDecoder(resp.Body).Decode(out)
	})
	return err
}

// Ensure Client implements Directory at compile time.
var _ Directory = (*Client)(nil)
