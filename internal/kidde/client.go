package kidde

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jkaberg/kidde-hass/internal/netutil"
)

// DefaultBaseURL is the Kidde HomeSafe cloud API endpoint.
const DefaultBaseURL = "https://api.homesafe.kidde.com/api/v4"

// Client handles communication with the Kidde HomeSafe cloud API.
type Client struct {
	baseURL    string
	email      string
	password   string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new HomeSafe cloud client. The client logs in lazily
// on the first Poll and re-authenticates when the token expires.
func NewClient(baseURL, email, password string, timeout time.Duration, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		email:      email,
		password:   password,
		httpClient: netutil.NewHTTPClient(timeout, logger),
		logger:     logger,
	}
}

// Login authenticates against the cloud API and stores the access token for
// subsequent requests.
func (c *Client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login returned status %d: %s", resp.StatusCode, resp.Status)
	}

	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if loginResp.AccessToken == "" {
		return fmt.Errorf("login response contained no access token")
	}

	c.token = loginResp.AccessToken
	c.logger.Debug("Authenticated against HomeSafe cloud")
	return nil
}

// Poll fetches all devices across all locations and returns them as a fresh
// snapshot. The previous snapshot is never mutated.
func (c *Client) Poll(ctx context.Context) (*Snapshot, error) {
	if c.token == "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	locations, err := c.getLocations(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		FetchedAt: time.Now(),
		Devices:   make(map[string]DeviceData),
	}

	for _, loc := range locations {
		devices, err := c.getDevices(ctx, loc)
		if err != nil {
			return nil, err
		}
		for _, dev := range devices {
			id, ok := deviceID(dev)
			if !ok {
				c.logger.Warn("Device without id in API response, skipping")
				continue
			}
			snap.Devices[id] = dev
		}
	}

	c.logger.WithFields(logrus.Fields{
		"locations": len(locations),
		"devices":   len(snap.Devices),
	}).Debug("Fetched device snapshot")

	return snap, nil
}

func (c *Client) getLocations(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/location")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	var locations []struct {
		ID float64 `json:"id"`
	}
	if err := json.Unmarshal(body, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}

	ids := make([]string, 0, len(locations))
	for _, loc := range locations {
		ids = append(ids, fmt.Sprintf("%.0f", loc.ID))
	}
	return ids, nil
}

func (c *Client) getDevices(ctx context.Context, locationID string) ([]DeviceData, error) {
	body, err := c.get(ctx, "/location/"+locationID+"/device")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch devices for location %s: %w", locationID, err)
	}

	var devices []DeviceData
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices for location %s: %w", locationID, err)
	}
	return devices, nil
}

// get performs an authenticated GET. An expired token triggers exactly one
// re-login followed by a single retry.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	body, status, err := c.doGet(ctx, path)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.logger.Debug("Token rejected, re-authenticating")
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		body, status, err = c.doGet(ctx, path)
		if err != nil {
			return nil, err
		}
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d for %s", status, path)
	}
	return body, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("kidde-auth-token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"path":          path,
		"status_code":   resp.StatusCode,
		"response_size": len(body),
	}).Debug("Received API response")

	return body, resp.StatusCode, nil
}
