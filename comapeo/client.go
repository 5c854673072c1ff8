// Package comapeo provides a client for the CoMapeo Cloud HTTP API:
// projects, observations, attachments, and remote detection alerts.
package comapeo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// A Client talks to one CoMapeo Cloud server. All authenticated endpoints
// receive the bearer token the client was created with.
type Client struct {
	baseURL   string
	token     string
	userAgent string
}

// NewClient returns a Client for the server at baseURL.
func NewClient(baseURL, token, userAgent string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		userAgent: userAgent,
	}
}

func (c *Client) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

// do sends req and fails on any non-2xx status.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status)
	}
	return resp, nil
}

// Projects returns all projects the token has access to.
func (c *Client) Projects() ([]Project, error) {
	req, err := c.newRequest(http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer resp.Body.Close()
	var list ProjectList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("list projects: decode response: %w", err)
	}
	return list.Data, nil
}

// Observations returns every observation in the project.
func (c *Client) Observations(projectID string) ([]Observation, error) {
	req, err := c.newRequest(http.MethodGet, fmt.Sprintf("/projects/%s/observations", projectID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list observations for %s: %w", projectID, err)
	}
	defer resp.Body.Close()
	var list ObservationList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("list observations for %s: decode response: %w", projectID, err)
	}
	return list.Data, nil
}

// Alerts returns every remote detection alert in the project.
func (c *Client) Alerts(projectID string) ([]Alert, error) {
	req, err := c.newRequest(http.MethodGet, fmt.Sprintf("/projects/%s/remoteDetectionAlerts", projectID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list alerts for %s: %w", projectID, err)
	}
	defer resp.Body.Close()
	var list AlertList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("list alerts for %s: decode response: %w", projectID, err)
	}
	return list.Data, nil
}

// CreateAlert posts a new remote detection alert to the project.
func (c *Client) CreateAlert(projectID string, alert Alert) error {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(alert); err != nil {
		return err
	}
	req, err := c.newRequest(http.MethodPost, fmt.Sprintf("/projects/%s/remoteDetectionAlerts", projectID), buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("create alert in %s: %w", projectID, err)
	}
	resp.Body.Close()
	return nil
}

// FetchAttachment downloads one attachment blob and returns its raw bytes.
// variant may be empty; for photos it selects a named rendition such as
// "original", "preview" or "thumbnail". The request is attempted once, with
// no retry.
func (c *Client) FetchAttachment(projectID, driveID, mediaType, name, variant string) ([]byte, error) {
	path := fmt.Sprintf("/projects/%s/attachments/%s/%s/%s", projectID, driveID, mediaType, name)
	if variant != "" {
		path += "?variant=" + url.QueryEscape(variant)
	}
	req, err := c.newRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch attachment %s: %w", name, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch attachment %s: read body: %w", name, err)
	}
	return b, nil
}

// Healthcheck reports whether the server is up.
func (c *Client) Healthcheck() error {
	req, err := c.newRequest(http.MethodGet, "/healthcheck", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
