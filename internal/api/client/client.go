package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pulsewatch/internal/models"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient() (*Client, error) {
	baseURL := os.Getenv("PULSEWATCH_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	token := os.Getenv("PULSEWATCH_API_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("PULSEWATCH_API_TOKEN environment variable is not set")
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (c *Client) ListRules() ([]models.AlertRule, error) {
	var rules []models.AlertRule
	if err := c.get("/api/v1/rules", &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (c *Client) GetRule(id uint) (*models.AlertRule, error) {
	var rule models.AlertRule
	if err := c.get(fmt.Sprintf("/api/v1/rules/%d", id), &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (c *Client) CreateRule(rule *models.AlertRule) (*models.AlertRule, error) {
	var created models.AlertRule
	if err := c.post("/api/v1/rules", rule, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteRule(id uint) error {
	return c.delete(fmt.Sprintf("/api/v1/rules/%d", id))
}

func (c *Client) MuteRule(id uint, durationMinutes *int) error {
	body := map[string]interface{}{}
	if durationMinutes != nil {
		body["durationMinutes"] = *durationMinutes
	}
	return c.post(fmt.Sprintf("/api/v1/rules/%d/mute", id), body, nil)
}

func (c *Client) UnmuteRule(id uint) error {
	return c.post(fmt.Sprintf("/api/v1/rules/%d/unmute", id), map[string]interface{}{}, nil)
}

func (c *Client) ListAlerts(status, severity string) ([]models.Alert, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if severity != "" {
		query.Set("severity", severity)
	}

	var alerts []models.Alert
	if err := c.get("/api/v1/alerts?"+query.Encode(), &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *Client) AcknowledgeAlert(id uint) error {
	return c.post(fmt.Sprintf("/api/v1/alerts/%d/acknowledge", id), map[string]interface{}{}, nil)
}

func (c *Client) ResolveAlert(id uint, resolution string) error {
	body := map[string]string{"resolution": resolution}
	return c.post(fmt.Sprintf("/api/v1/alerts/%d/resolve", id), body, nil)
}

func (c *Client) GetAlertStats() (*models.AlertStats, error) {
	var stats models.AlertStats
	if err := c.get("/api/v1/alerts/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) get(endpoint string, out interface{}) error {
	return c.do(http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}
	return c.do(http.MethodPost, endpoint, bytes.NewReader(payload), out)
}

func (c *Client) delete(endpoint string) error {
	return c.do(http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) do(method, endpoint string, body io.Reader, out interface{}) error {
	req, err := http.NewRequest(method, c.baseURL+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
