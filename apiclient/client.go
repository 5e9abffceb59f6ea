// Package apiclient talks to the dashhome REST backend.
package apiclient

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/config"
	"github.com/dashhome/dashhome/dashboard"
)

type Health struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Mode        string `json:"mode"`
	ReleasesURL string `json:"releases_url,omitempty"`
}

type AuthStatus struct {
	Configured bool   `json:"configured"`
	Mode       string `json:"mode"`
}

// StatusError is a non 2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return "api error: " + e.Method + " " + e.Path + ": " + e.Body
}

type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New creates a client for the backend at baseURL, e.g.
// http://localhost:5050.
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: http, logger: logger}
}

func (self *Client) do(method, path string, body, result interface{}) error {
	req := self.http.R()
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.IsError() {
		self.logger.Warn("api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

func (self *Client) Health() (*Health, error) {
	health := &Health{}
	if err := self.do(resty.MethodGet, "/api/health", nil, health); err != nil {
		return nil, err
	}
	return health, nil
}

func (self *Client) GetConfig() (*config.AppConfiguration, error) {
	app := config.DefaultAppConfiguration()
	if err := self.do(resty.MethodGet, "/api/config", nil, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (self *Client) PutConfig(app *config.AppConfiguration) error {
	return self.do(resty.MethodPut, "/api/config", app, nil)
}

func (self *Client) GetDashboard() (*dashboard.Config, error) {
	doc := &dashboard.Config{}
	if err := self.do(resty.MethodGet, "/api/dashboard", nil, doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}

func (self *Client) PutDashboard(doc *dashboard.Config) error {
	return self.do(resty.MethodPut, "/api/dashboard", doc, nil)
}

func (self *Client) AuthStatus() (*AuthStatus, error) {
	status := &AuthStatus{}
	if err := self.do(resty.MethodGet, "/api/auth/status", nil, status); err != nil {
		return nil, err
	}
	return status, nil
}
