// Package infinitebz is the client for the upstream InfiniteBZ REST API.
package infinitebz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"infinitebz/internal/domain"
	"infinitebz/internal/draft"
)

const apiPrefix = "/api/v1"

// Client implements domain.EventCreator and domain.AuthClient over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a client for the API rooted at baseURL (e.g. "http://localhost:8000").
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

var (
	_ domain.EventCreator = (*Client)(nil)
	_ domain.AuthClient   = (*Client)(nil)
)

// CreateEvent posts the payload to /events and returns the created event.
func (c *Client) CreateEvent(ctx context.Context, sess *domain.Session, payload draft.Payload) (*domain.CreatedEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/events", sess, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created domain.CreatedEvent
	if err := c.do(req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UploadImage sends the file as multipart field "file" to /upload and returns the hosted URL.
func (c *Client) UploadImage(ctx context.Context, sess *domain.Session, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/upload", sess, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload response has no url")
	}
	return out.URL, nil
}

// Login exchanges email and password for an access token (OAuth2 password form).
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", nil, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login response has no access_token")
	}
	return out.AccessToken, nil
}

// Me returns the profile of the session's user.
func (c *Client) Me(ctx context.Context, sess *domain.Session) (*domain.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", sess, nil)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := c.do(req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, sess *domain.Session, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call infinitebz api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode infinitebz response: %w", err)
	}
	return nil
}
