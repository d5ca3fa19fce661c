package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/logger"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// maxBodyBytes bounds how much of a service response is read.
const maxBodyBytes = 32 << 20

// Client talks to the remote persona generation service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate asks the service for personas. The returned records are fully
// validated: each one has a name and an integer age and satisfies every
// constraint in req.Demographics.
func (c *Client) Generate(ctx context.Context, req models.GenerationRequest) ([]models.PersonaRecord, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	start := time.Now()
	raw, err := c.post(ctx, "/generate", body)
	if err != nil {
		return nil, err
	}

	var payload generateResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, apperr.Wrap(apperr.ServiceError, "malformed generation response", err)
	}
	if payload.Personas == nil {
		return nil, apperr.New(apperr.ServiceError, "generation response has no personas")
	}

	records := make([]models.PersonaRecord, 0, len(*payload.Personas))
	for i, wp := range *payload.Personas {
		rec, err := wp.toRecord()
		if err != nil {
			return nil, apperr.Wrap(apperr.ServiceError, fmt.Sprintf("persona %d is malformed", i), err)
		}
		if !req.Demographics.Admits(rec) {
			return nil, apperr.Newf(apperr.ServiceError,
				"persona %d (%s, age %d, %s, %s) violates the requested demographics",
				i, rec.Name, rec.Age, rec.Gender, rec.Location)
		}
		records = append(records, rec)
	}

	if len(records) != req.Count {
		c.log.Warn("persona service returned a different count", "requested", req.Count, "received", len(records))
	}
	c.log.Info("personas generated", "count", len(records), "elapsed", time.Since(start).String())
	return records, nil
}

// DeleteAll asks the service to delete every persona and returns its message.
func (c *Client) DeleteAll(ctx context.Context) (string, error) {
	raw, err := c.post(ctx, "/delete_all", nil)
	if err != nil {
		return "", err
	}
	var payload messageResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return "", apperr.Wrap(apperr.ServiceError, "malformed deletion response", err)
		}
	}
	c.log.Info("personas deleted", "message", payload.Message)
	return payload.Message, nil
}

// post sends a JSON POST and returns the body of a 2xx response. Transport
// failures become NetworkError; non-2xx responses become ServiceError.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("persona service unreachable", "path", path, "error", err)
		return nil, apperr.Wrap(apperr.NetworkError, "POST "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.NetworkError, "read response of POST "+path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := statusMessage(resp, raw)
		c.log.Warn("persona service rejected request", "path", path, "status", resp.StatusCode, "message", msg)
		return nil, apperr.New(apperr.ServiceError, msg)
	}
	return raw, nil
}

// statusMessage prefers the payload's message field and falls back to the
// HTTP status text.
func statusMessage(resp *http.Response, raw []byte) string {
	var payload messageResponse
	if err := json.Unmarshal(raw, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
