// Package remote wraps the Guhatek HR API: token auth, rate limiting, typed
// failures, and the snake_case<->internal field translation.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"talent-engine/internal/domain"
)

const (
	pathToken        = "/api/token"
	pathApplications = "/api/applications"
	pathJobOpenings  = "/api/applications/jobOpenings"
	pathMeetings     = "/api/applications/scheduleMeet"
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int

	// APIKey fetches the x-api-key value (keyring-backed in production).
	APIKey func() (string, error)
}

type Client struct {
	base   string
	hc     *http.Client
	lim    *rate.Limiter
	apiKey func() (string, error)

	mu    sync.Mutex
	token string
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	rps := opts.RatePerSec
	if rps <= 0 {
		rps = 5
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 2
	}
	return &Client{
		base:   opts.BaseURL,
		hc:     &http.Client{Timeout: timeout},
		lim:    rate.NewLimiter(rate.Limit(rps), burst),
		apiKey: opts.APIKey,
	}
}

// bearer returns the cached token, fetching one if needed. The API hands out
// tokens at GET /api/token against the x-api-key header.
func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	key, err := c.apiKey()
	if err != nil {
		return "", &Error{Status: 0, Message: "api key unavailable: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+pathToken, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", key)

	res, err := c.hc.Do(req)
	if err != nil {
		return "", &Error{Status: 0, Message: err.Error()}
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", readError(res)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", &Error{Status: 0, Message: "token decode: " + err.Error()}
	}
	if body.Token == "" {
		return "", &Error{Status: 0, Message: "token endpoint returned empty token"}
	}
	c.token = body.Token
	return c.token, nil
}

func (c *Client) dropToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// do runs one authenticated call. A 401 drops the cached token and retries
// once with a fresh one.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	for attempt := 0; ; attempt++ {
		if err := c.lim.Wait(ctx); err != nil {
			return &Error{Status: 0, Message: err.Error()}
		}
		tok, err := c.bearer(ctx)
		if err != nil {
			return err
		}

		var rdr io.Reader
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Content-Type", "application/json")

		res, err := c.hc.Do(req)
		if err != nil {
			return &Error{Status: 0, Message: err.Error()}
		}

		if res.StatusCode == http.StatusUnauthorized && attempt == 0 {
			io.Copy(io.Discard, res.Body)
			res.Body.Close()
			c.dropToken()
			continue
		}

		if res.StatusCode >= 400 {
			e := readError(res)
			res.Body.Close()
			return e
		}

		if out != nil {
			err = json.NewDecoder(res.Body).Decode(out)
		}
		res.Body.Close()
		if err != nil {
			return &Error{Status: 0, Message: fmt.Sprintf("%s %s decode: %v", method, path, err)}
		}
		return nil
	}
}

func readError(res *http.Response) *Error {
	msg := res.Status
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if b, err := io.ReadAll(io.LimitReader(res.Body, 4096)); err == nil && len(b) > 0 {
		if json.Unmarshal(b, &body) == nil {
			if body.Message != "" {
				msg = body.Message
			} else if body.Error != "" {
				msg = body.Error
			}
		}
	}
	return &Error{Status: res.StatusCode, Message: msg}
}

type createResponse struct {
	ID flexString `json:"id"`
}

// --- applications (candidates) ---

func (c *Client) ListApplications(ctx context.Context) ([]domain.Candidate, error) {
	var wire []wireApplication
	if err := c.do(ctx, http.MethodGet, pathApplications, nil, &wire); err != nil {
		return nil, err
	}
	out := make([]domain.Candidate, 0, len(wire))
	for _, w := range wire {
		out = append(out, mapApplication(w))
	}
	return out, nil
}

func (c *Client) InsertApplication(ctx context.Context, cand domain.Candidate) (string, error) {
	var res createResponse
	if err := c.do(ctx, http.MethodPost, pathApplications, applicationToWire(cand), &res); err != nil {
		return "", err
	}
	return string(res.ID), nil
}

func (c *Client) UpdateApplication(ctx context.Context, id string, patch map[string]any) error {
	return c.do(ctx, http.MethodPatch, pathApplications+"/"+id, ApplicationPatchToWire(patch), nil)
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathApplications+"/"+id, nil, nil)
}

// --- job openings (demands) ---

func (c *Client) ListJobOpenings(ctx context.Context) ([]domain.Demand, error) {
	var out []domain.Demand
	if err := c.do(ctx, http.MethodGet, pathJobOpenings, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateJobOpening(ctx context.Context, d domain.Demand) (string, error) {
	var res createResponse
	if err := c.do(ctx, http.MethodPost, pathJobOpenings, d, &res); err != nil {
		return "", err
	}
	return string(res.ID), nil
}

func (c *Client) UpdateJobOpening(ctx context.Context, id string, patch map[string]any) error {
	return c.do(ctx, http.MethodPatch, pathJobOpenings+"/"+id, patch, nil)
}

func (c *Client) DeleteJobOpening(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathJobOpenings+"/"+id, nil, nil)
}

// --- scheduled meetings (interviews) ---

func (c *Client) ListMeetings(ctx context.Context) ([]domain.Interview, error) {
	var out []domain.Interview
	if err := c.do(ctx, http.MethodGet, pathMeetings, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ScheduleMeeting(ctx context.Context, iv domain.Interview) (string, error) {
	var res createResponse
	if err := c.do(ctx, http.MethodPost, pathMeetings, iv, &res); err != nil {
		return "", err
	}
	return string(res.ID), nil
}

func (c *Client) UpdateMeeting(ctx context.Context, id string, patch map[string]any) error {
	return c.do(ctx, http.MethodPatch, pathMeetings+"/"+id, patch, nil)
}

func (c *Client) DeleteMeeting(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathMeetings+"/"+id, nil, nil)
}
