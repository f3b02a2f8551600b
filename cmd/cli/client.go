package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamed0406/geocheck/internal/check"
	"github.com/hamed0406/geocheck/internal/domain"
	"github.com/hamed0406/geocheck/internal/location"
)

// client talks to a running geocheck API.
type client struct {
	base string
	http *http.Client
}

func newClient(base string) *client {
	return &client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contact API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		msg := ae.Error
		if msg == "" {
			msg = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusConflict:
			return fmt.Errorf("%w: %s", check.ErrBusy, msg)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %s", check.ErrInvalidInput, msg)
		default:
			return fmt.Errorf("API returned %s: %s", resp.Status, msg)
		}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) Locations(ctx context.Context) (*location.Directory, error) {
	var entries []location.Entry
	if err := c.do(ctx, http.MethodGet, "/api/locations", nil, &entries); err != nil {
		return nil, err
	}
	return location.New(entries)
}

// RequestCheck satisfies check.Requester so the CLI can drive a check.Form.
func (c *client) RequestCheck(ctx context.Context, u, country, city string) (domain.CheckAttempt, error) {
	var a domain.CheckAttempt
	err := c.do(ctx, http.MethodPost, "/api/checks", map[string]string{
		"url":     u,
		"country": country,
		"city":    city,
	}, &a)
	return a, err
}

func (c *client) Get(ctx context.Context, id string) (domain.CheckAttempt, error) {
	var a domain.CheckAttempt
	err := c.do(ctx, http.MethodGet, "/api/checks/"+url.PathEscape(id), nil, &a)
	return a, err
}

func (c *client) List(ctx context.Context) ([]domain.CheckAttempt, error) {
	var all []domain.CheckAttempt
	err := c.do(ctx, http.MethodGet, "/api/checks", nil, &all)
	return all, err
}

// Await polls until the attempt leaves pending or ctx expires.
func (c *client) Await(ctx context.Context, id string, every time.Duration) (domain.CheckAttempt, error) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		a, err := c.Get(ctx, id)
		if err != nil {
			return a, err
		}
		if a.Status.Terminal() {
			return a, nil
		}
		select {
		case <-ctx.Done():
			return a, ctx.Err()
		case <-t.C:
		}
	}
}
