// Package backend is the typed client for the media CMS REST API.
//
// Every call carries the bearer token from the injected TokenSource and
// fails with ErrAuthMissing, without touching the network, when there is none.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/log"
)

// maxErrorBody bounds how much of a failed response is kept in a StatusError.
const maxErrorBody = 512

// TokenSource returns the current bearer token or "".
type TokenSource func() string

// Options configures a Client.
type Options struct {
	BaseURL    string
	Provider   string
	SubmitPath string

	// HTTP must not be intercepted: confirmed submissions go through it.
	HTTP  *http.Client
	Token TokenSource
}

// Client talks to one CMS instance.
type Client struct {
	base       *url.URL
	provider   string
	submitPath string
	http       *http.Client
	token      TokenSource
}

// New builds a client from opts.
func New(opts Options) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		return nil, errors.New("backend base URL is not configured")
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base URL %q must be absolute", baseURL)
	}

	c := &Client{
		base:       base,
		provider:   opts.Provider,
		submitPath: opts.SubmitPath,
		http:       opts.HTTP,
		token:      opts.Token,
	}
	if c.provider == "" {
		c.provider = constant.DefaultProvider
	}
	if c.submitPath == "" {
		c.submitPath = constant.SubmitPath
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.token == nil {
		c.token = func() string { return "" }
	}

	return c, nil
}

// Provider is the provider segment used in resource routes.
func (c *Client) Provider() string {
	return c.provider
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = u.Path + path
	return u.String()
}

// do issues the request and returns the raw body of a 2xx answer.
func (c *Client) do(ctx context.Context, op, method, path string, body any, authed bool) ([]byte, error) {
	var token string
	if authed {
		if token = c.token(); token == "" {
			return nil, ErrAuthMissing
		}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := log.For("backend").WithField("op", op)
	logger.Debugf("%s %s", method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.WithError(err).Warn("request failed")
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warnf("HTTP %d", resp.StatusCode)
		return nil, &StatusError{Op: op, Status: resp.StatusCode, Body: truncate(string(data), maxErrorBody)}
	}

	return data, nil
}

// getJSON decodes a 2xx answer into out.
func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	data, err := c.do(ctx, op, http.MethodGet, path, nil, true)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
