// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP fetch helpers used to call the
// beacon services. Requests are issued once; there is no retry or cache.
package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// maxBody bounds how much of a reply is read.
const maxBody = 64 << 20

// StatusError reports a reply with a status other than 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned HTTP %d", e.URL, e.StatusCode)
}

// Fetcher issues GET requests with a shared client and User-Agent.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Log       zerolog.Logger
}

// NewFetcher returns a Fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client, userAgent string, log zerolog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{Client: client, UserAgent: userAgent, Log: log}
}

// GetText fetches url and returns the body. It is used for SVG plots and
// for services that answer JSON with a non-JSON content type.
func (f *Fetcher) GetText(ctx context.Context, url string) (string, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetJSON fetches url and decodes the JSON reply into v.
func (f *Fetcher) GetJSON(ctx context.Context, url string, v any) error {
	body, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing reply from %s: %w", url, err)
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	f.Log.Info().Str("url", url).Msg("Fetching data")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading reply from %s: %w", url, err)
	}
	return body, nil
}

// TryFetch decodes the JSON reply of url into a T. When the fetch or the
// decoding fails and fallback is non-nil, the failure is logged and
// *fallback is returned instead.
func TryFetch[T any](ctx context.Context, f *Fetcher, url string, fallback *T) (T, error) {
	var v T
	err := f.GetJSON(ctx, url, &v)
	if err == nil {
		return v, nil
	}
	f.Log.Error().Err(err).Str("url", url).Msg("Could not fetch")
	if fallback == nil {
		return v, err
	}
	f.Log.Warn().Interface("fallback", *fallback).Msg("Using fallback")
	return *fallback, nil
}
