// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package beacon builds request URLs for the fixed set of beacon/bycon
// service endpoints and fetches their JSON and SVG replies.
//
// URL builders are pure; fetch methods take a context and issue exactly
// one request through httputil.Fetcher.
package beacon

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/beacon-query/internal/httputil"
	"github.com/pdiddy/beacon-query/internal/query"
	"github.com/pdiddy/beacon-query/pkg/types"
)

// Progenetix is the public deployment whose dataset listing is used
// regardless of the configured API path.
const Progenetix = "https://progenetix.org"

// HandoverIDs names the handover services a beacon response may link to.
var HandoverIDs = map[string]string{
	"cnvhistogram":    "pgx:handover:cnvhistogram",
	"biosamplesdata":  "pgx:handover:biosamplesdata",
	"progenetixtools": "pgx:handover:progenetixtools",
	"variantsdata":    "pgx:handover:variantsdata",
}

// ErrEmptyQuery is returned by lookups that would send an empty query.
var ErrEmptyQuery = errors.New("empty query")

// Client talks to one beacon deployment.
type Client struct {
	cfg   types.ClientConfig
	fetch *httputil.Fetcher
}

// New returns a Client for cfg. An empty APIPath uses
// types.DefaultAPIPath; a missing trailing slash is added.
func New(cfg types.ClientConfig, fetch *httputil.Fetcher) *Client {
	if cfg.APIPath == "" {
		cfg.APIPath = types.DefaultAPIPath
	}
	if !strings.HasSuffix(cfg.APIPath, "/") {
		cfg.APIPath += "/"
	}
	return &Client{cfg: cfg, fetch: fetch}
}

// APIPath returns the base path endpoint paths are appended to.
func (c *Client) APIPath() string { return c.cfg.APIPath }

// endpoint joins path and the encoded params onto the API path.
func (c *Client) endpoint(path string, params ...types.Param) string {
	u := c.cfg.APIPath + path
	if len(params) > 0 {
		u += "?" + query.Encode(params)
	}
	return u
}

// Proxied applies ReplaceWithProxy with the client configuration.
func (c *Client) Proxied(rawURL string) (string, error) {
	return ReplaceWithProxy(rawURL, c.cfg.UseProxy, c.cfg.APIPath)
}

// ReplaceWithProxy rewrites the origin of an absolute URL onto basePath
// when useProxy is set, so that upstream links go through the local
// proxy. Without useProxy the URL is returned unchanged.
func ReplaceWithProxy(rawURL string, useProxy bool, basePath string) (string, error) {
	if !useProxy {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("parsing %q: not an absolute URL", rawURL)
	}
	origin := u.Scheme + "://" + u.Host + "/"
	return strings.Replace(rawURL, origin, basePath, 1), nil
}

func param(key string, value any) types.Param {
	return types.Param{Key: key, Value: value}
}
