/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package httputil contains the retrying HTTP client used to probe the
// endpoints referenced by a configuration record.
package httputil

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// ClientOptions controls timeouts and retries of NewRetryClient.
type ClientOptions struct {
	Timeout      time.Duration // Per-request timeout (0 for none).
	RetryCount   int           // Number of retries after the first attempt.
	RetryWait    time.Duration // Initial wait between retries.
	RetryMaxWait time.Duration // Maximum wait between retries.
}

// DefaultClientOptions are used by the check command unless overridden.
var DefaultClientOptions = ClientOptions{
	Timeout:      10 * time.Second,
	RetryCount:   3,
	RetryWait:    1 * time.Second,
	RetryMaxWait: 8 * time.Second,
}

// isRetryableError checks if an error or status code should trigger a retry.
func isRetryableError(resp *resty.Response, err error) bool {
	if err != nil {
		return true // Network errors are generally transient
	}
	if resp == nil {
		return true
	}
	// Retry on server errors and rate limiting
	statusCode := resp.StatusCode()
	return statusCode == 429 || statusCode == 500 || statusCode == 502 || statusCode == 503 || statusCode == 504
}

// NewRetryClient creates an unauthenticated resty client with retry logic.
func NewRetryClient(opts ClientOptions) *resty.Client {
	client := resty.New().
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.RetryMaxWait).
		AddRetryCondition(isRetryableError).
		AddRetryHook(func(resp *resty.Response, err error) {
			if err != nil {
				log.Warn().Msgf("Request failed with error, retrying: %v", err)
			} else if resp != nil {
				log.Warn().Msgf("Request to %s failed with status %d, retrying...", resp.Request.URL, resp.StatusCode())
			}
		})
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	return client
}

// ProbeResult is the outcome of probing a single URL.
type ProbeResult struct {
	Name       string        // What was probed, eg, 'apiServerUrl'.
	URL        string        // URL that was requested.
	StatusCode int           // HTTP status of the final attempt (0 if no response).
	Latency    time.Duration // Duration of the final attempt.
	Size       int64         // Response body size in bytes.
	Err        error         // Set if the endpoint is considered unreachable.
}

// Reachable tells whether the endpoint answered without a network error or a
// server error. Client errors (eg, 401 or 404 on the API root) still prove
// the server is up.
func (r ProbeResult) Reachable() bool {
	return r.Err == nil
}

// Prober issues GET requests against configured endpoints.
type Prober struct {
	client *resty.Client
}

// NewProber creates a Prober on top of NewRetryClient.
func NewProber(opts ClientOptions) *Prober {
	return &Prober{client: NewRetryClient(opts)}
}

// Probe performs a GET on url and reports reachability and latency.
func (p *Prober) Probe(ctx context.Context, name string, url string) ProbeResult {
	result := ProbeResult{Name: name, URL: url}

	resp, err := p.client.R().SetContext(ctx).Get(url)
	if resp != nil {
		result.StatusCode = resp.StatusCode()
		result.Latency = resp.Time()
		result.Size = resp.Size()
	}
	if err != nil {
		result.Err = fmt.Errorf("GET request to %s failed: %w", url, err)
		return result
	}
	if result.StatusCode >= http.StatusInternalServerError {
		result.Err = fmt.Errorf("GET %s failed with status %d", url, result.StatusCode)
	}

	log.Debug().Msgf("Probed %s (%s): status=%d latency=%s", name, url, result.StatusCode, result.Latency)
	return result
}

// DiscoveryResult is the outcome of checking an OpenID discovery document.
type DiscoveryResult struct {
	ProbeResult
	Issuer  string // 'issuer' advertised by the document.
	JWKSURI string // 'jwks_uri' advertised by the document.
}

// CheckDiscovery fetches the OpenID configuration at discoveryURL and checks
// that it advertises expectedIssuer.
func (p *Prober) CheckDiscovery(ctx context.Context, discoveryURL string, expectedIssuer string) DiscoveryResult {
	result := DiscoveryResult{ProbeResult: ProbeResult{Name: "auth0 discovery", URL: discoveryURL}}

	resp, err := p.client.R().SetContext(ctx).Get(discoveryURL)
	if resp != nil {
		result.StatusCode = resp.StatusCode()
		result.Latency = resp.Time()
		result.Size = resp.Size()
	}
	if err != nil {
		result.Err = fmt.Errorf("GET request to %s failed: %w", discoveryURL, err)
		return result
	}
	if resp.StatusCode() != http.StatusOK {
		result.Err = fmt.Errorf("GET %s failed with status %d", discoveryURL, resp.StatusCode())
		return result
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		result.Err = fmt.Errorf("discovery document at %s is not valid JSON", discoveryURL)
		return result
	}
	result.Issuer = gjson.GetBytes(body, "issuer").String()
	result.JWKSURI = gjson.GetBytes(body, "jwks_uri").String()

	if result.Issuer != expectedIssuer {
		result.Err = fmt.Errorf("discovery document advertises issuer '%s', expected '%s'", result.Issuer, expectedIssuer)
	}
	return result
}
