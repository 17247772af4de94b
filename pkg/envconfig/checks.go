/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// PlaceholderWarning flags a value that looks like it was never replaced
// with a real deployment value.
type PlaceholderWarning struct {
	Field  string
	Value  string
	Reason string
}

func (w PlaceholderWarning) String() string {
	return fmt.Sprintf("%s ('%s'): %s", w.Field, w.Value, w.Reason)
}

// Sample values shipped with the development variant. Real deployments are
// expected to register their own Auth0 tenant and application.
var sampleValues = map[string]string{
	"auth0.url":      "secure-app-trust-me.us",
	"auth0.clientId": defaultClientID,
}

// Markers that are commonly left in templates.
var placeholderMarkers = []string{"todo", "changeme", "change-me", "your_", "your-", "replace", "xxx"}

// Top-level domains and second-level domains reserved for documentation (RFC 2606, RFC 6761).
var reservedDomains = []string{"example.com", "example.net", "example.org"}
var reservedTLDs = []string{"example", "test", "invalid", "localhost"}

// isReservedHost checks whether host belongs to a domain that can never
// resolve to a real deployment.
func isReservedHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, domain := range reservedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	for _, tld := range reservedTLDs {
		if host == tld {
			// Plain 'localhost' is a legitimate development host.
			continue
		}
		if strings.HasSuffix(host, "."+tld) {
			return true
		}
	}
	return false
}

// hostOf returns the lower-cased hostname of a URL, or "" if it does not parse.
func hostOf(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsedURL.Hostname())
}

// CheckPlaceholders scans the record for values that look like unreplaced
// placeholders. The result is advisory: a record with placeholders can still
// be valid.
func (cfg EnvironmentConfig) CheckPlaceholders() []PlaceholderWarning {
	warnings := []PlaceholderWarning{}

	values := []struct {
		field string
		value string
		host  string
	}{
		{"apiServerUrl", cfg.APIServerURL, hostOf(cfg.APIServerURL)},
		{"auth0.url", cfg.Auth0.URL, strings.ToLower(cfg.Auth0.URL)},
		{"auth0.audience", cfg.Auth0.Audience, hostOf(cfg.Auth0.Audience)},
		{"auth0.clientId", cfg.Auth0.ClientID, ""},
		{"auth0.callbackURL", cfg.Auth0.CallbackURL, hostOf(cfg.Auth0.CallbackURL)},
	}

	for _, v := range values {
		if sample, found := sampleValues[v.field]; found && v.value == sample {
			warnings = append(warnings, PlaceholderWarning{Field: v.field, Value: v.value, Reason: "is the sample value shipped with the project"})
			continue
		}

		lowered := strings.ToLower(v.value)
		marker := ""
		for _, m := range placeholderMarkers {
			if strings.Contains(lowered, m) {
				marker = m
				break
			}
		}
		if marker != "" {
			warnings = append(warnings, PlaceholderWarning{Field: v.field, Value: v.value, Reason: fmt.Sprintf("contains placeholder marker '%s'", marker)})
			continue
		}

		if v.host != "" && isReservedHost(v.host) {
			warnings = append(warnings, PlaceholderWarning{Field: v.field, Value: v.value, Reason: fmt.Sprintf("host '%s' is a reserved documentation domain", v.host)})
		}
	}

	return warnings
}

// CheckConsistency reports conventions that the record does not follow:
// the audience is expected to identify the same backend as apiServerUrl, and
// production records should not target local hosts or plain http.
func (cfg EnvironmentConfig) CheckConsistency() []string {
	issues := []string{}

	apiHost := hostOf(cfg.APIServerURL)
	audienceHost := hostOf(cfg.Auth0.Audience)
	if apiHost != "" && audienceHost != "" && apiHost != audienceHost {
		issues = append(issues, fmt.Sprintf("auth0.audience ('%s') and apiServerUrl ('%s') refer to different hosts", cfg.Auth0.Audience, cfg.APIServerURL))
	}

	if !cfg.Production {
		return issues
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"apiServerUrl", cfg.APIServerURL},
		{"auth0.callbackURL", cfg.Auth0.CallbackURL},
	} {
		parsedURL, err := url.Parse(field.value)
		if err != nil {
			continue
		}
		if parsedURL.Scheme == "http" {
			issues = append(issues, fmt.Sprintf("%s ('%s') uses plain http in a production record", field.name, field.value))
		}
		if isLocalHost(parsedURL.Hostname()) {
			issues = append(issues, fmt.Sprintf("%s ('%s') points to a local or private address in a production record", field.name, field.value))
		}
	}

	return issues
}

// isLocalHost checks for loopback names and private or link-local IPs.
func isLocalHost(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
