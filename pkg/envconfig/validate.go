/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// FieldError describes why a single field of a record is invalid.
type FieldError struct {
	Field  string // Dotted path of the field, eg, 'auth0.callbackURL'.
	Value  string // The offending value (empty when missing).
	Reason string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("'%s' %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid '%s' ('%s'): %s", e.Field, e.Value, e.Reason)
}

var (
	// \note: The hyphen must be the last in the class to avoid getting parsed as A-B syntax
	validAudienceChars = regexp.MustCompile(`^[a-zA-Z0-9_./:-]+$`)
	validClientID      = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	validDomainLabel   = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
)

// Validate checks that every field is present and well-formed. The first
// failure is returned as a *FieldError.
func (cfg EnvironmentConfig) Validate() error {
	if missing := cfg.MissingFields(); len(missing) > 0 {
		return &FieldError{Field: missing[0], Reason: "is required"}
	}

	if err := validateHTTPURL("apiServerUrl", cfg.APIServerURL); err != nil {
		return err
	}
	if err := validateDomain("auth0.url", cfg.Auth0.URL); err != nil {
		return err
	}
	if err := validateAudience("auth0.audience", cfg.Auth0.Audience); err != nil {
		return err
	}
	if !validClientID.MatchString(cfg.Auth0.ClientID) {
		return &FieldError{Field: "auth0.clientId", Value: cfg.Auth0.ClientID, Reason: "must contain only alphanumeric characters, underscores, and hyphens"}
	}
	if err := validateHTTPURL("auth0.callbackURL", cfg.Auth0.CallbackURL); err != nil {
		return err
	}

	return nil
}

// Check that value is an absolute http(s) URL with a host.
func validateHTTPURL(field, value string) error {
	if strings.IndexFunc(value, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return &FieldError{Field: field, Value: value, Reason: "must not contain whitespace or control characters"}
	}
	parsedURL, err := url.Parse(value)
	if err != nil {
		return &FieldError{Field: field, Value: value, Reason: fmt.Sprintf("not a valid URL: %v", err)}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &FieldError{Field: field, Value: value, Reason: "must use http or https scheme"}
	}
	if parsedURL.Host == "" || parsedURL.Hostname() == "" {
		return &FieldError{Field: field, Value: value, Reason: "must include a host"}
	}
	return nil
}

// Check that value is a URI: it must parse and carry a scheme.
func validateAudience(field, value string) error {
	if !validAudienceChars.MatchString(value) {
		return &FieldError{Field: field, Value: value, Reason: "must contain only alphanumeric characters, underscores, dots, colon, forward slashes, and hyphens"}
	}
	parsedURI, err := url.Parse(value)
	if err != nil {
		return &FieldError{Field: field, Value: value, Reason: fmt.Sprintf("not a valid URI: %v", err)}
	}
	if parsedURI.Scheme == "" {
		return &FieldError{Field: field, Value: value, Reason: "must be an absolute URI with a scheme, eg, 'https://api.example.com'"}
	}
	return nil
}

// Check that value is a bare DNS domain: no scheme, no path, no port.
func validateDomain(field, value string) error {
	if strings.Contains(value, "://") {
		return &FieldError{Field: field, Value: value, Reason: "must be a bare domain without a scheme"}
	}
	if strings.ContainsAny(value, "/:?#") {
		return &FieldError{Field: field, Value: value, Reason: "must be a bare domain without a port or path"}
	}
	if len(value) > 253 {
		return &FieldError{Field: field, Value: value, Reason: "must be at most 253 characters long"}
	}

	labels := strings.Split(strings.ToLower(value), ".")
	for ndx, label := range labels {
		if !validDomainLabel.MatchString(label) {
			return &FieldError{Field: field, Value: value, Reason: fmt.Sprintf("label %d ('%s') is not a valid DNS label", ndx+1, label)}
		}
	}
	return nil
}
