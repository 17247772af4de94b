/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *EnvironmentConfig)
		failField string // Empty when the record is expected to be valid.
	}{
		{"development", func(cfg *EnvironmentConfig) {}, ""},
		{"https api", func(cfg *EnvironmentConfig) { cfg.APIServerURL = "https://api.coffeeshop.dev/v1" }, ""},
		{"full tenant domain", func(cfg *EnvironmentConfig) { cfg.Auth0.URL = "coffee.eu.auth0.com" }, ""},
		{"urn audience", func(cfg *EnvironmentConfig) { cfg.Auth0.Audience = "urn:coffeeshop:api" }, ""},

		// Missing fields.
		{"missing api url", func(cfg *EnvironmentConfig) { cfg.APIServerURL = "" }, "apiServerUrl"},
		{"missing domain", func(cfg *EnvironmentConfig) { cfg.Auth0.URL = "" }, "auth0.url"},
		{"missing audience", func(cfg *EnvironmentConfig) { cfg.Auth0.Audience = "" }, "auth0.audience"},
		{"missing client id", func(cfg *EnvironmentConfig) { cfg.Auth0.ClientID = "" }, "auth0.clientId"},
		{"missing callback", func(cfg *EnvironmentConfig) { cfg.Auth0.CallbackURL = "" }, "auth0.callbackURL"},

		// Malformed URLs.
		{"relative api url", func(cfg *EnvironmentConfig) { cfg.APIServerURL = "/api" }, "apiServerUrl"},
		{"api url without scheme", func(cfg *EnvironmentConfig) { cfg.APIServerURL = "172.30.10.126:5000" }, "apiServerUrl"},
		{"ftp api url", func(cfg *EnvironmentConfig) { cfg.APIServerURL = "ftp://files.coffeeshop.dev" }, "apiServerUrl"},
		{"api url without host", func(cfg *EnvironmentConfig) { cfg.APIServerURL = "http://" }, "apiServerUrl"},
		{"relative callback", func(cfg *EnvironmentConfig) { cfg.Auth0.CallbackURL = "localhost:4200" }, "auth0.callbackURL"},
		{"callback with space", func(cfg *EnvironmentConfig) { cfg.Auth0.CallbackURL = "http://x.com/a b" }, "auth0.callbackURL"},
		{"api url with tab", func(cfg *EnvironmentConfig) { cfg.APIServerURL = "http://x.com/\tapi" }, "apiServerUrl"},
		{"api url with trailing newline", func(cfg *EnvironmentConfig) { cfg.APIServerURL = "http://x.com/\n" }, "apiServerUrl"},

		// Malformed domain.
		{"domain with scheme", func(cfg *EnvironmentConfig) { cfg.Auth0.URL = "https://coffee.auth0.com" }, "auth0.url"},
		{"domain with path", func(cfg *EnvironmentConfig) { cfg.Auth0.URL = "coffee.auth0.com/authorize" }, "auth0.url"},
		{"domain with port", func(cfg *EnvironmentConfig) { cfg.Auth0.URL = "coffee.auth0.com:443" }, "auth0.url"},
		{"domain with empty label", func(cfg *EnvironmentConfig) { cfg.Auth0.URL = "coffee..us" }, "auth0.url"},
		{"domain with underscore", func(cfg *EnvironmentConfig) { cfg.Auth0.URL = "coffee_shop.us" }, "auth0.url"},
		{"domain with leading dash", func(cfg *EnvironmentConfig) { cfg.Auth0.URL = "-coffee.us" }, "auth0.url"},

		// Malformed audience / client id.
		{"audience without scheme", func(cfg *EnvironmentConfig) { cfg.Auth0.Audience = "coffeeshop-api" }, "auth0.audience"},
		{"audience with spaces", func(cfg *EnvironmentConfig) { cfg.Auth0.Audience = "http://local host" }, "auth0.audience"},
		{"client id with spaces", func(cfg *EnvironmentConfig) { cfg.Auth0.ClientID = "abc def" }, "auth0.clientId"},
		{"client id with symbols", func(cfg *EnvironmentConfig) { cfg.Auth0.ClientID = "abc$def" }, "auth0.clientId"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Development()
			test.mutate(&cfg)

			err := cfg.Validate()
			if test.failField == "" {
				if err != nil {
					t.Fatalf("expected valid record, got %v", err)
				}
				return
			}

			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("expected *FieldError for '%s', got %v", test.failField, err)
			}
			if fieldErr.Field != test.failField {
				t.Errorf("expected failure in '%s', got '%s' (%v)", test.failField, fieldErr.Field, err)
			}
		})
	}
}

func TestFieldErrorMessage(t *testing.T) {
	missing := &FieldError{Field: "auth0.clientId", Reason: "is required"}
	if missing.Error() != "'auth0.clientId' is required" {
		t.Errorf("unexpected message: %s", missing.Error())
	}

	invalid := &FieldError{Field: "apiServerUrl", Value: "/api", Reason: "must use http or https scheme"}
	if invalid.Error() != "invalid 'apiServerUrl' ('/api'): must use http or https scheme" {
		t.Errorf("unexpected message: %s", invalid.Error())
	}
}

func TestMissingFieldsOrder(t *testing.T) {
	missing := EnvironmentConfig{}.MissingFields()
	expected := []string{"apiServerUrl", "auth0.url", "auth0.audience", "auth0.clientId", "auth0.callbackURL"}
	if len(missing) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, missing)
	}
	for i := range expected {
		if missing[i] != expected[i] {
			t.Errorf("expected %v, got %v", expected, missing)
			break
		}
	}

	if SameShape(Development(), EnvironmentConfig{}) {
		t.Error("expected an empty record to not have the same shape as a complete one")
	}
}
