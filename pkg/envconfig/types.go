/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package envconfig holds the deployment-specific constants of the Coffee Shop
// front-end: the backend API base URL and the Auth0 client configuration.
//
// A record is a plain value. Accessors always hand out copies, so a record
// resolved at startup can be passed to any number of readers without locking
// and without any reader being able to change what the others observe.
package envconfig

// Auth0 client configuration ($.auth0 in the front-end environment file).
// Note: When adding new fields, remember to update Validate() and fieldPaths.
type AuthConfig struct {
	URL         string `yaml:"url" json:"url" env:"ENVCTL_AUTH0_URL"`                         // Auth0 tenant domain prefix, eg, 'secure-app-trust-me.us'.
	Audience    string `yaml:"audience" json:"audience" env:"ENVCTL_AUTH0_AUDIENCE"`          // API identifier the issued tokens must be valid for.
	ClientID    string `yaml:"clientId" json:"clientId" env:"ENVCTL_AUTH0_CLIENT_ID"`          // Public client ID of the application registered in Auth0.
	CallbackURL string `yaml:"callbackURL" json:"callbackURL" env:"ENVCTL_AUTH0_CALLBACK_URL"` // Base URL of the running front-end, Auth0 redirects back here.
}

// Deployment constants for one build target of the front-end.
// Note: When adding new fields, remember to update Validate() and fieldPaths.
type EnvironmentConfig struct {
	Production   bool       `yaml:"production" json:"production" env:"ENVCTL_PRODUCTION"`         // Is this a production build (disables debug tooling)?
	APIServerURL string     `yaml:"apiServerUrl" json:"apiServerUrl" env:"ENVCTL_API_SERVER_URL"` // Base URL of the backend API, eg, 'http://172.30.10.126:5000'.
	Auth0        AuthConfig `yaml:"auth0" json:"auth0"`
}

// Canonical dotted paths of all leaf fields, in declaration order.
var fieldPaths = []string{
	"production",
	"apiServerUrl",
	"auth0.url",
	"auth0.audience",
	"auth0.clientId",
	"auth0.callbackURL",
}

// Fields returns the dotted paths of every field in an EnvironmentConfig,
// eg, 'auth0.clientId'.
func Fields() []string {
	return append([]string(nil), fieldPaths...)
}

// IsKnownField checks whether path names a leaf field of EnvironmentConfig.
func IsKnownField(path string) bool {
	for _, field := range fieldPaths {
		if field == path {
			return true
		}
	}
	return false
}

// MissingFields returns the paths of all string fields that are empty.
// The production flag is a bool and is always present.
func (cfg EnvironmentConfig) MissingFields() []string {
	values := map[string]string{
		"apiServerUrl":      cfg.APIServerURL,
		"auth0.url":         cfg.Auth0.URL,
		"auth0.audience":    cfg.Auth0.Audience,
		"auth0.clientId":    cfg.Auth0.ClientID,
		"auth0.callbackURL": cfg.Auth0.CallbackURL,
	}

	missing := []string{}
	for _, field := range fieldPaths {
		if value, isString := values[field]; isString && value == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// SameShape reports whether both records are fully populated. The field set
// and types are fixed by the Go type, so two complete records always have
// the same shape.
func SameShape(a, b EnvironmentConfig) bool {
	return len(a.MissingFields()) == 0 && len(b.MissingFields()) == 0
}
