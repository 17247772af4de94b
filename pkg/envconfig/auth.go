/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"net/url"
	"strings"
)

// Auth0 hosts every tenant under this domain.
const auth0DomainSuffix = ".auth0.com"

// TenantDomain returns the full Auth0 tenant host, eg,
// 'secure-app-trust-me.us.auth0.com'.
func (a AuthConfig) TenantDomain() string {
	domain := strings.TrimSuffix(strings.ToLower(a.URL), ".")
	if strings.HasSuffix(domain, auth0DomainSuffix) {
		return domain
	}
	return domain + auth0DomainSuffix
}

// Issuer returns the expected 'iss' claim of tokens minted by the tenant.
func (a AuthConfig) Issuer() string {
	return "https://" + a.TenantDomain() + "/"
}

// JWKSURL returns the location of the tenant's signing keys.
func (a AuthConfig) JWKSURL() string {
	return a.tenantURL("/.well-known/jwks.json", nil)
}

// DiscoveryURL returns the location of the tenant's OpenID configuration.
func (a AuthConfig) DiscoveryURL() string {
	return a.tenantURL("/.well-known/openid-configuration", nil)
}

// AuthorizeURL returns the URL the front-end sends the browser to for login.
// The state parameter is omitted when empty.
func (a AuthConfig) AuthorizeURL(state string) string {
	query := url.Values{}
	query.Set("audience", a.Audience)
	query.Set("response_type", "token")
	query.Set("client_id", a.ClientID)
	query.Set("redirect_uri", a.CallbackURL)
	if state != "" {
		query.Set("state", state)
	}
	return a.tenantURL("/authorize", query)
}

// LogoutURL returns the URL that ends the Auth0 session and returns the
// browser to the callback URL.
func (a AuthConfig) LogoutURL() string {
	query := url.Values{}
	query.Set("client_id", a.ClientID)
	query.Set("returnTo", a.CallbackURL)
	return a.tenantURL("/v2/logout", query)
}

func (a AuthConfig) tenantURL(path string, query url.Values) string {
	u := url.URL{
		Scheme: "https",
		Host:   a.TenantDomain(),
		Path:   path,
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// APIEndpoint joins path segments onto apiServerUrl, eg,
// APIEndpoint("drinks", "1") -> 'http://172.30.10.126:5000/drinks/1'.
func (cfg EnvironmentConfig) APIEndpoint(elems ...string) (string, error) {
	return url.JoinPath(cfg.APIServerURL, elems...)
}
