/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Client ID of the Coffee Shop application registered in Auth0. Shared by
// both variants.
const defaultClientID = "Po6Ec8jqb5vKsLsZ1yagnBRzwhzQP9hi"

// Built-in records compiled into the binary. Never written after package
// initialization; Get() hands out copies.
var builtinConfigs = map[Variant]EnvironmentConfig{
	VariantDevelopment: {
		Production:   false,
		APIServerURL: "http://172.30.10.126:5000",
		Auth0: AuthConfig{
			URL:         "secure-app-trust-me.us",
			Audience:    "http://localhost:5000",
			ClientID:    defaultClientID,
			CallbackURL: "http://localhost:4200",
		},
	},
	VariantProduction: {
		Production:   true,
		APIServerURL: "https://api.coffeeshop.example.com",
		Auth0: AuthConfig{
			URL:         "coffeeshop.us",
			Audience:    "https://api.coffeeshop.example.com",
			ClientID:    defaultClientID,
			CallbackURL: "https://coffeeshop.example.com",
		},
	},
}

// Get returns the built-in record for the variant.
func Get(variant Variant) (EnvironmentConfig, error) {
	cfg, found := builtinConfigs[variant]
	if !found {
		return EnvironmentConfig{}, fmt.Errorf("no built-in configuration for variant '%s'", variant)
	}
	return cfg, nil
}

// MustGet is like Get but panics on an unknown variant. Only use with the
// Variant constants.
func MustGet(variant Variant) EnvironmentConfig {
	cfg, err := Get(variant)
	if err != nil {
		log.Panic().Msgf("%v", err)
	}
	return cfg
}

// Development returns the built-in development record.
func Development() EnvironmentConfig {
	return MustGet(VariantDevelopment)
}

// ProductionConfig returns the built-in production record.
func ProductionConfig() EnvironmentConfig {
	return MustGet(VariantProduction)
}

// Builtins returns a copy of all built-in records keyed by variant.
func Builtins() map[Variant]EnvironmentConfig {
	result := make(map[Variant]EnvironmentConfig, len(builtinConfigs))
	for variant, cfg := range builtinConfigs {
		result[variant] = cfg
	}
	return result
}
