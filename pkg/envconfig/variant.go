/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Variant is a named build target of the front-end. The set is closed: only
// the constants below are valid.
type Variant string

const (
	VariantDevelopment Variant = "development"
	VariantProduction  Variant = "production"
)

// All variants, in the order they are listed to users.
var allVariants = []Variant{
	VariantDevelopment,
	VariantProduction,
}

// Accepted spellings on the command line and in config files.
var variantAliases = map[string]Variant{
	"development": VariantDevelopment,
	"dev":         VariantDevelopment,
	"production":  VariantProduction,
	"prod":        VariantProduction,
}

// Mapping from variant to the front-end environment file it is compiled into.
var variantFileNames = map[Variant]string{
	VariantDevelopment: "environment.ts",
	VariantProduction:  "environment.prod.ts",
}

var _ pflag.Value = (*Variant)(nil)

// AllVariants returns every known variant.
func AllVariants() []Variant {
	return append([]Variant(nil), allVariants...)
}

// ParseVariant resolves a variant name or alias (case-insensitive).
func ParseVariant(name string) (Variant, error) {
	variant, found := variantAliases[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		names := make([]string, 0, len(allVariants))
		for _, v := range allVariants {
			names = append(names, string(v))
		}
		return "", fmt.Errorf("unknown variant '%s', the valid variants are: %s", name, strings.Join(names, ", "))
	}
	return variant, nil
}

func (v Variant) String() string {
	return string(v)
}

// IsValid checks that v is one of the known variants.
func (v Variant) IsValid() bool {
	_, found := variantFileNames[v]
	return found
}

func (v Variant) IsProduction() bool {
	return v == VariantProduction
}

// FileName returns the name of the front-end environment file for this
// variant, eg, 'environment.prod.ts'.
func (v Variant) FileName() string {
	return variantFileNames[v]
}

// Set implements pflag.Value.
func (v *Variant) Set(name string) error {
	parsed, err := ParseVariant(name)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Type implements pflag.Value.
func (v *Variant) Type() string {
	return "variant"
}
