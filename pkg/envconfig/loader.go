/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Source tells where a resolved record came from.
type Source string

const (
	SourceBuiltin Source = "built-in"
	SourceFile    Source = "file"
)

// ResolveOptions controls how Resolve builds a record.
type ResolveOptions struct {
	Variant          Variant
	File             *ConfigFile                     // Optional config file; the built-in record is used when nil.
	LookupEnv        func(key string) (string, bool) // Defaults to os.LookupEnv.
	SkipEnvOverrides bool                            // Ignore ENVCTL_* environment variables.
}

// Resolved is a record ready to hand to consumers, plus where it came from.
type Resolved struct {
	Variant   Variant
	Config    EnvironmentConfig
	Source    Source
	Overrides []string // Names of environment variables that replaced values.
}

// LoadDotenvFiles loads .env files into the process environment, in priority order:
//  1. ENV_FILE environment variable (if set, loads only this file)
//  2. .env.local (if exists)
//  3. .env
//
// Variables that are already set are never replaced. Missing files are ignored.
func LoadDotenvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	// godotenv.Load does not override, so .env.local must go first to win.
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Resolve builds the record for opts.Variant: the config file's record when
// a file is given (otherwise the built-in one), with ENVCTL_* overrides
// applied last. The result is validated.
func Resolve(opts ResolveOptions) (*Resolved, error) {
	if !opts.Variant.IsValid() {
		return nil, fmt.Errorf("unknown variant '%s'", opts.Variant)
	}

	var cfg EnvironmentConfig
	source := SourceBuiltin
	if opts.File != nil {
		var err error
		cfg, err = opts.File.Variant(opts.Variant)
		if err != nil {
			return nil, err
		}
		if opts.File.Defines(opts.Variant) {
			source = SourceFile
		}
	} else {
		cfg = MustGet(opts.Variant)
	}

	overrides := []string{}
	if !opts.SkipEnvOverrides {
		lookupEnv := opts.LookupEnv
		if lookupEnv == nil {
			lookupEnv = os.LookupEnv
		}
		var err error
		overrides, err = applyEnvOverrides(&cfg, lookupEnv)
		if err != nil {
			return nil, err
		}
		if len(overrides) > 0 {
			log.Debug().Msgf("Applied environment overrides to '%s': %v", opts.Variant, overrides)
		}
		if cfg.Production != opts.Variant.IsProduction() {
			return nil, fmt.Errorf("variant '%s' is invalid after applying %v: %w", opts.Variant, overrides, &FieldError{
				Field:  "production",
				Value:  strconv.FormatBool(cfg.Production),
				Reason: fmt.Sprintf("must be %t for the '%s' variant", opts.Variant.IsProduction(), opts.Variant),
			})
		}
	}

	if err := cfg.Validate(); err != nil {
		if len(overrides) > 0 {
			return nil, fmt.Errorf("variant '%s' is invalid after applying %v: %w", opts.Variant, overrides, err)
		}
		return nil, fmt.Errorf("variant '%s' is invalid: %w", opts.Variant, err)
	}

	return &Resolved{
		Variant:   opts.Variant,
		Config:    cfg,
		Source:    source,
		Overrides: overrides,
	}, nil
}

// EnvVarNames returns the names of all supported override variables.
func EnvVarNames() []string {
	names := []string{}
	var cfg EnvironmentConfig
	walkEnvFields(&cfg, func(envVar string, _ string, _ func(string) error) {
		names = append(names, envVar)
	})
	return names
}

// applyEnvOverrides replaces fields of cfg whose `env` tag names a set,
// non-empty variable. Returns the names of the variables that were applied.
func applyEnvOverrides(cfg *EnvironmentConfig, lookupEnv func(string) (string, bool)) ([]string, error) {
	applied := []string{}
	var firstErr error
	walkEnvFields(cfg, func(envVar string, _ string, set func(string) error) {
		if firstErr != nil {
			return
		}
		value, found := lookupEnv(envVar)
		if !found || value == "" {
			return
		}
		if err := set(value); err != nil {
			firstErr = fmt.Errorf("invalid value for %s: %w", envVar, err)
			return
		}
		applied = append(applied, envVar)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return applied, nil
}

// walkEnvFields calls fn for every field of *cfg (recursing into nested
// structs) that carries an `env` tag, in declaration order. fn receives the
// current value as a string and a setter that parses a string into the field.
func walkEnvFields(cfg any, fn func(envVar string, value string, set func(string) error)) {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	walkEnvStruct(v, fn)
}

func walkEnvStruct(v reflect.Value, fn func(envVar string, value string, set func(string) error)) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			walkEnvStruct(field, fn)
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			fn(envTag, field.String(), func(s string) error {
				field.SetString(s)
				return nil
			})
		case reflect.Bool:
			fn(envTag, formatBool(field.Bool()), func(s string) error {
				b, err := strconv.ParseBool(s)
				if err != nil {
					return fmt.Errorf("'%s' is not a boolean", s)
				}
				field.SetBool(b)
				return nil
			})
		}
	}
}
