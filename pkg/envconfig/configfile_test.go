/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testConfigYAML = `# Coffee Shop deployment constants.
schemaVersion: "1.0"

variants:
  development:
    production: false
    # LAN address of the shared test server.
    apiServerUrl: "http://10.0.0.5:5000"
    auth0:
      url: "coffee-dev.eu"
      audience: "http://10.0.0.5:5000"
      # Client ID of the Auth0 application.
      clientId: "devClient01"
      callbackURL: "http://localhost:4200"
`

func TestParseConfigFile(t *testing.T) {
	file, err := ParseConfigFile([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("ParseConfigFile failed: %v", err)
	}
	if file.SchemaVersion.String() != "1.0.0" {
		t.Errorf("expected schema version 1.0.0, got %s", file.SchemaVersion)
	}

	if !file.Defines(VariantDevelopment) {
		t.Error("expected the file to define 'development'")
	}
	if file.Defines(VariantProduction) {
		t.Error("expected the file to not define 'production'")
	}

	dev, err := file.Variant(VariantDevelopment)
	if err != nil {
		t.Fatalf("Variant(development) failed: %v", err)
	}
	expected := EnvironmentConfig{
		Production:   false,
		APIServerURL: "http://10.0.0.5:5000",
		Auth0: AuthConfig{
			URL:         "coffee-dev.eu",
			Audience:    "http://10.0.0.5:5000",
			ClientID:    "devClient01",
			CallbackURL: "http://localhost:4200",
		},
	}
	if dev != expected {
		t.Errorf("expected %+v, got %+v", expected, dev)
	}

	prod, err := file.Variant(VariantProduction)
	if err != nil {
		t.Fatalf("Variant(production) failed: %v", err)
	}
	if prod != ProductionConfig() {
		t.Errorf("expected the built-in production record, got %+v", prod)
	}
}

func TestParseConfigFileErrors(t *testing.T) {
	devBlock := `
    production: false
    apiServerUrl: "http://10.0.0.5:5000"
    auth0:
      url: "coffee-dev.eu"
      audience: "http://10.0.0.5:5000"
      clientId: "devClient01"
      callbackURL: "http://localhost:4200"
`

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty", "", "config file is empty"},
		{"missing schema version", "variants:\n  development:" + devBlock, "missing required field 'schemaVersion'"},
		{"unsupported schema version", "schemaVersion: \"2.0\"\nvariants:\n  development:" + devBlock, "unsupported schemaVersion '2.0'"},
		{"malformed schema version", "schemaVersion: \"one\"\n", "invalid schemaVersion 'one'"},
		{"unknown variant", "schemaVersion: \"1.0\"\nvariants:\n  staging:" + devBlock, "unknown variant 'staging'"},
		{"unknown top-level key", "schemaVersion: \"1.0\"\nenvironments: {}\n", "field environments not found"},
		{"misspelled field", "schemaVersion: \"1.0\"\nvariants:\n  development:" + strings.Replace(devBlock, "apiServerUrl", "apiServerURL", 1), "field apiServerURL not found"},
		{"production mismatch", "schemaVersion: \"1.0\"\nvariants:\n  production:" + devBlock, "must be true for the 'production' variant"},
		{"missing production flag", "schemaVersion: \"1.0\"\nvariants:\n  development:" + strings.Replace(devBlock, "production: false\n", "", 1), "'production' is required"},
		{"missing auth0", "schemaVersion: \"1.0\"\nvariants:\n  development:\n    production: false\n    apiServerUrl: \"http://10.0.0.5:5000\"\n", "'auth0' is required"},
		{"invalid value", "schemaVersion: \"1.0\"\nvariants:\n  development:" + strings.Replace(devBlock, "devClient01", "dev client", 1), "invalid 'auth0.clientId'"},
		{"missing value", "schemaVersion: \"1.0\"\nvariants:\n  development:" + strings.Replace(devBlock, "\"coffee-dev.eu\"", "\"\"", 1), "'auth0.url' is required"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseConfigFile([]byte(test.content))
			if err == nil {
				t.Fatalf("expected error containing '%s', got nil", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("expected error containing '%s', got: %v", test.wantErr, err)
			}
		})
	}
}

func TestRenderConfigFileYAML(t *testing.T) {
	content, err := RenderConfigFileYAML(Builtins())
	if err != nil {
		t.Fatalf("RenderConfigFileYAML failed: %v", err)
	}
	if !strings.HasPrefix(content, "# envctl configuration") {
		t.Errorf("expected header comment, got:\n%s", content)
	}
	if !strings.Contains(content, "# Compiled into environment.prod.ts.") {
		t.Errorf("expected per-variant comment, got:\n%s", content)
	}

	file, err := ParseConfigFile([]byte(content))
	if err != nil {
		t.Fatalf("rendered file does not parse: %v", err)
	}
	for _, variant := range AllVariants() {
		if !file.Defines(variant) {
			t.Errorf("expected rendered file to define '%s'", variant)
		}
		got, _ := file.Variant(variant)
		if got != MustGet(variant) {
			t.Errorf("variant '%s' did not round-trip: %+v", variant, got)
		}
	}
}

func TestRenderConfigFileYAMLQuoting(t *testing.T) {
	cfg := Development()
	cfg.Auth0.Audience = "urn:coffeeshop:api"
	content, err := RenderConfigFileYAML(map[Variant]EnvironmentConfig{VariantDevelopment: cfg})
	if err != nil {
		t.Fatalf("RenderConfigFileYAML failed: %v", err)
	}
	if strings.Contains(content, "production:\n") {
		t.Errorf("expected only the development variant, got:\n%s", content)
	}

	file, err := ParseConfigFile([]byte(content))
	if err != nil {
		t.Fatalf("rendered file does not parse: %v", err)
	}
	got, _ := file.Variant(VariantDevelopment)
	if got.Auth0.Audience != "urn:coffeeshop:api" {
		t.Errorf("expected audience to survive quoting, got '%s'", got.Auth0.Audience)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, testConfigYAML)

	file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if file.Path != path {
		t.Errorf("expected path '%s', got '%s'", path, file.Path)
	}
	if file.ModTime.IsZero() {
		t.Error("expected modification time to be set")
	}

	if _, err := LoadFile(dir); err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Errorf("expected directory error, got %v", err)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	invalidPath := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalidPath, "schemaVersion: \"3.0\"\n")
	if _, err := LoadFile(invalidPath); err == nil || !strings.Contains(err.Error(), "failed to validate") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "app", "drinks")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create directories: %v", err)
	}

	if _, err := FindConfigFile(nested); !errors.Is(err, ErrConfigFileNotFound) {
		t.Errorf("expected ErrConfigFileNotFound, got %v", err)
	}

	configPath := filepath.Join(root, ConfigFileName)
	writeFile(t, configPath, testConfigYAML)

	found, err := FindConfigFile(nested)
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}
	if found != configPath {
		t.Errorf("expected '%s', got '%s'", configPath, found)
	}

	// A directory with the config file name is skipped.
	if err := os.Mkdir(filepath.Join(nested, ConfigFileName), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	found, err = FindConfigFile(nested)
	if err != nil || found != configPath {
		t.Errorf("expected '%s', got '%s' (%v)", configPath, found, err)
	}
}
