/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Name of the envctl config file.
const ConfigFileName = "envctl.yaml"

// Schema version written by this version of envctl.
const CurrentSchemaVersion = "1.0"

// Range of schema versions this version of envctl can read.
var supportedSchemaVersions = mustConstraints(">= 1.0, < 2.0")

// ErrConfigFileNotFound is returned by FindConfigFile when no config file
// exists in the directory or any of its parents.
var ErrConfigFileNotFound = errors.New("envctl.yaml not found in any parent directory")

func mustConstraints(constraint string) version.Constraints {
	constraints, err := version.NewConstraint(constraint)
	if err != nil {
		panic(err)
	}
	return constraints
}

// On-disk shape of a single variant. Pointers are used to tell missing
// blocks apart from zero values.
type fileVariant struct {
	Production   *bool       `yaml:"production"`
	APIServerURL string      `yaml:"apiServerUrl"`
	Auth0        *AuthConfig `yaml:"auth0"`
}

// On-disk shape of envctl.yaml.
type fileDocument struct {
	SchemaVersion string                 `yaml:"schemaVersion"`
	Variants      map[string]fileVariant `yaml:"variants"`
}

// ConfigFile is a parsed and validated envctl.yaml. Variants missing from the
// file fall back to the built-in records.
type ConfigFile struct {
	Path          string           // Path the file was loaded from (empty when parsed from memory).
	ModTime       time.Time        // Last modification time of the file.
	SchemaVersion *version.Version // Parsed schemaVersion.

	records map[Variant]EnvironmentConfig
	defined map[Variant]bool
}

// LoadFile reads, parses and validates the config file at path.
func LoadFile(path string) (*ConfigFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("the config path '%s' is a directory, expecting a file", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	configFile, err := ParseConfigFile(content)
	if err != nil {
		return nil, fmt.Errorf("failed to validate %s: %w", path, err)
	}
	configFile.Path = path
	configFile.ModTime = info.ModTime()

	log.Debug().Msgf("Loaded config file %s (schema v%s)", path, configFile.SchemaVersion)
	return configFile, nil
}

// ParseConfigFile parses and validates envctl.yaml content.
func ParseConfigFile(content []byte) (*ConfigFile, error) {
	var doc fileDocument
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config file is empty")
		}
		return nil, err
	}

	// Check schema version.
	if doc.SchemaVersion == "" {
		return nil, fmt.Errorf("missing required field 'schemaVersion'")
	}
	schemaVersion, err := version.NewVersion(doc.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid schemaVersion '%s': %w", doc.SchemaVersion, err)
	}
	if !supportedSchemaVersions.Check(schemaVersion) {
		return nil, fmt.Errorf("unsupported schemaVersion '%s', this version of envctl supports %s", doc.SchemaVersion, supportedSchemaVersions)
	}

	configFile := &ConfigFile{
		SchemaVersion: schemaVersion,
		records:       Builtins(),
		defined:       map[Variant]bool{},
	}

	// Iterate in a stable order so the first reported error is deterministic.
	names := make([]string, 0, len(doc.Variants))
	for name := range doc.Variants {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		variant := Variant(name)
		if !variant.IsValid() {
			return nil, fmt.Errorf("unknown variant '%s' in 'variants', the valid variants are: %s", name, variantList())
		}

		cfg, err := doc.Variants[name].toConfig(variant)
		if err != nil {
			return nil, fmt.Errorf("variant '%s': %w", name, err)
		}
		configFile.records[variant] = cfg
		configFile.defined[variant] = true
	}

	return configFile, nil
}

func (fv fileVariant) toConfig(variant Variant) (EnvironmentConfig, error) {
	if fv.Production == nil {
		return EnvironmentConfig{}, &FieldError{Field: "production", Reason: "is required"}
	}
	if *fv.Production != variant.IsProduction() {
		return EnvironmentConfig{}, &FieldError{Field: "production", Value: strconv.FormatBool(*fv.Production), Reason: fmt.Sprintf("must be %t for the '%s' variant", variant.IsProduction(), variant)}
	}
	if fv.Auth0 == nil {
		return EnvironmentConfig{}, &FieldError{Field: "auth0", Reason: "is required"}
	}

	cfg := EnvironmentConfig{
		Production:   *fv.Production,
		APIServerURL: fv.APIServerURL,
		Auth0:        *fv.Auth0,
	}
	if err := cfg.Validate(); err != nil {
		return EnvironmentConfig{}, err
	}
	return cfg, nil
}

func variantList() string {
	names := make([]string, 0, len(allVariants))
	for _, v := range allVariants {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

// Variant returns the record for the variant from the file, or the built-in
// record if the file does not define it.
func (f *ConfigFile) Variant(variant Variant) (EnvironmentConfig, error) {
	cfg, found := f.records[variant]
	if !found {
		return EnvironmentConfig{}, fmt.Errorf("unknown variant '%s'", variant)
	}
	return cfg, nil
}

// Defines checks whether the file itself defines the variant.
func (f *ConfigFile) Defines(variant Variant) bool {
	return f.defined[variant]
}

// FindConfigFile walks from startDir towards the filesystem root and returns
// the path of the first envctl.yaml found.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		configFilePath := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(configFilePath); err == nil && !info.IsDir() {
			log.Debug().Msgf("Found %s in directory '%s'", ConfigFileName, dir)
			return configFilePath, nil
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", ErrConfigFileNotFound
		}
		dir = parentDir
	}
}

var configFileTemplate = template.Must(template.New("envctl config").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`# envctl configuration: deployment constants for the Coffee Shop front-end.
# Each variant is compiled into src/environments/<file> by 'envctl generate'.
schemaVersion: {{quote .SchemaVersion}}

variants:
{{- range .Variants}}
  # Compiled into {{.FileName}}.
  {{.Name}}:
    production: {{.Config.Production}}
    # Base URL of the backend API server.
    apiServerUrl: {{quote .Config.APIServerURL}}
    auth0:
      # Auth0 tenant domain prefix (without '.auth0.com').
      url: {{quote .Config.Auth0.URL}}
      # API identifier configured for the Auth0 API.
      audience: {{quote .Config.Auth0.Audience}}
      # Client ID of the Auth0 application.
      clientId: {{quote .Config.Auth0.ClientID}}
      # Must match an allowed callback URL of the Auth0 application.
      callbackURL: {{quote .Config.Auth0.CallbackURL}}
{{- end}}
`))

// RenderConfigFileYAML renders a commented envctl.yaml containing the given
// records. The output is parsed back to make sure it is valid.
func RenderConfigFileYAML(records map[Variant]EnvironmentConfig) (string, error) {
	type variantData struct {
		Name     Variant
		FileName string
		Config   EnvironmentConfig
	}
	data := struct {
		SchemaVersion string
		Variants      []variantData
	}{
		SchemaVersion: CurrentSchemaVersion,
	}
	for _, variant := range allVariants {
		cfg, found := records[variant]
		if !found {
			continue
		}
		data.Variants = append(data.Variants, variantData{Name: variant, FileName: variant.FileName(), Config: cfg})
	}

	var result strings.Builder
	if err := configFileTemplate.Execute(&result, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", ConfigFileName, err)
	}

	if _, err := ParseConfigFile([]byte(result.String())); err != nil {
		return "", fmt.Errorf("failed to parse generated %s: %w\nFull YAML:\n%s", ConfigFileName, err, result.String())
	}

	return result.String(), nil
}
