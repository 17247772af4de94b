/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Format is a machine-readable rendering of a record.
type Format string

const (
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatTypeScript Format = "ts"
	FormatDotenv     Format = "dotenv"
)

var allFormats = []Format{FormatJSON, FormatYAML, FormatTypeScript, FormatDotenv}

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	for _, format := range allFormats {
		if string(format) == name {
			return format, nil
		}
	}
	if name == "typescript" {
		return FormatTypeScript, nil
	}
	names := make([]string, 0, len(allFormats))
	for _, format := range allFormats {
		names = append(names, "'"+string(format)+"'")
	}
	return "", fmt.Errorf("invalid format '%s', must be one of %s", name, strings.Join(names, ", "))
}

// Render renders cfg (resolved for variant) in the given format.
func Render(format Format, variant Variant, cfg EnvironmentConfig) ([]byte, error) {
	switch format {
	case FormatJSON:
		return RenderJSON(cfg)
	case FormatYAML:
		return RenderYAML(cfg)
	case FormatTypeScript:
		ts, err := RenderTypeScript(variant, cfg)
		return []byte(ts), err
	case FormatDotenv:
		env, err := RenderDotenv(cfg)
		return []byte(env), err
	default:
		return nil, fmt.Errorf("unsupported format '%s'", format)
	}
}

var typeScriptTemplate = template.Must(template.New("environment.ts").Funcs(template.FuncMap{
	"tsString": tsString,
}).Parse(`/* Generated by envctl from the '{{.Variant}}' variant, do not edit.
 * Update envctl.yaml and run 'envctl generate' instead.
 */

export const environment = {
  production: {{.Config.Production}},
  apiServerUrl: {{tsString .Config.APIServerURL}}, // the running API server url
  auth0: {
    url: {{tsString .Config.Auth0.URL}}, // the auth0 domain prefix
    audience: {{tsString .Config.Auth0.Audience}}, // the audience set for the auth0 app
    clientId: {{tsString .Config.Auth0.ClientID}}, // the client id generated for the auth0 app
    callbackURL: {{tsString .Config.Auth0.CallbackURL}}, // the base url of the running front-end application
  }
};
`))

// tsString renders s as a single-quoted TypeScript string literal.
func tsString(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\u2028", `\u2028`, "\u2029", `\u2029`)
	return "'" + replacer.Replace(s) + "'"
}

// RenderTypeScript renders the record as an Angular/Ionic environment module
// (src/environments/environment*.ts).
func RenderTypeScript(variant Variant, cfg EnvironmentConfig) (string, error) {
	data := struct {
		Variant Variant
		Config  EnvironmentConfig
	}{
		Variant: variant,
		Config:  cfg,
	}

	var result strings.Builder
	if err := typeScriptTemplate.Execute(&result, data); err != nil {
		return "", fmt.Errorf("failed to render environment module: %w", err)
	}
	return result.String(), nil
}

// RenderJSON renders the record as an indented JSON object, keys in
// canonical field order.
func RenderJSON(cfg EnvironmentConfig) ([]byte, error) {
	doc, err := renderCompactJSON(cfg)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, doc, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func renderCompactJSON(cfg EnvironmentConfig) ([]byte, error) {
	values := []struct {
		path  string
		value any
	}{
		{"production", cfg.Production},
		{"apiServerUrl", cfg.APIServerURL},
		{"auth0.url", cfg.Auth0.URL},
		{"auth0.audience", cfg.Auth0.Audience},
		{"auth0.clientId", cfg.Auth0.ClientID},
		{"auth0.callbackURL", cfg.Auth0.CallbackURL},
	}

	doc := []byte("{}")
	for _, v := range values {
		var err error
		doc, err = sjson.SetBytes(doc, v.path, v.value)
		if err != nil {
			return nil, fmt.Errorf("failed to set '%s' in JSON: %w", v.path, err)
		}
	}
	return doc, nil
}

// RenderYAML renders the record as a YAML document.
func RenderYAML(cfg EnvironmentConfig) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return out, nil
}

// RenderDotenv renders the record as KEY=value lines using the environment
// variable names understood by the loader.
func RenderDotenv(cfg EnvironmentConfig) (string, error) {
	env := map[string]string{}
	walkEnvFields(&cfg, func(envVar string, value string, _ func(string) error) {
		env[envVar] = value
	})

	out, err := godotenv.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("failed to render dotenv: %w", err)
	}
	return out + "\n", nil
}

// Lookup returns a single field of cfg by its dotted path, eg, 'auth0.clientId'.
func Lookup(cfg EnvironmentConfig, path string) (string, error) {
	if !IsKnownField(path) {
		return "", fmt.Errorf("unknown field '%s', the valid fields are: %s", path, strings.Join(fieldPaths, ", "))
	}

	doc, err := renderCompactJSON(cfg)
	if err != nil {
		return "", err
	}
	result := gjson.GetBytes(doc, path)
	if !result.Exists() {
		return "", fmt.Errorf("field '%s' not present in record", path)
	}
	return result.String(), nil
}

// FieldDiff is a single field that differs between two records.
type FieldDiff struct {
	Field string
	Left  string
	Right string
}

// Diff compares two records field by field and returns the differing
// fields in canonical order.
func Diff(left, right EnvironmentConfig) ([]FieldDiff, error) {
	leftDoc, err := renderCompactJSON(left)
	if err != nil {
		return nil, err
	}
	rightDoc, err := renderCompactJSON(right)
	if err != nil {
		return nil, err
	}

	diffs := []FieldDiff{}
	for _, path := range fieldPaths {
		l := gjson.GetBytes(leftDoc, path)
		r := gjson.GetBytes(rightDoc, path)
		if l.Raw != r.Raw {
			diffs = append(diffs, FieldDiff{Field: path, Left: l.String(), Right: r.String()})
		}
	}
	return diffs, nil
}

// formatBool is used for env values and YAML edits so both agree on spelling.
func formatBool(b bool) string {
	return strconv.FormatBool(b)
}
