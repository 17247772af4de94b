/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package envconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
)

// SetFieldInFile updates a single field of a variant in the config file at
// path. The file is edited through its YAML AST, so ordering, comments, and
// whitespace in the untouched parts are retained. The edited file must still
// validate, otherwise nothing is written.
func SetFieldInFile(path string, variant Variant, field string, value string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	updated, err := SetFieldInYAML(content, variant, field, value)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetFieldInYAML is the in-memory part of SetFieldInFile: it returns the
// updated YAML content.
func SetFieldInYAML(content []byte, variant Variant, field string, value string) (string, error) {
	if !variant.IsValid() {
		return "", fmt.Errorf("unknown variant '%s'", variant)
	}
	if !IsKnownField(field) {
		return "", fmt.Errorf("unknown field '%s', the valid fields are: %s", field, strings.Join(fieldPaths, ", "))
	}

	// Render the replacement scalar.
	var scalar string
	if field == "production" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("field 'production' must be 'true' or 'false', got '%s'", value)
		}
		scalar = formatBool(b)
	} else {
		scalar = strconv.Quote(value)
	}

	root, err := parser.ParseBytes(content, parser.ParseComments)
	if err != nil {
		return "", fmt.Errorf("failed to parse config file: %w", err)
	}

	fieldPath, err := yaml.PathString(fmt.Sprintf("$.variants.%s.%s", variant, field))
	if err != nil {
		return "", fmt.Errorf("failed to create path for '%s': %w", field, err)
	}

	// The field must already exist: new variants are added with 'envctl init'.
	if _, err := fieldPath.FilterFile(root); err != nil {
		return "", fmt.Errorf("variant '%s' does not define '%s' in %s: %w", variant, field, ConfigFileName, err)
	}

	if err := fieldPath.ReplaceWithReader(root, strings.NewReader(scalar)); err != nil {
		return "", fmt.Errorf("failed to replace '%s': %w", field, err)
	}

	updated := root.String()
	if !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}

	if _, err := ParseConfigFile([]byte(updated)); err != nil {
		return "", fmt.Errorf("refusing to write invalid configuration: %w", err)
	}

	return updated, nil
}
