/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/internal/tui"
	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/rs/zerolog/log"
)

// Locate the envctl.yaml config file.
// If --config is given, it is used as the file path, or as the directory
// containing envctl.yaml. Otherwise, the current directory and its parents
// are searched. Returns an empty path if no config file exists.
func findConfigFilePath() (string, error) {
	if flagConfigPath != "" {
		log.Debug().Msgf("Try to locate config file in path '%s'", flagConfigPath)
		info, err := os.Stat(flagConfigPath)
		if err != nil {
			return "", clierrors.Wrapf(err, "Config file '%s' not found", flagConfigPath).
				WithSuggestion("Check the --config path, or run 'envctl init' to create a config file")
		}

		if !info.IsDir() {
			return flagConfigPath, nil
		}

		configFilePath := filepath.Join(flagConfigPath, envconfig.ConfigFileName)
		if _, err := os.Stat(configFilePath); err != nil {
			return "", clierrors.Newf("Unable to find %s in directory '%s'", envconfig.ConfigFileName, flagConfigPath).
				WithSuggestion("Run 'envctl init' in the directory to create a config file")
		}
		return configFilePath, nil
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return "", clierrors.Wrap(err, "Failed to get current working directory")
	}

	configFilePath, err := envconfig.FindConfigFile(currentDir)
	if errors.Is(err, envconfig.ErrConfigFileNotFound) {
		log.Debug().Msgf("No %s found, using the built-in records", envconfig.ConfigFileName)
		return "", nil
	} else if err != nil {
		return "", clierrors.Wrap(err, "Failed to locate the config file")
	}

	// Return path relative to the current directory if possible
	if relPath, err := filepath.Rel(currentDir, configFilePath); err == nil {
		return relPath, nil
	}
	return configFilePath, nil
}

// Path where 'envctl init' should create the config file.
func configFileTargetPath() (string, error) {
	if flagConfigPath == "" {
		return envconfig.ConfigFileName, nil
	}
	if info, err := os.Stat(flagConfigPath); err == nil && info.IsDir() {
		return filepath.Join(flagConfigPath, envconfig.ConfigFileName), nil
	}
	return flagConfigPath, nil
}

// Load the config file, if one exists. Returns nil if there is none.
func tryLoadConfigFile() (*envconfig.ConfigFile, error) {
	configFilePath, err := findConfigFilePath()
	if err != nil || configFilePath == "" {
		return nil, err
	}

	configFile, err := envconfig.LoadFile(configFilePath)
	if err != nil {
		return nil, clierrors.WrapInvalidConfig(err, fmt.Sprintf("Config file %s is invalid", configFilePath)).
			WithSuggestion("Fix the file, or run 'envctl init --force' to recreate it from the built-in records")
	}
	return configFile, nil
}

// Load the config file, failing if there is none.
func requireConfigFile() (*envconfig.ConfigFile, error) {
	configFile, err := tryLoadConfigFile()
	if err != nil {
		return nil, err
	}
	if configFile == nil {
		return nil, clierrors.Newf("No %s found in the current directory or any of its parents", envconfig.ConfigFileName).
			WithSuggestion("Run 'envctl init' to create one, or use --config to point to it")
	}
	return configFile, nil
}

// Parse a VARIANT argument.
func parseVariantArg(name string) (envconfig.Variant, error) {
	variant, err := envconfig.ParseVariant(name)
	if err != nil {
		return "", clierrors.WrapUsageError(err, err.Error())
	}
	return variant, nil
}

// Resolve the variant to operate on: the parsed argument if given, otherwise
// chosen by the user in interactive mode.
func resolveVariant(configFile *envconfig.ConfigFile, argVariant string) (envconfig.Variant, error) {
	if argVariant != "" {
		return parseVariantArg(argVariant)
	}

	if !tui.IsInteractiveMode() {
		return "", clierrors.NewUsageError("VARIANT argument is required in non-interactive mode").
			WithSuggestion(fmt.Sprintf("Specify one of: %s", variantNames()))
	}

	return tui.ChooseVariantDialog(variantChoices(configFile))
}

func variantChoices(configFile *envconfig.ConfigFile) []tui.VariantChoice {
	choices := []tui.VariantChoice{}
	for _, variant := range envconfig.AllVariants() {
		choices = append(choices, tui.VariantChoice{Variant: variant, Source: variantSource(configFile, variant)})
	}
	return choices
}

func variantSource(configFile *envconfig.ConfigFile, variant envconfig.Variant) envconfig.Source {
	if configFile != nil && configFile.Defines(variant) {
		return envconfig.SourceFile
	}
	return envconfig.SourceBuiltin
}

func variantNames() string {
	names := []string{}
	for _, variant := range envconfig.AllVariants() {
		names = append(names, string(variant))
	}
	return strings.Join(names, ", ")
}

// Resolve the record of the variant, with environment overrides applied.
// A record that fails validation is reported as invalid configuration.
func resolveRecord(configFile *envconfig.ConfigFile, variant envconfig.Variant) (*envconfig.Resolved, error) {
	resolved, err := envconfig.Resolve(envconfig.ResolveOptions{
		Variant: variant,
		File:    configFile,
	})
	if err != nil {
		return nil, clierrors.WrapInvalidConfig(err, fmt.Sprintf("Unable to resolve the '%s' record", variant)).
			WithSuggestion(fmt.Sprintf("Check %s and the ENVCTL_* environment variables", envconfig.ConfigFileName))
	}
	return resolved, nil
}

// Load the config file (if any) and resolve the record of the variant given
// as argument, or chosen interactively.
func loadRecord(argVariant string) (*envconfig.ConfigFile, *envconfig.Resolved, error) {
	configFile, err := tryLoadConfigFile()
	if err != nil {
		return nil, nil, err
	}

	variant, err := resolveVariant(configFile, argVariant)
	if err != nil {
		return nil, nil, err
	}

	resolved, err := resolveRecord(configFile, variant)
	if err != nil {
		return nil, nil, err
	}
	return configFile, resolved, nil
}
