/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/coffeeshop/envctl/internal/version"
	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Show the version info of the application.
type VersionOpts struct {
	flagFormat string
}

func init() {
	o := VersionOpts{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information of envctl",
		Args:  cobra.NoArgs,
		Run:   runCommand(&o),
		Example: trimIndent(`
			# Print the version.
			envctl version

			# Print the full build information as JSON.
			envctl version --format=json
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagFormat, "format", "text", "Output format. Valid values are 'text' or 'json'")
}

func (o *VersionOpts) Prepare(cmd *cobra.Command, args []string) error {
	if o.flagFormat != "text" && o.flagFormat != "json" {
		return fmt.Errorf("invalid format %q, must be either 'text' or 'json'", o.flagFormat)
	}
	return nil
}

func (o *VersionOpts) Run(cmd *cobra.Command) error {
	info := version.GetBuildInfo()

	if o.flagFormat == "json" {
		type versionInfo struct {
			version.BuildInfo
			SchemaVersion string `json:"schemaVersion"`
		}
		infoJson, err := json.MarshalIndent(versionInfo{BuildInfo: info, SchemaVersion: envconfig.CurrentSchemaVersion}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		log.Info().Msg(string(infoJson))
		return nil
	}

	log.Info().Msgf("%s %s", info.AppVersion, styles.RenderMuted(fmt.Sprintf("(%s, %s, config schema v%s)", info.GitCommit, info.Platform, envconfig.CurrentSchemaVersion)))
	return nil
}
