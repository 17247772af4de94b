/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"strings"

	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const keyValueWidth = 20

// Show the resolved record of a variant.
type ShowOpts struct {
	UsePositionalArgs

	argVariant string
	flagFormat string

	format envconfig.Format // Parsed --format, empty for text.
}

func init() {
	o := ShowOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argVariant, "VARIANT", "Variant to show, eg, 'development' or 'prod'. Chosen interactively if omitted.")

	cmd := &cobra.Command{
		Use:   "show [VARIANT] [flags]",
		Short: "Show the resolved record of a variant",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Show the record of a variant after the config file and ENVCTL_* environment
			overrides have been applied.

			The text format also shows where the record comes from, the Auth0 endpoints
			derived from it, and any advisory warnings. The other formats print only the
			record, in a form suitable for piping to other tools.

			{Arguments}

			Related commands:
			- 'envctl get VARIANT FIELD' to print a single field.
			- 'envctl render VARIANT' to write a record to a file.
		`),
		Example: trimIndent(`
			# Show the development record.
			envctl show development

			# Show the production record as JSON.
			envctl show prod --format=json

			# Show the record as it would be compiled into environment.prod.ts.
			envctl show production --format=ts
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagFormat, "format", "text", "Output format. Valid values are 'text', 'json', 'yaml', 'ts' or 'dotenv'")
}

func (o *ShowOpts) Prepare(cmd *cobra.Command, args []string) error {
	if o.argVariant != "" {
		if _, err := parseVariantArg(o.argVariant); err != nil {
			return err
		}
	}

	o.format = ""
	if o.flagFormat != "text" {
		format, err := envconfig.ParseFormat(o.flagFormat)
		if err != nil {
			return fmt.Errorf("%w, or 'text'", err)
		}
		o.format = format
	}
	return nil
}

func (o *ShowOpts) Run(cmd *cobra.Command) error {
	configFile, resolved, err := loadRecord(o.argVariant)
	if err != nil {
		return err
	}

	if o.format != "" {
		output, err := envconfig.Render(o.format, resolved.Variant, resolved.Config)
		if err != nil {
			return err
		}
		log.Info().Msg(strings.TrimSuffix(string(output), "\n"))
		return nil
	}

	return logRecord(configFile, resolved)
}

func logRecord(configFile *envconfig.ConfigFile, resolved *envconfig.Resolved) error {
	cfg := resolved.Config

	log.Info().Msg(styles.RenderKeyValue("Variant", fmt.Sprintf("%s %s", styles.RenderVariant(string(resolved.Variant), resolved.Variant.IsProduction()), styles.RenderMuted("("+resolved.Variant.FileName()+")")), keyValueWidth))
	source := string(resolved.Source)
	if resolved.Source == envconfig.SourceFile {
		source += styles.RenderMuted(fmt.Sprintf(" (%s, modified %s)", configFile.Path, humanize.Time(configFile.ModTime)))
	}
	log.Info().Msg(styles.RenderKeyValue("Source", source, keyValueWidth))
	if len(resolved.Overrides) > 0 {
		log.Info().Msg(styles.RenderKeyValue("Overrides", styles.RenderListTechnical(resolved.Overrides), keyValueWidth))
	}
	log.Info().Msg("")

	for _, field := range envconfig.Fields() {
		value, err := envconfig.Lookup(cfg, field)
		if err != nil {
			return err
		}
		log.Info().Msg(styles.RenderKeyValue(field, styles.RenderTechnical(value), keyValueWidth))
	}

	log.Info().Msg("")
	log.Info().Msg(styles.RenderBright("Auth0 endpoints:"))
	log.Info().Msg(styles.RenderKeyValue("Tenant", cfg.Auth0.TenantDomain(), keyValueWidth))
	log.Info().Msg(styles.RenderKeyValue("Issuer", cfg.Auth0.Issuer(), keyValueWidth))
	log.Info().Msg(styles.RenderKeyValue("JWKS", cfg.Auth0.JWKSURL(), keyValueWidth))
	log.Info().Msg(styles.RenderKeyValue("Discovery", cfg.Auth0.DiscoveryURL(), keyValueWidth))

	warnings := recordWarnings(cfg)
	if len(warnings) > 0 {
		log.Info().Msg("")
		log.Warn().Msgf("Warnings:")
		for _, warning := range warnings {
			log.Warn().Msgf("- %s", warning)
		}
	}
	return nil
}

// Advisory warnings about a record: placeholder values and inconsistencies.
func recordWarnings(cfg envconfig.EnvironmentConfig) []string {
	warnings := []string{}
	for _, placeholder := range cfg.CheckPlaceholders() {
		warnings = append(warnings, placeholder.String())
	}
	return append(warnings, cfg.CheckConsistency()...)
}
