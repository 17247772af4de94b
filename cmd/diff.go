/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Compare the resolved records of two variants.
type DiffOpts struct {
	UsePositionalArgs

	argLeft    string
	argRight   string
	flagFormat string

	left  envconfig.Variant
	right envconfig.Variant
}

func init() {
	o := DiffOpts{}

	args := o.Arguments()
	args.AddStringArgumentOpt(&o.argLeft, "LEFT", "First variant to compare (default: 'development').")
	args.AddStringArgumentOpt(&o.argRight, "RIGHT", "Second variant to compare (default: 'production').")

	cmd := &cobra.Command{
		Use:   "diff [LEFT] [RIGHT] [flags]",
		Short: "Show the fields that differ between two variants",
		Run:   runCommand(&o),
		Long: renderLong(&o, `
			Compare the resolved records of two variants field by field and show the fields
			whose values differ, in canonical field order.

			{Arguments}
		`),
		Example: trimIndent(`
			# Compare development against production.
			envctl diff

			# Compare the production record with and without an environment override.
			ENVCTL_API_SERVER_URL=https://staging.coffee.shop envctl diff production production
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagFormat, "format", "text", "Output format. Valid values are 'text' or 'json'")
}

func (o *DiffOpts) Prepare(cmd *cobra.Command, args []string) error {
	if o.flagFormat != "text" && o.flagFormat != "json" {
		return fmt.Errorf("invalid format %q, must be either 'text' or 'json'", o.flagFormat)
	}

	o.left = envconfig.VariantDevelopment
	o.right = envconfig.VariantProduction
	var err error
	if o.argLeft != "" {
		if o.left, err = parseVariantArg(o.argLeft); err != nil {
			return err
		}
	}
	if o.argRight != "" {
		if o.right, err = parseVariantArg(o.argRight); err != nil {
			return err
		}
	}
	return nil
}

func (o *DiffOpts) Run(cmd *cobra.Command) error {
	configFile, err := tryLoadConfigFile()
	if err != nil {
		return err
	}
	left, err := resolveRecord(configFile, o.left)
	if err != nil {
		return err
	}
	right, err := resolveRecord(configFile, o.right)
	if err != nil {
		return err
	}

	diffs, err := envconfig.Diff(left.Config, right.Config)
	if err != nil {
		return err
	}

	if o.flagFormat == "json" {
		type fieldDiff struct {
			Field string `json:"field"`
			Left  string `json:"left"`
			Right string `json:"right"`
		}
		output := []fieldDiff{}
		for _, diff := range diffs {
			output = append(output, fieldDiff(diff))
		}
		diffsJson, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
		log.Info().Msg(string(diffsJson))
		return nil
	}

	leftName := styles.RenderVariant(string(o.left), o.left.IsProduction())
	rightName := styles.RenderVariant(string(o.right), o.right.IsProduction())
	if len(diffs) == 0 {
		log.Info().Msgf("No differences between %s and %s", leftName, rightName)
		return nil
	}

	log.Info().Msgf("%d field(s) differ between %s and %s:", len(diffs), leftName, rightName)
	for _, diff := range diffs {
		log.Info().Msg("")
		log.Info().Msg(styles.RenderBright(diff.Field))
		log.Info().Msgf("  %s %s", styles.RenderError("-"), diff.Left)
		log.Info().Msgf("  %s %s", styles.RenderSuccess("+"), diff.Right)
	}
	return nil
}
