/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"path/filepath"

	clierrors "github.com/coffeeshop/envctl/internal/errors"
	"github.com/coffeeshop/envctl/internal/tui"
	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/filesetwriter"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Generate the front-end environment files of all variants.
type GenerateOpts struct {
	flagOutDir string
	flagForce  bool
	flagDryRun bool
	flagCheck  bool
}

func init() {
	o := GenerateOpts{}

	cmd := &cobra.Command{
		Use:   "generate [flags]",
		Short: "Write the environment files of all variants",
		Args:  cobra.NoArgs,
		Run:   runCommand(&o),
		Long: trimIndent(`
			Compile the resolved record of every variant into the front-end's environment
			files, eg, 'src/environments/environment.ts' and 'environment.prod.ts'.

			The planned changes are shown before writing. Files with identical content are
			left untouched. Replacing a file with different content must be confirmed, or
			allowed up front with --force.

			Use --check in CI to verify the committed files match the records: no files are
			written, and the command fails if any file would change.
		`),
		Example: trimIndent(`
			# Write src/environments/environment.ts and environment.prod.ts.
			envctl generate

			# Preview the changes without writing anything.
			envctl generate --dry-run

			# Fail if the committed environment files are out of date.
			envctl generate --check --non-interactive
		`),
	}
	rootCmd.AddCommand(cmd)

	flags := cmd.Flags()
	flags.StringVar(&o.flagOutDir, "out-dir", filepath.Join("src", "environments"), "Directory to write the environment files to")
	flags.BoolVar(&o.flagForce, "force", false, "Overwrite modified environment files without asking")
	flags.BoolVar(&o.flagDryRun, "dry-run", false, "Show the planned changes without writing any files")
	flags.BoolVar(&o.flagCheck, "check", false, "Fail if any environment file is missing or out of date, without writing")
}

func (o *GenerateOpts) Prepare(cmd *cobra.Command, args []string) error {
	if o.flagOutDir == "" {
		return fmt.Errorf("--out-dir must not be empty")
	}
	if o.flagCheck && o.flagForce {
		return fmt.Errorf("--check and --force cannot be used together")
	}
	return nil
}

func (o *GenerateOpts) Run(cmd *cobra.Command) error {
	configFile, err := tryLoadConfigFile()
	if err != nil {
		return err
	}

	// Render all variants before touching any files.
	plan := filesetwriter.NewPlan()
	for _, variant := range envconfig.AllVariants() {
		resolved, err := resolveRecord(configFile, variant)
		if err != nil {
			return err
		}
		for _, warning := range recordWarnings(resolved.Config) {
			log.Warn().Msgf("Warning in '%s': %s", variant, warning)
		}

		content, err := envconfig.RenderTypeScript(variant, resolved.Config)
		if err != nil {
			return err
		}
		plan.Add(filepath.Join(o.flagOutDir, variant.FileName()), []byte(content), 0644)
	}

	if err := plan.Scan(); err != nil {
		return err
	}

	log.Info().Msg(styles.RenderTitle("Environment files"))
	plan.Preview()
	log.Info().Msg("")

	numChanged := plan.FilesToWrite()
	if o.flagCheck {
		if numChanged > 0 {
			return clierrors.Newf("%d environment file(s) are out of date", numChanged).
				WithSuggestion("Run 'envctl generate' and commit the result")
		}
		log.Info().Msg(styles.RenderSuccess("All environment files are up to date"))
		return nil
	}

	if numChanged == 0 {
		log.Info().Msg(styles.RenderSuccess("All environment files are up to date"))
		return nil
	}

	if o.flagDryRun {
		log.Info().Msgf("Dry run: %d file(s) would be written", numChanged)
		return nil
	}

	if plan.HasReadOnlyFiles() {
		return clierrors.New("Some of the environment files are read-only").
			WithSuggestion("Make the files writable, eg, check them out if your version control locks files")
	}

	if plan.HasConflicts() && !o.flagForce {
		if !tui.IsInteractiveMode() {
			return clierrors.Newf("Refusing to overwrite %d modified file(s) in non-interactive mode", len(plan.Conflicts())).
				WithDetails(plan.Conflicts()...).
				WithSuggestion("Use --force to overwrite the files")
		}
		confirmed, err := tui.DoConfirmQuestion(fmt.Sprintf("Overwrite %d modified file(s)?", len(plan.Conflicts())))
		if err != nil {
			return err
		}
		if !confirmed {
			log.Info().Msg("Cancelled, no files were written")
			return nil
		}
	}

	if err := plan.Execute(); err != nil {
		return err
	}

	log.Info().Msg("")
	log.Info().Msg(styles.RenderSuccess(fmt.Sprintf("Wrote %d environment file(s)", len(plan.Written()))))
	return nil
}
