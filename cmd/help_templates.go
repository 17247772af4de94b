/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/spf13/cobra"
)

// Matches a pflag usage line: indent, '-c, --config', optional type, padding, description.
var flagUsageRegexp = regexp.MustCompile(`^(\s*)(-[^,\s]+(?:, --\S+)?)(?: (\S+))?(\s{2,})(.*)$`)

// envctl has a flat command tree without aliases or command groups.
var usageTemplate = `{{StyleHeading "Usage:"}}{{if .Runnable}}
  {{StyleCommand .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{StyleCommand .CommandPath}} [command]{{end}}{{if .HasExample}}

{{StyleHeading "Examples:"}}
{{StyleExample .Example}}{{end}}{{if .HasAvailableSubCommands}}

{{StyleHeading "Available Commands:"}}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{StyleCommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{StyleHeading "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces | StyleFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

{{StyleHeading "Global Flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces | StyleFlags}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

// The root command also lists the variants and their output files.
var helpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces | StyleInlineCode}}

{{end}}{{if not .HasParent}}{{StyleHeading "Variants:"}}
{{VariantList}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}`

func initColoredHelpTemplates(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleHeading", styles.RenderBright)
	cobra.AddTemplateFunc("StyleCommand", styles.RenderTechnical)
	cobra.AddTemplateFunc("StyleExample", styleExample)
	cobra.AddTemplateFunc("StyleFlags", styleFlags)
	cobra.AddTemplateFunc("StyleInlineCode", styleInlineCode)
	cobra.AddTemplateFunc("VariantList", variantHelpList)

	rootCmd.SetUsageTemplate(usageTemplate)
	rootCmd.SetHelpTemplate(helpTemplate)
}

// styleFlags highlights flag names and types in pflag's usage output.
// Continuation lines of multi-line descriptions are left as they are.
func styleFlags(text string) string {
	lines := strings.Split(text, "\n")
	for ndx, line := range lines {
		m := flagUsageRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		indent, names, flagType, padding, description := m[1], m[2], m[3], m[4], m[5]

		styled := strings.Split(names, ", ")
		for i, name := range styled {
			styled[i] = styles.RenderTechnical(name)
		}
		left := strings.Join(styled, ", ")
		if flagType != "" {
			left += " " + styles.RenderMuted(flagType)
		}
		lines[ndx] = indent + left + padding + description
	}
	return strings.Join(lines, "\n")
}

// styleInlineCode highlights `quoted` spans in long descriptions, keeping the backticks.
func styleInlineCode(text string) string {
	parts := strings.Split(text, "`")
	for i := 1; i < len(parts)-1; i += 2 {
		parts[i] = styles.RenderTechnical(parts[i])
	}
	return strings.Join(parts, "`")
}

// styleExample renders '#' comment lines differently from command lines.
func styleExample(text string) string {
	lines := strings.Split(text, "\n")
	for ndx, line := range lines {
		switch trimmed := strings.TrimSpace(line); {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "#"):
			lines[ndx] = styles.RenderComment(line)
		default:
			lines[ndx] = styles.RenderTechnical(line)
		}
	}
	return strings.Join(lines, "\n")
}

// variantHelpList lists the variants and the environment file each one is
// compiled into, shown in the root command's help.
func variantHelpList() string {
	lines := []string{}
	for _, variant := range envconfig.AllVariants() {
		name := fmt.Sprintf("%-12s", variant)
		lines = append(lines, fmt.Sprintf("  %s %s", styles.RenderVariant(name, variant.IsProduction()), styles.RenderMuted(variant.FileName())))
	}
	return strings.Join(lines, "\n")
}
