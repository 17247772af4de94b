/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type PositionalArgSpec struct {
	Name        string  // Name of the argument (eg, VARIANT)
	Description string  // Description of the argument
	IsRequired  bool    // Is the argument required (or optional)?
	ValuePtr    *string // Pointer to the parsed value.
}

type PositionalArgs struct {
	Specs                []PositionalArgSpec // Array of arguments for the command
	ExtraArgsPtr         *[]string           // Pointer to extra args (if specified)
	ExtraArgsName        string              // Name of extra args in help texts (eg, VARIANTS)
	ExtraArgsDescription string              // Description of extra args (if any)
}

func (args *PositionalArgs) addArgument(valuePtr *string, name string, description string, isRequired bool) {
	if isRequired && len(args.Specs) > 0 && !args.Specs[len(args.Specs)-1].IsRequired {
		log.Panic().Msgf("Required argument %s cannot follow an optional argument", name)
	}
	args.Specs = append(args.Specs, PositionalArgSpec{
		Name:        name,
		Description: description,
		IsRequired:  isRequired,
		ValuePtr:    valuePtr,
	})
}

func (args *PositionalArgs) AddStringArgument(valuePtr *string, name string, description string) {
	args.addArgument(valuePtr, name, description, true)
}

func (args *PositionalArgs) AddStringArgumentOpt(valuePtr *string, name string, description string) {
	args.addArgument(valuePtr, name, description, false)
}

func (args *PositionalArgs) SetExtraArgs(extraArgsPtr *[]string, name string, description string) {
	if args.ExtraArgsPtr != nil {
		log.Panic().Msgf("Duplicate extra args specified: '%s'", name)
	}

	args.ExtraArgsPtr = extraArgsPtr
	args.ExtraArgsName = name
	args.ExtraArgsDescription = description
}

func (args *PositionalArgs) GetHelpText() string {
	if len(args.Specs) == 0 && args.ExtraArgsPtr == nil {
		return "No positional arguments are required for this command."
	}

	lines := []string{"Arguments:"}
	for _, spec := range args.Specs {
		optionalText := ""
		if !spec.IsRequired {
			optionalText = " (optional)"
		}
		lines = append(lines, fmt.Sprintf("- %s%s: %s", spec.Name, optionalText, spec.Description))
	}
	if args.ExtraArgsPtr != nil {
		lines = append(lines, fmt.Sprintf("- %s (optional): %s", args.ExtraArgsName, args.ExtraArgsDescription))
	}

	return strings.Join(lines, "\n")
}

func (args *PositionalArgs) usageLine() string {
	names := []string{}
	for _, spec := range args.Specs {
		if spec.IsRequired {
			names = append(names, spec.Name)
		} else {
			names = append(names, "["+spec.Name+"]")
		}
	}
	if args.ExtraArgsPtr != nil {
		names = append(names, "["+args.ExtraArgsName+"...]")
	}
	return strings.Join(names, " ")
}

func (args *PositionalArgs) ParseCommandLine(argv []string) error {
	srcNdx := 0
	for _, argSpec := range args.Specs {
		if len(argv) > srcNdx {
			*argSpec.ValuePtr = argv[srcNdx]
			srcNdx += 1
		} else if argSpec.IsRequired {
			return fmt.Errorf("missing required argument %s, expecting: %s", argSpec.Name, args.usageLine())
		} else {
			*argSpec.ValuePtr = ""
		}
	}

	// Remaining arguments go to the extra args, if the command accepts them.
	if args.ExtraArgsPtr != nil {
		*args.ExtraArgsPtr = append([]string{}, argv[srcNdx:]...)
	} else if len(argv) > srcNdx {
		if len(args.Specs) == 0 {
			return fmt.Errorf("unexpected arguments %s, this command takes no arguments", strings.Join(argv[srcNdx:], " "))
		}
		return fmt.Errorf("unexpected arguments %s, expecting: %s", strings.Join(argv[srcNdx:], " "), args.usageLine())
	}

	return nil
}

// UsePositionalArgs is embedded in the options of commands that take
// positional arguments.
type UsePositionalArgs struct {
	args PositionalArgs
}

func (o *UsePositionalArgs) Arguments() *PositionalArgs {
	return &o.args
}
