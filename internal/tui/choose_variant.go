/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"fmt"

	"github.com/coffeeshop/envctl/pkg/envconfig"
	"github.com/coffeeshop/envctl/pkg/styles"
	"github.com/rs/zerolog/log"
)

// VariantChoice is a variant shown in the chooser, with where its record
// comes from.
type VariantChoice struct {
	Variant envconfig.Variant
	Source  envconfig.Source
}

// ChooseVariantDialog lets the user pick the variant to operate on.
func ChooseVariantDialog(choices []VariantChoice) (envconfig.Variant, error) {
	selected, err := ChooseFromListDialog(
		"Select Variant",
		choices,
		func(choice *VariantChoice) (string, string) {
			return string(choice.Variant), fmt.Sprintf("[%s, %s]", choice.Variant.FileName(), choice.Source)
		},
	)
	if err != nil {
		return "", err
	}

	log.Info().Msgf(" %s %s", styles.RenderSuccess("✓"), styles.RenderVariant(string(selected.Variant), selected.Variant.IsProduction()))
	return selected.Variant, nil
}
