/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumacz/internal/domain"
)

var (
	wordFrom string
	wordTo   string
)

var wordCmd = &cobra.Command{
	Use:   "word <word>",
	Short: "Translate a single word",
	Long: `Translate a single word between Polish and English. The answer lists ranked
translations with part of speech, countability, usage examples and, for
English translations, an Arpabet transcription.

The source language is required; the target defaults to the other language.`,
	Example: `  tlumacz word kot --from pl
  tlumacz word lead --from en --to pl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.ops.TranslateWord(ctx, domain.TranslateWordRequest{
				Word:       args[0],
				SourceLang: domain.LenientLanguage(wordFrom),
				TargetLang: domain.LenientLanguage(wordTo),
				UseCache:   !noCache,
			})
			if err != nil {
				return err
			}
			return renderTranslation(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	rootCmd.AddCommand(wordCmd)

	wordCmd.Flags().StringVarP(&wordFrom, "from", "f", "", "Source language: pl or en (required)")
	wordCmd.Flags().StringVarP(&wordTo, "to", "t", "", "Target language (default: the other language)")
}
