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
	textFrom string
	textTo   string
)

var textCmd = &cobra.Command{
	Use:   "text <text...>",
	Short: "Translate free text",
	Long: `Translate a phrase or passage between Polish and English. Without --from the
source language is detected; without --to the target is the other language.
Source and target must differ, so text detected as the --to language is
rejected.

Pass "-" to read the text from stdin.`,
	Example: `  tlumacz text Dzień dobry, jak się masz?
  cat letter.txt | tlumacz text - --from en`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.ops.TranslateText(ctx, domain.TranslateTextRequest{
				Text:       text,
				SourceLang: domain.LenientLanguage(textFrom),
				TargetLang: domain.LenientLanguage(textTo),
				UseCache:   !noCache,
			})
			if err != nil {
				return err
			}
			return renderTextTranslation(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringVarP(&textFrom, "from", "f", "", "Source language (default: detected)")
	textCmd.Flags().StringVarP(&textTo, "to", "t", "", "Target language (default: the other language)")
}
