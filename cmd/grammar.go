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

var grammarCmd = &cobra.Command{
	Use:   "grammar <text...>",
	Short: "Review the grammar and vocabulary of English text",
	Long: `Review English text for grammar mistakes and suggest more natural vocabulary.
Text detected as another language is rejected.

Pass "-" to read the text from stdin.`,
	Example: `  tlumacz grammar She go to school every days.`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.ops.ReviewGrammar(ctx, domain.ReviewGrammarRequest{
				Text:     text,
				UseCache: !noCache,
			})
			if err != nil {
				return err
			}
			return renderGrammar(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	rootCmd.AddCommand(grammarCmd)
}
