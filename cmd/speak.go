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
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumacz/internal/domain"
)

var speakPOS string

// posSuffix matches a trailing "[pos:noun]" marker.
var posSuffix = regexp.MustCompile(`(?i)\s*\[\s*pos\s*:\s*([^\]]*)\]\s*$`)

var speakCmd = &cobra.Command{
	Use:   "speak <text...> [pos:<part of speech>]",
	Short: "Speak text aloud",
	Long: `Speak text aloud with the configured speech synthesizer and audio player.

A trailing [pos:<part of speech>] marker, or --pos, selects the pronunciation
of words whose stress depends on it, e.g. "record [pos:verb]".`,
	Example: `  tlumacz speak "How are you?"
  tlumacz speak record [pos:noun]
  tlumacz speak lead --pos verb`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		text, pos := splitPartOfSpeech(raw)
		if speakPOS != "" {
			pos = domain.PartOfSpeech(strings.ToLower(strings.TrimSpace(speakPOS)))
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.ops.PlayPronunciation(ctx, domain.PlayPronunciationRequest{
				Text:         text,
				PartOfSpeech: pos,
				UseCache:     !noCache,
			})
			if err != nil {
				return err
			}
			if res.PartOfSpeech != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Played: %s (%s)\n", res.Text, res.PartOfSpeech)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Played: %s\n", res.Text)
			return nil
		})
	},
}

// splitPartOfSpeech removes a trailing [pos:...] marker from input. Unknown
// parts of speech are returned as given so validation can report them.
func splitPartOfSpeech(input string) (string, domain.PartOfSpeech) {
	m := posSuffix.FindStringSubmatchIndex(input)
	if m == nil {
		return strings.TrimSpace(input), ""
	}
	text := strings.TrimSpace(input[:m[0]])
	pos := strings.ToLower(strings.TrimSpace(input[m[2]:m[3]]))
	return text, domain.PartOfSpeech(pos)
}

func init() {
	rootCmd.AddCommand(speakCmd)

	speakCmd.Flags().StringVar(&speakPOS, "pos", "", "Part of speech (overrides a [pos:...] marker)")
}
