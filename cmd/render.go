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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/valpere/tlumacz/internal/domain"
	"github.com/valpere/tlumacz/internal/store"
)

func renderTranslation(out io.Writer, res *domain.TranslationResult) error {
	fmt.Fprintf(out, "%s (%s -> %s)\n\n", res.Word, res.SourceLang, res.TargetLang)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tWORD\tPART OF SPEECH\tCOUNTABILITY\tPHONETIC")
	for _, c := range res.Translations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			c.Rank, c.Word, c.PartOfSpeech, orDash(c.Countability), orDash(c.Phonetic))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, c := range res.Translations {
		if len(c.Examples) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%d. %s\n", c.Rank, c.Word)
		for _, ex := range c.Examples {
			fmt.Fprintf(out, "   - %s\n", ex)
		}
	}
	return nil
}

func renderTextTranslation(out io.Writer, res *domain.TextTranslationResult) error {
	_, err := fmt.Fprintf(out, "[%s -> %s]\n%s\n", res.SourceLang, res.TargetLang, res.TranslatedText)
	return err
}

func renderGrammar(out io.Writer, res *domain.GrammarReviewResult) error {
	if res.IsCorrect() {
		_, err := fmt.Fprintln(out, "No issues found.")
		return err
	}

	if len(res.Issues) > 0 {
		fmt.Fprintln(out, "Issues:")
		for i, issue := range res.Issues {
			fmt.Fprintf(out, "%d. %s\n   correction:  %s\n   explanation: %s\n",
				i+1, issue.Issue, issue.Correction, issue.Explanation)
		}
	}
	if len(res.Suggestions) > 0 {
		if len(res.Issues) > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, "Suggestions:")
		for _, s := range res.Suggestions {
			line := fmt.Sprintf("- %s -> %s", s.Original, s.Suggested)
			if s.Context != "" {
				line += " (" + s.Context + ")"
			}
			fmt.Fprintln(out, line)
		}
	}
	if res.CorrectedText != nil {
		fmt.Fprintf(out, "\nCorrected text:\n%s\n", *res.CorrectedText)
	}
	return nil
}

func renderHistory(out io.Writer, entries []domain.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No history yet.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tOPERATION\tINPUT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Operation, snippet(e.Input, 60))
	}
	return w.Flush()
}

func renderCacheList(out io.Writer, entries []store.CacheInfo) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(out, "No entries in the cache.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FINGERPRINT\tOPERATION\tSIZE\tCREATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			e.Fingerprint, e.Operation, e.Size, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func renderCacheStats(out io.Writer, stats *store.CacheStats, ttl time.Duration) error {
	fmt.Fprintf(out, "Total entries:   %d\n", stats.TotalEntries)
	fmt.Fprintf(out, "Expired entries: %d (older than %s)\n", stats.ExpiredEntries, ttl)
	fmt.Fprintf(out, "Total size:      %d bytes\n", stats.TotalBytes)
	fmt.Fprintf(out, "History entries: %d\n", stats.HistoryEntries)

	if len(stats.ByOperation) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATION\tENTRIES")
	for _, op := range []domain.Operation{
		domain.OpTranslateWord, domain.OpTranslateText, domain.OpReviewGrammar, domain.OpPlayPronunciation,
	} {
		if n, ok := stats.ByOperation[op]; ok {
			fmt.Fprintf(w, "%s\t%d\n", op, n)
		}
	}
	return w.Flush()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return s
}
