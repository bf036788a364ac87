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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	cfgFile   string
	logLevel  string
	logFormat string
	noCache   bool
)

var rootCmd = &cobra.Command{
	Use:   "tlumacz",
	Short: "Polish/English learning translator",
	Long: `A CLI for learners of Polish and English: ranked word translations with
examples and phonetics, free-text translation, grammar review of English text
and spoken pronunciations.

Results are cached in a local SQLite database and every request is recorded
in the history.

Use "tlumacz <command> --help" for command options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./tlumacz.yaml or ~/.config/tlumacz/tlumacz.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override logging.format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Ignore cached results (fresh results are still stored)")
}
