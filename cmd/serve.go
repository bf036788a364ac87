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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumacz/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the operations as a JSON API",
	Long: `Serve the translator over HTTP:

  POST /api/v1/words           translate a word
  POST /api/v1/texts           translate text
  POST /api/v1/grammar         review grammar
  POST /api/v1/pronunciations  speak text on this machine
  GET  /api/v1/history?limit=N recent operations
  GET  /healthz                liveness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.ollama != nil {
			checkCtx, cancel := context.WithTimeout(ctx, a.cfg.Request.Timeout)
			if err := a.ollama.IsAvailable(checkCtx); err != nil {
				a.logger.Warn().Err(err).Str("model", a.ollama.Model()).Msg("ollama model not ready")
			}
			cancel()
		}

		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := httpapi.NewServer(a.ops, a.logger, httpapi.Options{
			Addr:           addr,
			RequestTimeout: a.cfg.Request.Timeout,
		})
		return srv.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}
