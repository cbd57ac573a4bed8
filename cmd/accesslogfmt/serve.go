// Copyright 2015 Light Code Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edgeproxylabs/accesslog"
	"github.com/edgeproxylabs/accesslog/config"
	"github.com/edgeproxylabs/accesslog/httpadapter"
)

// newServeCommand starts a demo HTTP server that logs every request
// through a configured format, exercising the full path from config
// loading through the chi middleware chain down to a rendered,
// masked log line — the equivalent of `caddy run` standing up the
// access-log middleware for real traffic.
func newServeCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a demo HTTP endpoint that emits access log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()
			accesslog.SetLogger(logger)

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			format := cfg.DefaultFormat()
			if formatName != "" {
				format = cfg.Formats[formatName]
				if format == nil {
					return fmt.Errorf("no format named %q", formatName)
				}
			} else if format == nil {
				return fmt.Errorf("no default format configured; pass --format")
			}

			r := chi.NewRouter()
			r.Use(middleware.Recoverer)
			r.Use(httpadapter.Middleware(format, cfg.Masks, func(line string) {
				fmt.Fprint(cmd.OutOrStdout(), line)
				if len(line) == 0 || line[len(line)-1] != '\n' {
					fmt.Fprintln(cmd.OutOrStdout())
				}
			}))
			r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
				w.Write([]byte("ok"))
			})

			logger.Info("serving", zap.String("addr", addr))
			return http.ListenAndServe(addr, r)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML access log config")
	cmd.Flags().StringVar(&formatName, "format", "", "named format to use instead of the config's default")

	return cmd
}
