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
	"time"

	"github.com/spf13/cobra"

	"github.com/edgeproxylabs/accesslog"
)

// newEvalCommand compiles a format template and evaluates it once against
// sample StreamInfo values supplied as flags, so an operator can see what a
// template will render before wiring it into a live deployment.
func newEvalCommand() *cobra.Command {
	var (
		protocol     string
		responseCode int
		hasResponse  bool
		bytesSent    uint64
		duration     time.Duration
		requestHdrs  map[string]string
	)

	cmd := &cobra.Command{
		Use:   "eval <format>",
		Short: "Evaluate a format template against sample request data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := accesslog.Compile(args[0])
			if err != nil {
				return err
			}

			headers := accesslog.HeaderMap{}
			for k, v := range requestHdrs {
				headers[k] = v
			}

			si := &accesslog.StaticStreamInfo{
				ProtocolValue:     protocol,
				HasResponseCode:   hasResponse,
				ResponseCodeValue: responseCode,
				BytesSentValue:    bytesSent,
				DurationValue:     duration,
				HasDuration:       duration > 0,
				StartTimeValue:    time.Now(),
			}
			ctx := accesslog.Context{RequestHeaders: headers, StreamInfo: si}

			fmt.Fprintln(cmd.OutOrStdout(), tmpl.Evaluate(ctx))
			return nil
		},
	}

	cmd.Flags().StringVar(&protocol, "protocol", "HTTP/1.1", "PROTOCOL value")
	cmd.Flags().IntVar(&responseCode, "status", 200, "RESPONSE_CODE value")
	cmd.Flags().BoolVar(&hasResponse, "has-status", true, "whether RESPONSE_CODE was set at all")
	cmd.Flags().Uint64Var(&bytesSent, "bytes-sent", 0, "BYTES_SENT value")
	cmd.Flags().DurationVar(&duration, "duration", 0, "DURATION value")
	cmd.Flags().StringToStringVar(&requestHdrs, "header", nil, "request header, repeatable (--header X-Foo=bar)")

	return cmd
}
