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

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newInspectCommand renders the BYTES_SENT and DURATION values given as
// flags in human-readable form (humanize.Bytes/humanize.RelTime) alongside
// their raw values, the same pairing browse.go uses humanize.IBytes for
// next to a raw file listing.
func newInspectCommand() *cobra.Command {
	var (
		bytesSent uint64
		duration  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show human-readable byte and duration counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "bytes sent: %d (%s)\n", bytesSent, humanize.Bytes(bytesSent))
			fmt.Fprintf(out, "duration:   %s (%s)\n", duration, humanize.RelTime(time.Now().Add(-duration), time.Now(), "", ""))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&bytesSent, "bytes-sent", 0, "BYTES_SENT value to render")
	cmd.Flags().DurationVar(&duration, "duration", 0, "DURATION value to render")
	return cmd
}
