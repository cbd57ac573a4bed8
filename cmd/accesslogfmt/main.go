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

// Command accesslogfmt is a small CLI around the accesslog package: it
// validates and evaluates format templates and can serve a demo HTTP
// endpoint that emits real access log lines, the same role cmd/caddy
// plays for the core server but scaled to this library's surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "accesslogfmt",
		Short: "Compile, evaluate, and serve access log format templates",
		Long: `accesslogfmt compiles access-log format templates, evaluates them against
sample or live data, and can serve a demo HTTP endpoint so a template can be
exercised end to end before it's deployed in front of real traffic.`,
		SilenceUsage: true,
	}
	root.AddCommand(newCompileCommand())
	root.AddCommand(newEvalCommand())
	root.AddCommand(newInspectCommand())
	root.AddCommand(newServeCommand())
	return root
}
