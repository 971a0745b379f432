// Copyright 2025 Utrippin Project
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

// Command tripgen runs the deterministic itinerary synthesizer offline and
// prints the resulting packages as JSON. It needs no provider credentials,
// which makes it useful for fixtures and for inspecting policy changes.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AMB305/v0-utrippin-sub004/internal/policy"
	"github.com/AMB305/v0-utrippin-sub004/internal/synthesizer"
	"github.com/AMB305/v0-utrippin-sub004/internal/trip"
)

func main() {
	var (
		budget    float64
		groupSize int
		mode      string
		locality  string
		count     int
		chatTuned bool
		pretty    bool
	)

	rootCmd := &cobra.Command{
		Use:   "tripgen",
		Short: "Generate deterministic trip packages offline",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger, _ := zap.NewProduction()
			defer func() { _ = logger.Sync() }()

			durations := policy.ServerDurationTable()
			if chatTuned {
				durations = policy.ChatDurationTable()
			}

			synth := synthesizer.New(durations, policy.DefaultSplitTable(), logger)
			packages := synth.GenerateWithOptions(trip.Request{
				Budget:    budget,
				GroupSize: groupSize,
				Mode:      trip.Mode(mode),
				Locality:  locality,
			}, synthesizer.Options{PackageCount: count})

			enc := json.NewEncoder(os.Stdout)
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(trip.GenerationResult{
				Packages: packages,
				Provider: trip.ProviderFallback,
			})
		},
	}

	rootCmd.Flags().Float64Var(&budget, "budget", 3000, "Total trip budget")
	rootCmd.Flags().IntVar(&groupSize, "group-size", 2, "Number of travelers")
	rootCmd.Flags().StringVar(&mode, "mode", "vacation", "Trip mode: vacation or staycation")
	rootCmd.Flags().StringVar(&locality, "locality", "", "Home locality for staycations")
	rootCmd.Flags().IntVar(&count, "count", 5, "Number of packages to generate")
	rootCmd.Flags().BoolVar(&chatTuned, "chat-tuned", false, "Use the chat-tuned duration thresholds")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
