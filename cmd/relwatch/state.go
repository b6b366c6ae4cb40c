// Copyright 2025 Relwatch Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/relwatch/relwatch/internal/config"
	"github.com/relwatch/relwatch/internal/state"
)

// newStateCommand builds the state inspection commands
func newStateCommand() *cobra.Command {
	var (
		configPath string
		repo       string
		stateFile  string
	)

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the recorded release state",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: standard locations)")
	cmd.PersistentFlags().StringVar(&repo, "repo", "", "Tracked repository in <owner>/<repo> format (overrides config)")
	cmd.PersistentFlags().StringVar(&stateFile, "state-file", "", "State file path (overrides config)")

	resolveStore := func() (*state.Store, error) {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if repo != "" {
			cfg.Repo.Repository = repo
		}
		if stateFile != "" {
			cfg.State.File = stateFile
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return state.NewStore(stateFilePath(cfg), slog.Default()), nil
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the recorded release state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resolveStore()
			if err != nil {
				return err
			}

			st := store.Load()
			if st.Empty() {
				fmt.Printf("No release recorded (%s)\n", store.Path())
				return nil
			}
			fmt.Printf("Last notified version: %s\n", st.LastVersion)
			fmt.Printf("Last checked at:       %s\n", st.LastCheckedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Printf("State file:            %s\n", store.Path())
			return nil
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the recorded state so the current release is re-notified",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := resolveStore()
			if err != nil {
				return err
			}

			if err := store.Delete(); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "State reset (%s)\n", store.Path())
			return nil
		},
	}

	cmd.AddCommand(showCmd)
	cmd.AddCommand(resetCmd)

	return cmd
}
