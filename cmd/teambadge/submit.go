package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/teambadge/internal/adapters/recordio"
	"github.com/okian/teambadge/internal/client"
	"github.com/okian/teambadge/internal/domain/types"
	"github.com/okian/teambadge/internal/validation"
)

const defaultServerURL = "http://localhost:9080"

var errRunIDWithManyFiles = errors.New("--run-id needs exactly one input file")

func newSubmitCmd() *cobra.Command {
	var (
		serverURL string
		runID     string
		ruleset   string
		timeout   time.Duration
		parallel  int
	)

	cmd := &cobra.Command{
		Use:   "submit files...",
		Short: "Store team statistics files as runs on a teambadge server",
		Long: `Submit each file as one run. Without --run-id every file gets a fresh UUID.
Resubmitting a stored run ID returns the stored summary instead of
classifying the teams again.

Examples:
  teambadge submit week-9.json
  teambadge submit --run-id=2024-week-9 --url=http://badges:9080 week-9.json.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID != "" && len(args) != 1 {
				return errRunIDWithManyFiles
			}

			docs := make([][]byte, len(args))
			for i, path := range args {
				data, err := recordio.Load(path)
				if err != nil {
					return err
				}
				if err := validation.ValidateDocument(data); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				docs[i] = data
			}

			c := client.New(serverURL, client.WithTimeout(timeout))
			results := make([]types.RunResponse, len(args))

			g, gctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(1, min(parallel, len(args))))
			for i, path := range args {
				id := runID
				if id == "" {
					id = uuid.NewString()
				}
				g.Go(func() error {
					resp, err := c.SubmitRun(gctx, id, ruleset, docs[i])
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = resp
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i, r := range results {
				state := "stored"
				if r.Duplicate {
					state = "duplicate"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\trun=%s\truleset=%s\tteams=%d\t%s\n",
					args[i], r.RunID, r.Ruleset, r.Teams, state)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "url", defaultServerURL, "Base URL of the teambadge server")
	cmd.Flags().StringVar(&runID, "run-id", "", "Run ID for a single file (default: random UUID)")
	cmd.Flags().StringVar(&ruleset, "ruleset", "", "Threshold table (default: the server's ruleset)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Per-request timeout")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Files submitted at once")
	return cmd
}
