package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/teambadge/internal/adapters/recordio"
	service "github.com/okian/teambadge/internal/app"
	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/validation"
	"github.com/okian/teambadge/pkg/logger"
)

const stdinPath = "-"

var errOutWithManyFiles = errors.New("--out needs exactly one input file")

// document is one input file moving through the classify command.
type document struct {
	path    string
	records []*recordio.Record
	dist    badge.Distribution
}

func newClassifyCmd(root *rootOptions) *cobra.Command {
	var (
		ruleset string
		out     string
		workers int
		dryRun  bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "classify [files...]",
		Short: "Write badges into team statistics files",
		Long: `Classify every team in each file and write primaryBadge and secondaryBadges
back into the file. Files ending in .gz are read and written gzip compressed.
Use "-" to read a document from stdin and write the result to stdout.

Examples:
  teambadge classify teams.json
  teambadge classify --ruleset=wiaa girls.json boys.json.gz
  teambadge classify --out=classified.json teams.json
  cat teams.json | teambadge classify - > classified.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out != "" && len(args) != 1 {
				return errOutWithManyFiles
			}
			if _, err := badge.Lookup(ruleset); err != nil {
				return err
			}
			if workers <= 0 {
				workers = runtime.NumCPU()
			}

			docs, err := loadDocuments(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			if err := classifyDocuments(cmd.Context(), docs, ruleset, workers); err != nil {
				return err
			}

			// Reports go to stderr when stdout carries the document.
			reportTo := cmd.OutOrStdout()
			for _, d := range docs {
				if d.path == stdinPath {
					reportTo = cmd.ErrOrStderr()
				}
			}

			for _, d := range docs {
				if !dryRun {
					if err := writeDocument(cmd.OutOrStdout(), d, out); err != nil {
						return err
					}
				}
				if quiet {
					continue
				}
				fmt.Fprintf(reportTo, "Processed %d teams from %s\n", d.dist.Total, d.path)
				root.printerTo(reportTo).Distribution(d.dist)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ruleset, "ruleset", badge.RulesetNCAA, "Threshold table (ncaa, wiaa)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the result here instead of over the input file")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Classification workers and files read in parallel (0 = number of CPUs)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the distribution without writing any file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print the distribution report")
	return cmd
}

// loadDocuments reads and validates every input. A schema violation in any
// file stops the command before anything is written.
func loadDocuments(stdin io.Reader, paths []string) ([]*document, error) {
	docs := make([]*document, len(paths))
	for i, path := range paths {
		var (
			data []byte
			err  error
		)
		if path == stdinPath {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = recordio.Load(path)
		}
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateDocument(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records, err := recordio.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		docs[i] = &document{path: path, records: records}
	}
	return docs, nil
}

// classifyDocuments runs every document through one in-process service.
// Documents are submitted in parallel, each as its own batch.
func classifyDocuments(ctx context.Context, docs []*document, ruleset string, workers int) error {
	total, largest := 0, 0
	for _, d := range docs {
		total += len(d.records)
		largest = max(largest, len(d.records))
	}

	svc := service.New(
		service.WithLogger(logger.Named("classify")),
		service.WithRuleset(ruleset),
		service.WithWorkerCount(workers),
		service.WithQueueSize(max(total, 1)),
		service.WithMaxBatchSize(max(largest, 1)),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	table, err := badge.Lookup(ruleset)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(docs)))
	for _, d := range docs {
		g.Go(func() error {
			assignments, err := svc.ClassifyRecords(gctx, ruleset, d.records)
			if err != nil {
				return fmt.Errorf("%s: %w", d.path, err)
			}
			d.dist = badge.Summarize(assignments, table.Fallback())
			logger.Get().Debug(gctx, "classified document",
				logger.String("path", d.path),
				logger.Int("teams", len(assignments)))
			return nil
		})
	}
	return g.Wait()
}

func writeDocument(stdout io.Writer, d *document, out string) error {
	if d.path == stdinPath && out == "" {
		var buf bytes.Buffer
		if err := recordio.Encode(&buf, d.records); err != nil {
			return err
		}
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	target := d.path
	if out != "" {
		target = out
	}
	return recordio.WriteFile(target, d.records)
}
