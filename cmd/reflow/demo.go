package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/reflow-dev/reflow/internal/config"
	"github.com/reflow-dev/reflow/internal/errors"
	"github.com/reflow-dev/reflow/pkg/host"
	"github.com/reflow-dev/reflow/pkg/host/memhost"
	"github.com/reflow-dev/reflow/pkg/reactive"
	"github.com/reflow-dev/reflow/pkg/reconcile"
	"github.com/reflow-dev/reflow/pkg/record"
)

func demoCmd() *cobra.Command {
	var (
		configPath string
		items      int
		showTrace  bool
		export     bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run reconciliation scenarios against an in-memory tree",
		Long: `Runs a reactive counter and a list reversal against the in-memory
host tree and prints the host operations each scenario cost. With
--export, the full trace is uploaded to the bucket configured under
"record" in reflow.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if items < 2 {
				return errors.New("E140").WithDetail("--items must be at least 2")
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			tree := memhost.New(cfg.Dev.Tags...)
			tree.RegisterTags("body", "li")
			rec := record.New[memhost.Handle](tree)
			r := reconcile.New[memhost.Handle](rec)
			body := rec.CreateElement("body")
			marker := r.EnsureMarker(body, host.PlaceholderSequence)

			// Scenario 1: text updates in place.
			count := reactive.NewSignal(0)
			root := reactive.CreateRoot(func() {
				r.Insert(body, func() any {
					return fmt.Sprintf("Count: %d", count.Get())
				}, marker, nil)
			})
			for i := 1; i <= 3; i++ {
				count.Set(i)
			}

			// Scenario 2: list reversal, minimal moves.
			values := make([]any, items)
			for i := range values {
				li := r.CreateElement("li")
				rec.SetProperty(li, "label", fmt.Sprint(i), nil)
				values[i] = li
			}
			region := r.Reconcile(body, nil, values, marker)

			reversed := make([]any, items)
			for i := range reversed {
				reversed[i] = values[items-1-i]
			}
			region = r.Reconcile(body, region, reversed, marker)

			// Teardown.
			r.Reconcile(body, region, nil, marker)
			root.Dispose()

			events := rec.Events()
			printSummary(cmd.OutOrStdout(), events)
			if showTrace {
				for _, ev := range events {
					fmt.Fprintf(cmd.OutOrStdout(), "%5d %-18s node=%s %s %s\n",
						ev.Seq, ev.Op, ev.Node, ev.Name, ev.Value)
				}
			}

			if export {
				return exportTrace(cmd.Context(), cfg, events)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to reflow.json")
	cmd.Flags().IntVarP(&items, "items", "n", 50, "List size for the reversal scenario")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "Print every recorded operation")
	cmd.Flags().BoolVar(&export, "export", false, "Upload the trace to the configured S3 bucket")

	return cmd
}

func printSummary(w io.Writer, events []record.Event) {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Op]++
	}

	ops := make([]string, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	fmt.Fprintf(w, "%d host operations:\n", len(events))
	for _, op := range ops {
		fmt.Fprintf(w, "  %-18s %d\n", op, counts[op])
	}
}

// exportTrace uploads events to the bucket configured in reflow.json.
// Credentials come from the conventional AWS environment variables.
func exportTrace(ctx context.Context, cfg *config.Config, events []record.Event) error {
	if cfg.Record.Bucket == "" {
		return errors.New("E161")
	}

	client := s3.New(s3.Options{
		Region: cfg.Record.Region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
					SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
					SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
					Source:          "environment",
				}, nil
			})),
	})

	exporter := record.NewS3Exporter(client, cfg.Record.Bucket, cfg.Record.Prefix)
	key, err := exporter.Export(ctx, "demo", events)
	if err != nil {
		return errors.New("E160").Wrap(err)
	}
	fmt.Printf("exported %d events to s3://%s/%s\n", len(events), cfg.Record.Bucket, key)
	return nil
}
