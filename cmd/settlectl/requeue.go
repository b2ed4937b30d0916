package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/cobra"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
	"github.com/cuongbtq/settlement-pipeline/internal/publisher"
)

const staleBatchLimit = 500

type requeueStore interface {
	GetByID(ctx context.Context, id int64) (mo.Option[*domain.Record], error)
	UpdateStatus(ctx context.Context, id int64, status domain.Status) error
	ListStale(ctx context.Context, status domain.Status, olderThan time.Time, limit int) ([]domain.Record, error)
}

type jobPublisher interface {
	Publish(ctx context.Context, rec *domain.Record) publisher.Result
}

func newRequeueCmd() *cobra.Command {
	var stale time.Duration
	cmd := &cobra.Command{
		Use:   "requeue [id...]",
		Short: "Reset records to Waiting and publish their document jobs again",
		Long: `requeue is the recovery path for records left in Processing by a worker that
died mid-job. Pass record ids, or --stale to pick every record that has been in
Processing for longer than the given duration.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if stale <= 0 && len(args) == 0 {
				return fmt.Errorf("pass at least one record id or --stale")
			}
			if stale > 0 && len(args) > 0 {
				return fmt.Errorf("record ids and --stale are mutually exclusive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			e, err := openEnv(true)
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			if stale > 0 {
				ids, err = staleIDs(ctx, e.records, time.Now().Add(-stale))
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no stale records")
					return nil
				}
			}

			pub := publisher.New(e.rabbit, e.logger.Logger)
			return requeue(ctx, e.records, pub, ids, cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&stale, "stale", 0, "Requeue records in Processing for longer than this (e.g. 30m)")
	return cmd
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid record id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func staleIDs(ctx context.Context, st requeueStore, olderThan time.Time) ([]int64, error) {
	records, err := st.ListStale(ctx, domain.StatusProcessing, olderThan, staleBatchLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	return ids, nil
}

// requeue resets each record to Waiting before publishing. It keeps going
// past individual failures and reports them at the end.
func requeue(ctx context.Context, st requeueStore, pub jobPublisher, ids []int64, out io.Writer) error {
	failed := 0
	for _, id := range ids {
		found, err := st.GetByID(ctx, id)
		if err != nil {
			fmt.Fprintf(out, "%d\terror: %v\n", id, err)
			failed++
			continue
		}
		rec, ok := found.Get()
		if !ok {
			fmt.Fprintf(out, "%d\tnot found\n", id)
			failed++
			continue
		}

		if err := st.UpdateStatus(ctx, id, domain.StatusWaiting); err != nil {
			fmt.Fprintf(out, "%d\terror: %v\n", id, err)
			failed++
			continue
		}

		result := pub.Publish(ctx, rec)
		if !result.Queued {
			fmt.Fprintf(out, "%d\tnot queued: %v\n", id, result.Err)
			failed++
			continue
		}
		fmt.Fprintf(out, "%d\tqueued (was %s)\n", id, rec.Status)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d records not requeued", failed, len(ids))
	}
	return nil
}
