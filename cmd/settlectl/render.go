package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cuongbtq/settlement-pipeline/internal/artifact"
	"github.com/cuongbtq/settlement-pipeline/internal/document"
)

func newRenderCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render a record's document without touching its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			found, err := e.records.GetByID(ctx, ids[0])
			if err != nil {
				return err
			}
			rec, ok := found.Get()
			if !ok {
				return fmt.Errorf("record %d not found", ids[0])
			}

			store, err := e.artifacts(ctx, outDir)
			if err != nil {
				return err
			}

			location, err := document.NewRenderer(store, e.cfg.Document.Options(), e.logger.Logger).Render(ctx, rec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write to this directory instead of the configured backend")
	return cmd
}

func newArtifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts <id>",
		Short: "List the documents stored for a record, newest last",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid record id %q", args[0])
			}

			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer e.close()

			store, err := e.artifacts(cmd.Context(), "")
			if err != nil {
				return err
			}
			list, err := store.List(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printArtifacts(cmd, list)
		},
	}
	return cmd
}

func printArtifacts(cmd *cobra.Command, list []artifact.Artifact) error {
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no documents")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED\tLOCATION")
	for _, a := range list {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", a.Name, a.Size, a.ModTime.Format("2006-01-02 15:04:05"), a.Location)
	}
	return w.Flush()
}
