package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/florisjonkman/Zobioweb/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [batch-id]",
		Short: "Show previously submitted batches",
		Long: "Without arguments, history lists recent submissions from the local journal.\n" +
			"With a batch id, it shows the individual records of that submission.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				return showBatch(cmd, store, args[0], jsonOutput)
			}
			return listBatches(cmd, store, limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of batches to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func listBatches(cmd *cobra.Command, store *journal.Store, limit int, jsonOutput bool) error {
	batches, err := store.ListBatches(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd, batches)
	}

	if len(batches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No submissions recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(batches))
	for _, batch := range batches {
		result := "ok"
		if !batch.Success {
			result = fmt.Sprintf("%d failed", batch.FailedCount)
		}
		rows = append(rows, []string{
			batch.ID,
			batch.SubmittedAt.Local().Format("2006-01-02 15:04"),
			batch.Operation,
			batch.ProjectName,
			batch.Operator,
			strconv.Itoa(batch.RecordCount),
			result,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Batch", "Submitted", "Operation", "Project", "Operator", "Items", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func showBatch(cmd *cobra.Command, store *journal.Store, batchID string, jsonOutput bool) error {
	batch, err := store.GetBatch(cmd.Context(), batchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return fmt.Errorf("batch %s not found in the journal", batchID)
	}
	records, err := store.BatchRecords(cmd.Context(), batchID)
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd, struct {
			Batch   *journal.Batch    `json:"batch"`
			Records []*journal.Record `json:"records"`
		}{batch, records})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch %s: %s for %s by %s at %s\n",
		batch.ID, batch.Operation, batch.ProjectName, batch.Operator,
		batch.SubmittedAt.Local().Format(time.RFC1123))

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		detail := rec.Status
		if rec.FailureReason != "" {
			detail = fmt.Sprintf("%s (%s)", rec.Status, rec.FailureReason)
		}
		rows = append(rows, []string{
			strconv.Itoa(rec.Sequence),
			rec.Barcode,
			rec.ContainerBarcode,
			strconv.Itoa(rec.Box),
			rec.SlotLabel,
			detail,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Barcode", "Container", "Box", "Slot", "Status"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}
