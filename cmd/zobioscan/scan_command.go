package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/florisjonkman/Zobioweb/internal/journal"
	"github.com/florisjonkman/Zobioweb/internal/notifications"
	"github.com/florisjonkman/Zobioweb/internal/printer"
	"github.com/florisjonkman/Zobioweb/internal/session"
	"github.com/florisjonkman/Zobioweb/internal/vault"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <operation>",
		Short: "Run an interactive scan session",
		Long: "Starts an interactive scan session for one of the vault operations:\n" +
			"add, check-in, check-out, or delete. Scanned barcodes are validated\n" +
			"against the vault one by one and submitted as a single batch at the end.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := vault.ParseOperation(args[0])
			if err != nil {
				return err
			}
			return runScanSession(cmd, ctx, op)
		},
	}
	return cmd
}

func runScanSession(cmd *cobra.Command, ctx *commandContext, op vault.Operation) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return errors.New("another scan session is already running")
	}
	defer func() { _ = lock.Unlock() }()

	cat, err := catalogFromConfig(cfg.Containers)
	if err != nil {
		return err
	}

	store, err := journal.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := ctx.vaultClient()
	if err != nil {
		return err
	}

	runner := &scanRunner{
		prompt:   newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		out:      cmd.OutOrStdout(),
		client:   client,
		store:    store,
		printer:  printer.NewConfiguredService(cfg),
		notify:   notifications.NewService(cfg),
		operator: session.Operator{Username: cfg.Operator.Name, FullName: cfg.Operator.FullName},
	}
	runner.session = session.New(op, client, cat, runner.operator, logger, runner.showNotice)

	err = runner.run(cmd.Context())
	if err == io.EOF {
		fmt.Fprintln(runner.out, "Session ended")
		return nil
	}
	return err
}

type scanRunner struct {
	prompt   *prompter
	out      io.Writer
	session  *session.Session
	client   *vault.Client
	store    *journal.Store
	printer  printer.Service
	notify   notifications.Service
	operator session.Operator
}

func (r *scanRunner) showNotice(notice session.Notice) {
	switch notice.Level {
	case session.NoticeError:
		fmt.Fprintf(r.out, "ERROR: %s\n", notice.Message)
	case session.NoticeWarning:
		fmt.Fprintf(r.out, "WARNING: %s\n", notice.Message)
	default:
		fmt.Fprintln(r.out, notice.Message)
	}
}

func (r *scanRunner) run(ctx context.Context) error {
	for {
		var err error
		switch r.session.Step() {
		case session.StepSelectProject:
			err = r.selectProject(ctx)
		case session.StepSelectContainer:
			err = r.selectContainer()
		case session.StepScanItems:
			err = r.scanItems(ctx)
		case session.StepPrintLabels:
			err = r.printLabels(ctx)
		case session.StepSubmitted:
			again, finishErr := r.finish(ctx)
			if finishErr != nil {
				return finishErr
			}
			if !again {
				return nil
			}
			r.session.End()
			continue
		default:
			return fmt.Errorf("unexpected session step %s", r.session.Step())
		}
		if err != nil {
			return err
		}
	}
}

func (r *scanRunner) selectProject(ctx context.Context) error {
	projects, err := r.client.ListProjects(ctx)
	if err != nil {
		r.notifyError(ctx, err, "project listing")
		return err
	}
	if len(projects) == 0 {
		return errors.New("the vault reports no projects")
	}

	rows := make([][]string, 0, len(projects))
	for _, project := range projects {
		rows = append(rows, []string{strconv.FormatInt(project.ID, 10), project.Name})
	}
	fmt.Fprintln(r.out, renderTable(
		[]string{"ID", "Name"},
		rows,
		[]columnAlignment{alignRight, alignLeft},
	))

	for {
		answer, err := r.prompt.line("Project (id or name, 'quit' to exit): ")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "":
			continue
		case "quit", "q", "exit":
			return io.EOF
		}

		project, ok := matchProject(projects, answer)
		if !ok {
			fmt.Fprintf(r.out, "No project matches %q\n", answer)
			continue
		}
		if err := r.session.SelectProject(ctx, project); err != nil {
			if errors.Is(err, vault.ErrVault) {
				r.notifyError(ctx, err, "project selection")
				fmt.Fprintf(r.out, "ERROR: %v\n", err)
				continue
			}
			return err
		}
		return nil
	}
}

func matchProject(projects []vault.Project, input string) (vault.Project, bool) {
	if id, err := strconv.ParseInt(input, 10, 64); err == nil {
		for _, project := range projects {
			if project.ID == id {
				return project, true
			}
		}
	}
	for _, project := range projects {
		if strings.EqualFold(project.Name, input) {
			return project, true
		}
	}
	return vault.Project{}, false
}

func (r *scanRunner) selectContainer() error {
	suggested, hasSuggestion := r.session.SuggestedContainer()
	for {
		promptText := "Container type (name, 'back'): "
		if hasSuggestion {
			promptText = fmt.Sprintf("Container type [Enter for %s] (name, 'back'): ", suggested.Name)
		}
		answer, err := r.prompt.line(promptText)
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "":
			if !hasSuggestion {
				continue
			}
			if err := r.session.UseSuggestedContainer(); err != nil {
				return err
			}
			return nil
		case "back":
			return r.session.Back(true)
		}

		if err := r.session.ChooseContainer(answer); err != nil {
			fmt.Fprintf(r.out, "ERROR: %v\n", err)
			continue
		}
		return nil
	}
}

func (r *scanRunner) scanItems(ctx context.Context) error {
	op := r.session.Operation()
	fmt.Fprintf(r.out, "Scanning for %s. %s\n", op, op.StatusHint())
	if op.AssignsLocation() {
		fmt.Fprintf(r.out, "Container: %s\n", r.session.ContainerBarcode())
	}

	for r.session.Step() == session.StepScanItems {
		answer, err := r.prompt.line("Barcode ('done', 'list', 'remove <n>', 'back'): ")
		if err != nil {
			return err
		}

		fields := strings.Fields(answer)
		command := ""
		if len(fields) > 0 {
			command = strings.ToLower(fields[0])
		}

		switch command {
		case "":
			continue
		case "done":
			if err := r.finishBatch(ctx, op); err != nil {
				return err
			}
		case "list":
			r.listRecords()
		case "remove":
			if len(fields) != 2 {
				fmt.Fprintln(r.out, "Usage: remove <sequence number>")
				continue
			}
			seq, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				fmt.Fprintf(r.out, "Not a sequence number: %s\n", fields[1])
				continue
			}
			if err := r.session.RemoveRecord(seq); err != nil {
				fmt.Fprintf(r.out, "ERROR: %v\n", err)
			}
		case "back":
			if err := r.goBack(); err != nil {
				return err
			}
		default:
			record, scanErr := r.session.Scan(ctx, answer)
			if scanErr != nil {
				if errors.Is(scanErr, session.ErrScanRejected) ||
					errors.Is(scanErr, session.ErrDuplicateBarcode) {
					continue
				}
				r.notifyError(ctx, scanErr, "barcode validation")
				fmt.Fprintf(r.out, "ERROR: %v\n", scanErr)
				continue
			}
			fmt.Fprintf(r.out, "%d. %s -> %s %s\n",
				record.SequenceID, record.Barcode, record.ContainerBarcode, record.SlotLabel)
		}
	}
	return nil
}

// finishBatch closes the scan list. Add moves on to label printing; the other
// operations confirm and submit immediately.
func (r *scanRunner) finishBatch(ctx context.Context, op vault.Operation) error {
	count := len(r.session.Records())
	if count == 0 {
		fmt.Fprintln(r.out, "Nothing scanned yet")
		return nil
	}

	if op.AssignsLocation() {
		return r.session.FinishScanning()
	}

	confirmed, err := r.prompt.confirm(op.ConfirmPrompt(count))
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}
	return r.submit(ctx)
}

func (r *scanRunner) goBack() error {
	if len(r.session.Records()) == 0 {
		return r.session.Back(true)
	}
	confirmed, err := r.prompt.confirm("Going back discards the scanned items. Continue?")
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}
	return r.session.Back(true)
}

func (r *scanRunner) printLabels(ctx context.Context) error {
	labels := r.containerLabels()
	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{label.ContainerBarcode, strconv.Itoa(label.Box), strconv.Itoa(label.ItemCount)})
	}
	fmt.Fprintln(r.out, renderTable(
		[]string{"Container", "Box", "Items"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))

	for {
		answer, err := r.prompt.line("Print labels and submit ('print', 'skip', 'back'): ")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "print":
			accepted, printErr := r.printer.PrintLabels(ctx, labels)
			if printErr != nil {
				r.notifyError(ctx, printErr, "label printing")
				fmt.Fprintf(r.out, "ERROR: %v\n", printErr)
				continue
			}
			if accepted {
				fmt.Fprintf(r.out, "Sent %d label(s) to the printer\n", len(labels))
			} else {
				fmt.Fprintln(r.out, "Label printing is disabled; continuing without labels")
			}
		case "skip", "":
			// fall through to submission
		case "back":
			return r.session.Back(true)
		default:
			continue
		}

		confirmed, err := r.prompt.confirm(r.session.Operation().ConfirmPrompt(len(r.session.Records())))
		if err != nil {
			return err
		}
		if !confirmed {
			continue
		}
		return r.submit(ctx)
	}
}

func (r *scanRunner) containerLabels() []printer.Label {
	project, _ := r.session.Project()
	var labels []printer.Label
	counts := map[string]int{}
	order := []string{}
	boxes := map[string]int{}
	for _, record := range r.session.Records() {
		if _, seen := counts[record.ContainerBarcode]; !seen {
			order = append(order, record.ContainerBarcode)
			boxes[record.ContainerBarcode] = record.Coordinate.Box
		}
		counts[record.ContainerBarcode]++
	}
	for _, barcode := range order {
		labels = append(labels, printer.Label{
			ContainerBarcode: barcode,
			Project:          project.Name,
			Box:              boxes[barcode],
			ItemCount:        counts[barcode],
		})
	}
	return labels
}

func (r *scanRunner) submit(ctx context.Context) error {
	if _, err := r.session.Submit(ctx); err != nil {
		r.notifyError(ctx, err, "batch submission")
		fmt.Fprintf(r.out, "ERROR: %v\n", err)
	}
	return nil
}

func (r *scanRunner) listRecords() {
	records := r.session.Records()
	if len(records) == 0 {
		fmt.Fprintln(r.out, "Nothing scanned yet")
		return
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.SequenceID),
			record.Barcode,
			record.ContainerBarcode,
			record.SlotLabel,
			record.Timestamp.Format(vault.TimestampFormat),
		})
	}
	fmt.Fprintln(r.out, renderTable(
		[]string{"#", "Barcode", "Container", "Slot", "Scanned"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	))
}

// finish reports the submission outcome, journals it, and asks whether to
// start another batch. Records() still holds the submitted list because End
// has not run yet.
func (r *scanRunner) finish(ctx context.Context) (bool, error) {
	result, ok := r.session.Result()
	if !ok {
		return false, errors.New("submission finished without a result")
	}
	records := r.session.Records()
	project, _ := r.session.Project()
	op := r.session.Operation()

	failures := make(map[string]vault.FailedRecord, len(result.Failed))
	for _, failed := range result.Failed {
		failures[failed.Barcode] = failed
	}

	journalRecords := make([]journal.Record, 0, len(records))
	for _, record := range records {
		entry := journal.Record{
			Sequence:         record.SequenceID,
			Barcode:          record.Barcode,
			Box:              record.Coordinate.Box,
			SlotLabel:        record.SlotLabel,
			ContainerBarcode: record.ContainerBarcode,
			Status:           journal.RecordSubmitted,
		}
		if failed, isFailed := failures[record.Barcode]; isFailed {
			entry.Status = journal.RecordFailed
			entry.FailureReason = failed.Reason
		}
		journalRecords = append(journalRecords, entry)
	}

	batch, err := r.store.RecordSubmission(ctx, journal.Batch{
		Operation:   op.String(),
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Operator:    r.operator.Username,
	}, journalRecords)
	if err != nil {
		fmt.Fprintf(r.out, "WARNING: could not record submission in the journal: %v\n", err)
	}

	submitted := len(records) - len(result.Failed)
	if result.Success {
		fmt.Fprintf(r.out, "Submitted %d item(s) for %s\n", submitted, project.Name)
		if notifyErr := r.notify.NotifySubmissionCompleted(ctx, op.String(), project.Name, submitted); notifyErr != nil {
			fmt.Fprintf(r.out, "WARNING: notification failed: %v\n", notifyErr)
		}
	} else {
		fmt.Fprintf(r.out, "Submitted %d item(s), %d failed:\n", submitted, len(result.Failed))
		for _, failed := range result.Failed {
			fmt.Fprintf(r.out, "  %s (%s): %s\n", failed.Barcode, failed.Status, failed.Reason)
		}
		if notifyErr := r.notify.NotifySubmissionPartial(ctx, op.String(), project.Name, submitted, len(result.Failed)); notifyErr != nil {
			fmt.Fprintf(r.out, "WARNING: notification failed: %v\n", notifyErr)
		}
	}
	if batch != nil {
		fmt.Fprintf(r.out, "Journaled as batch %s\n", batch.ID)
	}

	return r.prompt.confirm("Start another batch?")
}

func (r *scanRunner) notifyError(ctx context.Context, err error, label string) {
	if notifyErr := r.notify.NotifyError(ctx, err, label); notifyErr != nil {
		fmt.Fprintf(r.out, "WARNING: notification failed: %v\n", notifyErr)
	}
}
