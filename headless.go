package main

import (
	"context"
	"fmt"
	"io"

	"rtui/config"
	appmodel "rtui/model"
)

// runHeadless runs one turn through the same session as the UI, prints the
// answer to out and saves the report when one is offered. Trace notes go to
// errOut.
func runHeadless(ctx context.Context, app *appmodel.Model, input string, out, errOut io.Writer) error {
	seen := len(app.Session.Transcript())
	outcome, err := app.Assistant.HandleTurn(ctx, app.Session, input)
	app.FinishTurn(appmodel.TurnDoneMsg{Outcome: outcome, Err: err})

	for _, entry := range app.Session.Transcript()[seen:] {
		if entry.Note == appmodel.NoteTrace {
			fmt.Fprintln(errOut, entry.Content)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, outcome.Text)
	if app.Report() == nil {
		return nil
	}

	saved, ok := app.SaveReport()().(appmodel.ReportSavedMsg)
	if !ok {
		return fmt.Errorf("failed to save report: unexpected result")
	}
	if saved.Err != nil {
		return saved.Err
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Main] Headless report saved to %s", saved.Path)
	}
	fmt.Fprintf(errOut, "📄 Report saved to %s\n", saved.Path)
	return nil
}
