package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"notes-go/internal/diff"
	"notes-go/internal/model"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// printNoteLine writes a one-line summary: id, date, title.
func printNoteLine(w io.Writer, n model.Note) {
	fmt.Fprintf(w, "%s  %s  %s\n", cyan(fmt.Sprintf("#%-4d", n.ID)), faint(n.Date), bold(n.Title))
}

// printNote writes the full note.
func printNote(w io.Writer, n model.Note) {
	printNoteLine(w, n)
	if n.Description == "" {
		return
	}
	for _, line := range strings.Split(n.Description, "\n") {
		fmt.Fprintf(w, "       %s\n", line)
	}
}

// printChange writes one list change as seen by the list view.
func printChange(w io.Writer, op diff.Op) {
	switch op.Kind {
	case diff.Insert:
		fmt.Fprintf(w, "%s [%d] ", green("+"), op.Pos)
	case diff.Remove:
		fmt.Fprintf(w, "%s [%d] ", red("-"), op.Pos)
	case diff.Change:
		fmt.Fprintf(w, "%s [%d] ", yellow("~"), op.Pos)
	case diff.Move:
		fmt.Fprintf(w, "%s [%d->%d] ", cyan(">"), op.From, op.To)
	}
	printNoteLine(w, op.Note)
}

func success(msg string) string {
	return green("✓ ") + msg
}
