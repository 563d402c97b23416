package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Tsinling0525/flowpatch/model"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	successStyle = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow, color.Bold)
	errorStyle   = color.New(color.FgRed, color.Bold)
	mutedStyle   = color.New(color.FgHiBlack)
	addStyle     = color.New(color.FgGreen)
	delStyle     = color.New(color.FgRed)
	hunkStyle    = color.New(color.FgCyan)
)

const (
	checkmark = "✓"
	bullet    = "•"
	warnmark  = "⚠"
	xmark     = "✗"
)

func printHeader(w io.Writer, title string) {
	headerStyle.Fprintln(w, title)
	headerStyle.Fprintln(w, strings.Repeat("=", len(title)))
}

// printReport lists per-node outcomes, then diagnostics.
func printReport(w io.Writer, report model.Report) {
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("%s: %s", o.Node, o.Action)
		if o.Detail != "" {
			line += " (" + o.Detail + ")"
		}
		if o.Changed {
			successStyle.Fprintf(w, "  %s %s\n", checkmark, line)
		} else {
			mutedStyle.Fprintf(w, "  %s %s\n", bullet, line)
		}
	}
	for _, d := range report.Diagnostics {
		warningStyle.Fprintf(w, "  %s %s\n", warnmark, d.String())
	}
}

func printSuccess(w io.Writer, msg string) { successStyle.Fprintf(w, "%s %s\n", checkmark, msg) }

func printFailure(w io.Writer, msg string) { errorStyle.Fprintf(w, "%s %s\n", xmark, msg) }

// unifiedDiff renders a unified diff of two documents, empty when equal.
func unifiedDiff(before, after []byte, fromFile, toFile string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: fromFile,
		ToFile:   toFile,
		Context:  3,
	})
}

func printDiff(w io.Writer, before, after []byte, fromFile, toFile string) {
	diff, err := unifiedDiff(before, after, fromFile, toFile)
	if err != nil {
		printFailure(w, "diff: "+err.Error())
		return
	}
	if diff == "" {
		mutedStyle.Fprintln(w, "no changes")
		return
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			headerStyle.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunkStyle.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			addStyle.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			delStyle.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
