package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

const skippedNarrative = "AI analysis skipped."

type runOptions struct {
	cfg         Config
	narrator    Narrator // nil skips the narrative
	writeJSON   bool
	writeReport bool
	showRaw     bool
	interactive bool
	out         io.Writer
	now         func() time.Time
}

// processFile runs the whole pipeline for one PDF: extraction, rendering,
// narration and the optional artifacts.
func processFile(ctx context.Context, opts runOptions, path string) error {
	data, err := readPDF(path)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	result, err := checkPDF(name, data)
	if err != nil {
		return fmt.Errorf("error processing PDF: %w", err)
	}
	log.Info("pdf processed", "file", name, "status", result.ModificationStatus, "signature", result.DigitalSignature)

	fmt.Fprintln(opts.out, successStyle.Render("PDF processed successfully!"))
	renderResult(opts.out, result)

	narrative := skippedNarrative
	if opts.narrator != nil {
		timeout := time.Duration(opts.cfg.TimeoutSec) * time.Second
		err := runWithSpinner(ctx, opts.interactive, "Generating professional analysis...", func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			narrative = requestNarrative(ctx, opts.narrator, opts.now(), result)
			return nil
		})
		if err != nil {
			return err
		}
	}
	renderNarrative(opts.out, narrative)

	if opts.showRaw {
		if err := renderRaw(opts.out, result); err != nil {
			return err
		}
	}

	if opts.writeJSON {
		p, err := writeJSON(opts.cfg.OutputDir, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(opts.out, "Saved results to %s\n", p)
	}

	if opts.writeReport {
		p, err := writeReport(opts.cfg.OutputDir, opts.now(), result, narrative)
		if err != nil {
			return err
		}
		fmt.Fprintf(opts.out, "Saved report to %s\n", p)
	}

	return nil
}
