package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFixture(t *testing.T, dir, name string, info []pdfEntry) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buildTestPDF(t, info), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func testOptions(t *testing.T, n Narrator, out *bytes.Buffer) runOptions {
	t.Helper()
	cfg := defaultConfig()
	cfg.OutputDir = t.TempDir()
	return runOptions{
		cfg:         cfg,
		narrator:    n,
		writeJSON:   true,
		writeReport: true,
		out:         out,
		now:         func() time.Time { return time.Date(2023, 6, 15, 9, 0, 0, 0, time.UTC) },
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "receipt.pdf", []pdfEntry{
		{"Producer", "(Crystal Reports)"},
		{"CreationDate", "(D:20220101120000+05'00')"},
	})

	var out bytes.Buffer
	n := &fakeNarrator{text: "Looks authentic."}
	opts := testOptions(t, n, &out)

	if err := processFile(context.Background(), opts, path); err != nil {
		t.Fatalf("processFile failed: %v", err)
	}

	for _, w := range []string{"PDF processed successfully!", "Original", "Not Present", "Looks authentic."} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q", w)
		}
	}
	if !strings.Contains(n.prompt, "Producer: Crystal Reports") {
		t.Errorf("narrator received unexpected prompt")
	}

	report, err := os.ReadFile(filepath.Join(opts.cfg.OutputDir, "receipt.pdf_ai_analysis.txt"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "PROFESSIONAL ANALYSIS:\nLooks authentic.") {
		t.Errorf("report missing narrative:\n%s", report)
	}
	if _, err := os.Stat(filepath.Join(opts.cfg.OutputDir, "receipt.pdf_analysis.json")); err != nil {
		t.Errorf("json not written: %v", err)
	}
}

func TestProcessFile_NarrativeFailureStillWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "scan.pdf", []pdfEntry{{"Title", "(Scan)"}})

	var out bytes.Buffer
	opts := testOptions(t, &fakeNarrator{err: errors.New("network unreachable")}, &out)

	if err := processFile(context.Background(), opts, path); err != nil {
		t.Fatalf("processFile failed: %v", err)
	}
	if !strings.Contains(out.String(), "Error analyzing with AI: network unreachable") {
		t.Errorf("error narrative not rendered:\n%s", out.String())
	}

	report, err := os.ReadFile(filepath.Join(opts.cfg.OutputDir, "scan.pdf_ai_analysis.txt"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "PROFESSIONAL ANALYSIS:\nError analyzing with AI") {
		t.Errorf("report missing error narrative")
	}
}

type blockingNarrator struct{}

func (blockingNarrator) Narrate(ctx context.Context, prompt string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestProcessFile_NarrativeTimeout(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "slow.pdf", []pdfEntry{{"Title", "(Slow)"}})

	var out bytes.Buffer
	opts := testOptions(t, blockingNarrator{}, &out)
	opts.cfg.TimeoutSec = 1

	start := time.Now()
	if err := processFile(context.Background(), opts, path); err != nil {
		t.Fatalf("processFile failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("narrative was not bounded by the timeout: took %v", elapsed)
	}

	if !strings.Contains(out.String(), "Error analyzing with AI: context deadline exceeded") {
		t.Errorf("timeout not rendered as an error narrative:\n%s", out.String())
	}

	report, err := os.ReadFile(filepath.Join(opts.cfg.OutputDir, "slow.pdf_ai_analysis.txt"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(report), "PROFESSIONAL ANALYSIS:\nError analyzing with AI: context deadline exceeded") {
		t.Errorf("report missing timeout narrative")
	}
	if _, err := os.Stat(filepath.Join(opts.cfg.OutputDir, "slow.pdf_analysis.json")); err != nil {
		t.Errorf("json not written: %v", err)
	}
}

func TestProcessFile_WithoutNarrator(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "plain.pdf", nil)

	var out bytes.Buffer
	opts := testOptions(t, nil, &out)
	opts.showRaw = true

	if err := processFile(context.Background(), opts, path); err != nil {
		t.Fatalf("processFile failed: %v", err)
	}
	if !strings.Contains(out.String(), skippedNarrative) {
		t.Errorf("expected skipped narrative in output")
	}
	if !strings.Contains(out.String(), "Raw Metadata") {
		t.Errorf("expected raw metadata section")
	}
}

func TestProcessFile_InvalidPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.pdf")
	if err := os.WriteFile(path, []byte("<html>not a pdf</html>"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	var out bytes.Buffer
	n := &fakeNarrator{text: "unused"}
	opts := testOptions(t, n, &out)

	err := processFile(context.Background(), opts, path)
	if !errors.Is(err, ErrInvalidPDF) {
		t.Fatalf("expected ErrInvalidPDF, got %v", err)
	}
	if n.prompt != "" {
		t.Fatal("narrator should not be called for invalid input")
	}

	entries, _ := os.ReadDir(opts.cfg.OutputDir)
	if len(entries) != 0 {
		t.Fatalf("no artifacts expected, found %v", entries)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	first := writeFixture(t, dir, "a.pdf", []pdfEntry{{"Title", "(A)"}})
	second := writeFixture(t, dir, "b.pdf", []pdfEntry{{"Title", "(B)"}})

	list := filepath.Join(dir, "inputs.txt")
	content := strings.Join([]string{
		"# monthly statements",
		first,
		"",
		filepath.Join(dir, "missing.pdf"),
		"   " + second + "   ",
	}, "\n")
	if err := os.WriteFile(list, []byte(content), 0o644); err != nil {
		t.Fatalf("writing list: %v", err)
	}

	var out bytes.Buffer
	opts := testOptions(t, &fakeNarrator{text: "ok"}, &out)
	opts.writeReport = false

	total, failed, err := runBatch(context.Background(), opts, list)
	if err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 inputs, got %d", total)
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}

	for _, name := range []string{"a.pdf_analysis.json", "b.pdf_analysis.json"} {
		if _, err := os.Stat(filepath.Join(opts.cfg.OutputDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestRunBatch_MissingList(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, nil, &out)
	if _, _, err := runBatch(context.Background(), opts, filepath.Join(t.TempDir(), "none.txt")); err == nil {
		t.Fatal("expected an error for a missing list file")
	}
}

func TestRunBatch_StopsWhenCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.pdf", nil)
	list := filepath.Join(dir, "inputs.txt")
	if err := os.WriteFile(list, []byte(path+"\n"+path+"\n"), 0o644); err != nil {
		t.Fatalf("writing list: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	total, _, err := runBatch(ctx, testOptions(t, nil, &out), list)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no inputs processed, got %d", total)
	}
}
