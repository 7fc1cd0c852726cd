package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

const usage = `usage: pdfcheck [flags] <file.pdf>
       pdfcheck batch [flags] <list-file>`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cmd, args := "check", os.Args[1:]
	if args[0] == "batch" {
		cmd, args = "batch", args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "YAML config file (default ./"+defaultConfigFile+" if present)")
	provider := fs.String("provider", "", "text generation provider: gemini, openai or ollama")
	model := fs.String("model", "", "model name")
	baseURL := fs.String("base-url", "", "provider endpoint override")
	outDir := fs.String("out", "", "directory for saved results")
	timeout := fs.Int("timeout", 0, "narrative request timeout in seconds")
	saveJSON := fs.Bool("json", false, "save <file>_analysis.json")
	saveReport := fs.Bool("report", false, "save <file>_ai_analysis.txt")
	showRaw := fs.Bool("raw", false, "print the raw metadata")
	noAI := fs.Bool("no-ai", false, "skip the AI analysis")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}

	// Config loading logs at debug level; -debug must already apply there.
	log.SetDefault(newLogger(os.Stderr, startupLogLevel(*debug)))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *timeout != 0 {
		cfg.TimeoutSec = *timeout
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	cfg.resolveAPIKey()

	log.SetDefault(newLogger(os.Stderr, cfg.LogLevel))

	interactive := isTerminal(os.Stdin) && isTerminal(os.Stderr)
	withAI := !*noAI

	if withAI && needsAPIKey(cfg.Provider) && cfg.APIKey == "" && interactive {
		key, err := promptPassword("Enter the Password:")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		cfg.APIKey = key
		if cfg.APIKey == "" {
			fmt.Fprintln(os.Stderr, "Please enter the Password to use AI analysis.")
			os.Exit(1)
		}
	}

	if err := cfg.Validate(withAI); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	opts := runOptions{
		cfg:         cfg,
		writeJSON:   *saveJSON,
		writeReport: *saveReport,
		showRaw:     *showRaw,
		interactive: interactive,
		out:         os.Stdout,
		now:         time.Now,
	}

	fmt.Printf("System Date: %s\n", dateContext(time.Now()).Formatted)

	if withAI {
		narrator, err := newNarrator(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		opts.narrator = narrator
		fmt.Println(successStyle.Render("AI is ready to be used!"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "batch":
		total, failed, err := runBatch(ctx, opts, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Processed %d inputs (%d errors)\n", total, failed)
	default:
		path := fs.Arg(0)
		if !isPDF(path) {
			fmt.Fprintf(os.Stderr, "error: %s is not a readable .pdf file\n", path)
			os.Exit(1)
		}
		fmt.Printf("File uploaded: %s\n", path)
		if err := processFile(ctx, opts, path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func startupLogLevel(debug bool) string {
	if debug {
		return "debug"
	}
	return "info"
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
