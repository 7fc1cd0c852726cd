package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// runBatch processes every PDF listed in filePath, one path per line.
// Blank lines and lines starting with '#' are skipped.
func runBatch(ctx context.Context, opts runOptions, filePath string) (total, failed int, err error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if ctx.Err() != nil {
			return total, failed, ctx.Err()
		}

		total++
		fmt.Fprintf(opts.out, "Processing: %s...\n", line)
		if err := processFile(ctx, opts, line); err != nil {
			if errors.Is(err, errCancelled) {
				return total, failed, err
			}
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			failed++
		}
	}

	return total, failed, scanner.Err()
}
