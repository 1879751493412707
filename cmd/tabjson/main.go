// Command tabjson converts spreadsheet and CSV tables with dot-delimited
// headers into nested JSON records.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tabjson:", err)
		stop()
		os.Exit(1)
	}
}
