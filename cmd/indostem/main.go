// Command indostem stems Indonesian text.
//
//	indostem stem [files...]      stem files, or stdin, to stdout
//	indostem analyze <words...>   show how each word was stemmed
//	indostem audit <dir>          check tokenizer and stemmer over a corpus
//	indostem serve                run the HTTP stemming service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
