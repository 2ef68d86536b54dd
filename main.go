package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"vaspio/internal/cli"
	"vaspio/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic recovered", "error", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "vaspio crashed: %v\n", r)
			log.Close()
			os.Exit(2)
		}
	}()

	cli.Version, cli.Commit, cli.Date = version, commit, date

	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		log.Close()
		os.Exit(1)
	}
}
