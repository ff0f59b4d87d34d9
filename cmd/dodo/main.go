package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/okatav/dodo/internal/cli"
)

func main() {
	// a local .env may carry DODO_* overrides; missing is fine
	_ = godotenv.Load()

	// Root flags (apply to every subcommand)
	group := flag.Bool("group", false, "group ls output by pending/done")
	theme := flag.String("theme", "", "theme: classic, neon or mono")
	debug := flag.Bool("debug", false, "write debug logs to ~/.dodo/debug.log")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Group: *group,
		Theme: *theme,
		Debug: *debug,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
