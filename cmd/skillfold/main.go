package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/skillfold/skillfold/internal/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		var coder urfavecli.ExitCoder
		if errors.As(err, &coder) {
			if msg := coder.Error(); msg != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
			}
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitUnexpected)
	}
}
