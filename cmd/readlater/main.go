package main

import (
	"fmt"
	"os"

	"github.com/colmreid/readlater/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "readlater: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
