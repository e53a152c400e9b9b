package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fjglira/specrunner/internal/cli"
)

func main() {
	err := cli.Execute()
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
