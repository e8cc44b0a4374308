package main

import (
	"os"

	"github.com/firefly-engineering/tmplcheck/cmd"
	"github.com/firefly-engineering/tmplcheck/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
