package main

import (
	"os"

	"github.com/sciencedex/scorecard-audit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
