// Command lucid-console serves the Lucid fleet-management web console.
package main

import (
	"os"

	"github.com/lucid-sh/console/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
