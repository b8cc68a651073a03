// cmd/tools/portfolio-cli/main.go
package main

import (
	"os"

	"portfolio-scoring-workers/cmd/tools/portfolio-cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
