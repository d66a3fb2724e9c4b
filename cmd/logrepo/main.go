// Command logrepo writes and reads the execution logs of a workflow engine.
package main

import (
	"os"

	"github.com/process-engine/logrepo/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
