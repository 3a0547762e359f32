// Command jobctl is the operator CLI for the job store: search, lookup,
// publish and one-off ingestion runs.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(defaultCore).Execute(); err != nil {
		os.Exit(1)
	}
}
