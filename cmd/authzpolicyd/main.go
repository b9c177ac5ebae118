// Command authzpolicyd is the reference host for the policy engine: a CLI
// that validates a policy configuration file, or runs it as a downstream
// enforcement step in front of an upstream HTTP server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
