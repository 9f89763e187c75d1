// Command rosterctl is the operator CLI for the yearbook API: it parses roster files, submits
// them as bulk uploads and saves the generated credentials.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
