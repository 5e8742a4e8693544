// main holds the entry logic for the slopscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/slopscan/slopscan/cmd"
	"github.com/slopscan/slopscan/internal/iocache"
)

// main is the entry point for the slopscan analyzer.
func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseCaching()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
