// Command zooapi serves the animal collection over HTTP and queries it from
// the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "zooapi:", err)
		os.Exit(1)
	}
}
