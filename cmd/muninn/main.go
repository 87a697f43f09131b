// Command muninn is a small CLI over the muninn index library: create an
// index from a schema file, add documents, and search it.
package main

import (
	"fmt"
	"os"

	"github.com/nyo16/muninn/cmd/muninn/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
