// menuqa answers menu questions over a vendor dataset export.
// Single binary: ask once, chat, serve HTTP, or inspect the dataset.
package main

import (
	"os"

	"github.com/corey/menuqa/cmd/menuqa/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
