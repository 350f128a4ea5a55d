package main

import (
	"os"

	"github.com/Vawe4321/vendor-core/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
