package main

import (
	"os"

	"github.com/tuannm99/elemsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
