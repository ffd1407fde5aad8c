package main

import (
	"os"

	"github.com/chomins/autocommit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
