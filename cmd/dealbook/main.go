package main

import (
	"os"

	"github.com/rustyeddy/dealbook/cmd/dealbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
