package main

import (
	"os"

	"beacon-transmitter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
