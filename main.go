package main

import (
	"os"

	"github.com/cryptonique0/cecd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
