package main

import (
	"os"

	"github.com/midrangehq/go-fixedform/cmd/fixedform/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
