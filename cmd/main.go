package main

import (
	"os"

	"github.com/soundprediction/correlato/cmd/correlato"
)

func main() {
	if err := correlato.Execute(); err != nil {
		os.Exit(1)
	}
}
