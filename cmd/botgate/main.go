package main

import (
	"os"

	"github.com/botforge/botgate/internal/command"
)

func main() {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
