package main

import (
	"fmt"
	"os"

	"github.com/eshaffer321/ration-form/internal/cli"
	"github.com/eshaffer321/ration-form/internal/infrastructure/config"
)

func main() {
	flags, err := cli.ParseServeFlags("expense-form", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "expense-form: %v\n", err)
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "expense-form: %v\n", err)
		os.Exit(1)
	}
}
