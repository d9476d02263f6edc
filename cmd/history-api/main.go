package main

import (
	"fmt"
	"os"

	"github.com/eshaffer321/ration-form/internal/cli"
	"github.com/eshaffer321/ration-form/internal/infrastructure/config"
)

func main() {
	flags, err := cli.ParseServeFlags("history-api", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "history-api: %v\n", err)
		os.Exit(2)
	}

	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)

	if err := cli.RunHistory(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "history-api: %v\n", err)
		os.Exit(1)
	}
}
