package cli

import (
	"flag"
	"io"
)

// ServeFlags holds the CLI flags shared by the server commands.
type ServeFlags struct {
	ConfigPath string
	Port       int
	Verbose    bool
}

// ParseServeFlags parses command line flags for a server command.
// A zero Port leaves the configured port in place.
func ParseServeFlags(name string, args []string) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Configuration file path")
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (0 = from config)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}
