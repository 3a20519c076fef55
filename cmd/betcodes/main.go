package main

import (
	"betcodes/internal/di"
	"betcodes/internal/structures"
	"fmt"
	flag "github.com/spf13/pflag"
	"os"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVarP(&flags.ConfigPath, "config", "c", "config/betcodes.yaml", "path to the yaml config file")
	flag.BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to the console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "betcodes: %s\n", err)
		os.Exit(1)
	}
}
