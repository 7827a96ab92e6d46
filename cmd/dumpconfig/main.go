package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"trend_bot/internal/modules/config"
)

// dumpconfig печатает итоговый конфиг (defaults + yaml + env) без секретов.
func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	out, err := cfg.Dump()
	if err != nil {
		return errors.Wrap(err, "dump config")
	}
	if _, err := fmt.Fprint(os.Stdout, out); err != nil {
		return errors.Wrap(err, "write stdout")
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
