package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mappa-dev/mappa/internal/config"
	merrors "github.com/mappa-dev/mappa/internal/errors"
	"github.com/mappa-dev/mappa/pkg/mapper"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitError carries a specific process exit status through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func exitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mappa",
		Short: "Resource mapping tools",
		Long: `Mappa maps URLs to handlers through an explicit resource tree and
gives every resource a stable id. This CLI is the collaborator side:
it greps sources for resource-id references, verifies them against a
running application's registry, and reports link and access coverage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default .mappa.yml if present)")

	loadConfig := func() (config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(
		grepCmd(loadConfig),
		checkCmd(loadConfig),
		coverageCmd(loadConfig),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		code := 1
		var ee *exitError
		if merrors.As(err, &ee) {
			code = ee.code
			err = ee.err
		}
		if err != nil {
			var me *merrors.MappaError
			if merrors.As(err, &me) {
				fmt.Fprintln(os.Stderr, me.Format())
			} else {
				errorMsg("%s", err)
			}
		}
		os.Exit(code)
	}
}

// loadRegistry reads the resource listing from a URL or a local file.
func loadRegistry(cmd *cobra.Command, source string) (*mapper.Registry, error) {
	if source == "" {
		return nil, fmt.Errorf("no registry source: pass --registry or set it in the config file")
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return mapper.LoadURL(cmd.Context(), source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return mapper.Load(f)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
