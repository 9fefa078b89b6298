package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mappa-dev/mappa/internal/config"
)

func checkCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var (
		registry string
		pattern  string
	)

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Verify source id references against the registry",
		Long: `Scan source files for resource-id references and verify each one
exists in the application's registry.

The registry comes from a running application's listing endpoint or a
listing file. Exit status is 1 when unknown references are found and
2 when the scan or the registry fetch fails.

Examples:
  mappa check --registry http://localhost:8080/.mappa/resources
  mappa check --registry resources.txt src/ templates/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return exitCode(2, err)
			}
			if registry == "" {
				registry = cfg.Registry
			}
			if pattern == "" {
				pattern = cfg.IDPattern
			}

			reg, err := loadRegistry(cmd, registry)
			if err != nil {
				return exitCode(2, err)
			}
			refs, err := collectRefs(args, pattern)
			if err != nil {
				return exitCode(2, err)
			}

			bad := 0
			for _, ref := range refs {
				if _, err := reg.Lookup(ref.ID); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: unknown resource-id %s\n", ref.File, ref.Line, ref.ID)
					bad++
				}
			}
			if bad > 0 {
				errorMsg("%d unknown reference(s) out of %d", bad, len(refs))
				return exitCode(1, nil)
			}
			success("%d reference(s) all known to the registry", len(refs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&registry, "registry", "r", "", "Registry listing URL or file")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Resource-id regexp (default the @@Name convention)")

	return cmd
}
