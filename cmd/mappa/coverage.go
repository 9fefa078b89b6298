package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mappa-dev/mappa/internal/config"
	"github.com/mappa-dev/mappa/pkg/covstore"
	"github.com/mappa-dev/mappa/pkg/report"
)

func coverageCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var (
		registry string
		store    string
		covURL   string
		ignore   []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report never-accessed and never-rendered resources",
		Long: `Diff the registry's resource-ids against recorded coverage and
report the gaps: resources never dispatched to and resources no link
was ever generated for.

Coverage comes either from a shared store (--store, a connection
string like bolt://coverage.db) combined with the registry listing,
or straight from a running application's coverage endpoint (--url).

Exit status encodes the result for automation: 0 clean, 1 render
gaps only, 2 access gaps, 3 operational failure.

Examples:
  mappa coverage --registry http://localhost:8080/.mappa/resources --store bolt://coverage.db
  mappa coverage --url http://localhost:8080/.mappa/coverage
  mappa coverage --registry resources.txt --store mem:// --ignore @@DebugConsole`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return exitCode(3, err)
			}
			if registry == "" {
				registry = cfg.Registry
			}
			if store == "" {
				store = cfg.Coverage
			}
			ignore = append(ignore, cfg.Ignore...)

			var cov report.Coverage
			if covURL != "" {
				cov, err = fetchCoverage(cmd, covURL)
			} else {
				cov, err = computeCoverage(cmd, registry, store, ignore)
			}
			if err != nil {
				return exitCode(3, err)
			}

			if asJSON {
				out, err := json.MarshalIndent(cov, "", "  ")
				if err != nil {
					return exitCode(3, err)
				}
				fmt.Println(string(out))
			} else {
				printCoverage(cov)
			}

			if sev := cov.Severity(); sev != 0 {
				return exitCode(sev, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&registry, "registry", "r", "", "Registry listing URL or file")
	cmd.Flags().StringVarP(&store, "store", "s", "", "Coverage store connection string")
	cmd.Flags().StringVar(&covURL, "url", "", "Coverage endpoint of a running application")
	cmd.Flags().StringArrayVarP(&ignore, "ignore", "i", nil, "Resource-ids to exclude from the report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")

	return cmd
}

// computeCoverage runs the offline computation: registry listing plus
// shared store.
func computeCoverage(cmd *cobra.Command, registry, store string, ignore []string) (report.Coverage, error) {
	reg, err := loadRegistry(cmd, registry)
	if err != nil {
		return report.Coverage{}, err
	}
	st, err := covstore.Open(store)
	if err != nil {
		return report.Coverage{}, err
	}
	defer st.Close()
	records, err := st.All()
	if err != nil {
		return report.Coverage{}, err
	}
	return report.ComputeCoverage(reg.IDs(), reg.Unhandled(), records, ignore), nil
}

// fetchCoverage asks a running application for its own report.
func fetchCoverage(cmd *cobra.Command, covURL string) (report.Coverage, error) {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, covURL, nil)
	if err != nil {
		return report.Coverage{}, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return report.Coverage{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return report.Coverage{}, fmt.Errorf("coverage fetch from %s: %s", covURL, resp.Status)
	}

	var cov report.Coverage
	if err := json.NewDecoder(resp.Body).Decode(&cov); err != nil {
		return report.Coverage{}, fmt.Errorf("decoding coverage from %s: %w", covURL, err)
	}
	return cov, nil
}

func printCoverage(cov report.Coverage) {
	if cov.Clean() {
		success("full coverage: every resource accessed and rendered")
	}
	if len(cov.NeverAccessed) > 0 {
		errorMsg("%d resource(s) never accessed:", len(cov.NeverAccessed))
		for _, id := range cov.NeverAccessed {
			fmt.Printf("  %s\n", id)
		}
	}
	if len(cov.NeverRendered) > 0 {
		warn("%d resource(s) never rendered:", len(cov.NeverRendered))
		for _, id := range cov.NeverRendered {
			fmt.Printf("  %s\n", id)
		}
	}
	for _, id := range cov.UnknownIgnores {
		warn("ignore-list entry %s is not in the registry", id)
	}
}
