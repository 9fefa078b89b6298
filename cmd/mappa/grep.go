package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mappa-dev/mappa/internal/config"
	"github.com/mappa-dev/mappa/internal/scan"
)

func grepCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var (
		pattern string
		unique  bool
	)

	cmd := &cobra.Command{
		Use:   "grep [paths...]",
		Short: "Find resource-id references in source trees",
		Long: `Scan source files for resource-id references.

Ids are found textually, so this works on any language or template
syntax as long as ids keep their distinctive prefix. With no paths
the current directory is scanned recursively.

Examples:
  mappa grep
  mappa grep src/ templates/
  mappa grep --unique
  mappa grep --pattern 'R_[A-Z]+' legacy/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if pattern == "" {
				pattern = cfg.IDPattern
			}
			refs, err := collectRefs(args, pattern)
			if err != nil {
				return err
			}

			if unique {
				for _, id := range scan.Unique(refs) {
					fmt.Println(id)
				}
				return nil
			}
			for _, ref := range refs {
				fmt.Printf("%s:%d: %s\n", ref.File, ref.Line, ref.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "Resource-id regexp (default the @@Name convention)")
	cmd.Flags().BoolVarP(&unique, "unique", "u", false, "Print each id once, sorted")

	return cmd
}

// collectRefs scans the given paths, defaulting to the working
// directory. Files and directories mix freely.
func collectRefs(paths []string, pattern string) ([]scan.Ref, error) {
	s, err := scan.New(pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var refs []scan.Ref
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		var found []scan.Ref
		if info.IsDir() {
			found, err = s.Dir(path)
		} else {
			found, err = s.File(path)
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, found...)
	}
	return refs, nil
}
