package commands

import (
	"fmt"
	"strconv"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/render"
	"trainvoc-updates/internal/service"

	"github.com/spf13/cobra"
)

func notesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "notes [version-code]",
		Short: "Show the current update notes, or those of one version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes := e.store.GetUpdateNotes()
			if len(args) == 1 {
				code, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version code %q", args[0])
				}
				var ok bool
				if notes, ok = e.store.Version(code); !ok {
					return fmt.Errorf("version %d: %w", code, service.ErrVersionNotFound)
				}
			}
			render.Notes(e.out, notes)
			return nil
		},
	}
}

func changelogCmd(e *env) *cobra.Command {
	var (
		query    string
		category string
	)

	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "List every version, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := domain.ChangelogQuery{Query: query}
			if category != "" {
				t, ok := domain.LookupUpdateType(category)
				if !ok {
					return fmt.Errorf("unknown type %q: want NEW, IMPROVED or FIXED", category)
				}
				q.Category = &t
			}

			result := service.NewChangelogService(e.store).Search(q)
			render.Changelog(e.out, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "text to search for")
	cmd.Flags().StringVarP(&category, "type", "t", "", "only versions with a NEW, IMPROVED or FIXED highlight")
	return cmd
}
