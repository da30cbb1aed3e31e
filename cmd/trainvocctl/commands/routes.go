package commands

import (
	"trainvoc-updates/internal/navigation"
	"trainvoc-updates/internal/render"
	"trainvoc-updates/internal/service"

	"github.com/spf13/cobra"
)

func routesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the app's navigation routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := navigation.AppGraph()
			render.Routes(e.out, g.StartDestination(), g.Routes())
			return nil
		},
	}
}

func resolveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve <route>",
		Short:   "Resolve a route or deep link to its destination",
		Example: "  trainvocctl resolve 'changelog?versionCode=12'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := service.NewChangelogService(e.store).ResolveDeepLink(navigation.AppGraph(), args[0])
			if err != nil {
				return err
			}
			render.Match(e.out, link.Match)
			if link.Version != nil {
				render.Notes(e.out, link.Version)
			}
			return nil
		},
	}
}
