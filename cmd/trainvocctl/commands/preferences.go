package commands

import (
	"context"
	"fmt"
	"strconv"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/render"
	"trainvoc-updates/internal/repository"
	"trainvoc-updates/internal/service"

	"github.com/spf13/cobra"
)

// withPreferences runs fn against the local preference store and waits for
// its writes to be committed before returning.
func withPreferences(e *env, fn func(ctx context.Context, prefs *service.PreferenceService) (*domain.UpdateStatus, error)) error {
	repo, err := repository.NewSQLitePreferenceRepository(e.cfg.PrefsDB)
	if err != nil {
		return err
	}
	defer repo.Close()

	prefs := service.NewPreferenceService(repo, e.store, e.log)
	status, err := fn(context.Background(), prefs)
	if cerr := prefs.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	render.Status(e.out, e.cfg.DeviceID, status)
	return nil
}

func versionArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	code, err := strconv.Atoi(args[0])
	if err != nil || code < 1 {
		return 0, fmt.Errorf("invalid version code %q", args[0])
	}
	return code, nil
}

func statusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the update notes are due for this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPreferences(e, func(ctx context.Context, prefs *service.PreferenceService) (*domain.UpdateStatus, error) {
				return prefs.Status(ctx, e.cfg.DeviceID)
			})
		},
	}
}

func seenCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seen [version-code]",
		Short: "Mark a version's notes as seen (default: current version)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := versionArg(args)
			if err != nil {
				return err
			}
			return withPreferences(e, func(ctx context.Context, prefs *service.PreferenceService) (*domain.UpdateStatus, error) {
				return prefs.MarkSeen(ctx, e.cfg.DeviceID, code)
			})
		},
	}
}

func dismissCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss [version-code]",
		Short: "Never show a version's notes again (default: current version)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := versionArg(args)
			if err != nil {
				return err
			}
			return withPreferences(e, func(ctx context.Context, prefs *service.PreferenceService) (*domain.UpdateStatus, error) {
				return prefs.Dismiss(ctx, e.cfg.DeviceID, code)
			})
		},
	}
}
