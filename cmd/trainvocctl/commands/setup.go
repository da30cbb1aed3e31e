package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"trainvoc-updates/internal/config"
	"trainvoc-updates/pkg/hash"

	"github.com/spf13/cobra"
)

func configCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the trainvocctl config file",
	}
	cmd.AddCommand(configInitCmd(e))
	return cmd
}

func configInitCmd(e *env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Long: "Write the defaults, merged with any flags given on this command line, to the\n" +
			"file named by --config. An existing file is kept unless --force is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(e.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite it", e.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := config.SaveFile(e.configPath, e.cfg); err != nil {
				return fmt.Errorf("write %s: %w", e.configPath, err)
			}
			fmt.Fprintf(e.out, "wrote %s\n", e.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func adminKeyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "admin-key [key]",
		Short: "Hash an admin key for the server's ADMIN_KEY_HASH",
		Long:  "Hash an admin key with bcrypt. The key is read from standard input when no\nargument is given, so it stays out of the shell history.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read admin key: %w", err)
				}
				key = strings.TrimRight(line, "\r\n")
			}

			hashed, err := hash.Hash(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "ADMIN_KEY_HASH=%s\n", hashed)
			return nil
		},
	}
}
