package commands

import (
	"io"
	"os"

	"trainvoc-updates/internal/assets"
	"trainvoc-updates/internal/config"
	"trainvoc-updates/internal/logging"
	"trainvoc-updates/internal/service"

	"github.com/spf13/cobra"
)

// env is the state shared by every command, built once the flags are parsed.
type env struct {
	configPath string
	cfg        config.FileConfig
	log        *logging.Logger
	store      *service.NotesStore
	out        io.Writer
}

type rootFlags struct {
	configPath  string
	assetsDir   string
	prefsDB     string
	deviceID    string
	versionName string
	versionCode int
	logLevel    string
}

func Execute() error {
	return newRootCmd(os.Stdout).Execute()
}

func newRootCmd(out io.Writer) *cobra.Command {
	var flags rootFlags
	e := &env{out: out}

	root := &cobra.Command{
		Use:          "trainvocctl",
		Short:        "Inspect Trainvoc update notes, changelog and navigation routes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(flags.configPath)
			if err != nil {
				return err
			}

			pf := cmd.Flags()
			if pf.Changed("assets") {
				cfg.AssetsDir = flags.assetsDir
			}
			if pf.Changed("db") {
				cfg.PrefsDB = flags.prefsDB
			}
			if pf.Changed("device") {
				cfg.DeviceID = flags.deviceID
			}
			if pf.Changed("version-name") {
				cfg.VersionName = flags.versionName
			}
			if pf.Changed("version-code") {
				cfg.VersionCode = flags.versionCode
			}
			if pf.Changed("log-level") {
				cfg.LogLevel = flags.logLevel
			}

			e.configPath = flags.configPath
			e.cfg = cfg
			e.log = logging.New(logging.ParseLevel(cfg.LogLevel))
			e.log.SetOutput(cmd.ErrOrStderr())
			e.store = service.NewNotesStore(assets.Open(cfg.AssetsDir), cfg.VersionName, cfg.VersionCode, e.log)
			return nil
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.FilePath(), "config file")
	pf.StringVar(&flags.assetsDir, "assets", "", "directory with updates.json and all_versions.json (default: bundled)")
	pf.StringVar(&flags.prefsDB, "db", "", "preferences database (default ~/.trainvoc/preferences.db)")
	pf.StringVar(&flags.deviceID, "device", "", "device whose preferences are read and written")
	pf.StringVar(&flags.versionName, "version-name", "", "current app version name")
	pf.IntVar(&flags.versionCode, "version-code", 0, "current app version code")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		notesCmd(e),
		changelogCmd(e),
		statusCmd(e),
		seenCmd(e),
		dismissCmd(e),
		routesCmd(e),
		resolveCmd(e),
		browseCmd(e),
		configCmd(e),
		adminKeyCmd(e),
	)
	return root
}
