package modelconv

import (
	"embed"
	"io"
	"os"

	"github.com/arthur-debert/modelconv/internal/version"
	"github.com/arthur-debert/modelconv/pkg/artifacts"
	"github.com/arthur-debert/modelconv/pkg/cobrax/topics"
	"github.com/arthur-debert/modelconv/pkg/config"
	"github.com/arthur-debert/modelconv/pkg/errors"
	"github.com/arthur-debert/modelconv/pkg/filesystem"
	"github.com/arthur-debert/modelconv/pkg/logging"
	"github.com/arthur-debert/modelconv/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// app holds the state shared by the commands of one invocation
type app struct {
	fs             afero.Fs
	workDir        string
	userConfigPath string

	verbosity  int
	configFile string
	format     string
	repository string
}

// NewRootCmd creates the root command working on the real filesystem
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{fs: filesystem.NewOS(), workDir: "."})
}

// Execute runs the CLI and returns the process exit code. Errors are
// rendered to stderr in the selected output format.
func Execute() int {
	a := &app{fs: filesystem.NewOS(), workDir: "."}
	rootCmd := newRootCmd(a)
	if err := rootCmd.Execute(); err != nil {
		renderError(a, os.Stderr, err)
		return 1
	}
	return 0
}

func renderError(a *app, w io.Writer, err error) {
	// An invalid --format falls back to auto detection
	format, ferr := ui.ParseFormat(a.format)
	if ferr != nil {
		format = ui.FormatAuto
	}
	renderer, rerr := ui.NewRenderer(format, w)
	if rerr != nil {
		renderer, _ = ui.NewRenderer(ui.FormatText, w)
	}
	_ = renderer.RenderError(err)
}

func newRootCmd(a *app) *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "modelconv",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity, console output on the command's stderr
			logging.SetupLoggerWithOutput(a.verbosity, cmd.ErrOrStderr())
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		// Without a subcommand there is nothing to convert
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags, shared by every subcommand
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&a.repository, "repository", "", MsgFlagRepository)

	// Command groups, rendered as sections by the usage template
	rootCmd.AddGroup(&cobra.Group{ID: "convert", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	// Conversions
	rootCmd.AddCommand(newToFeatureCmd(a))
	rootCmd.AddCommand(newToProvisioningCmd(a))

	// Misc
	rootCmd.AddCommand(newGenConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))
	rootCmd.AddCommand(newCompletionCmd())

	// Help topics replace the default help command; failing to load them is not fatal
	opts := topics.Options{
		Extensions: []string{".txt", ".md"},
		Renderer:   topics.NewGlamourRenderer(),
	}
	if _, err := topics.Initialize(rootCmd, topicsFS, "topics", opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	return rootCmd
}

// loadConfig layers the configuration sources; overrides hold the flags
// given on the command line
func (a *app) loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	// --repository overrides maven.local_repository for every command
	if a.repository != "" {
		if overrides == nil {
			overrides = map[string]interface{}{}
		}
		overrides["maven.local_repository"] = a.repository
	}
	return config.Load(config.LoadOptions{
		WorkDir:        a.workDir,
		UserConfigPath: a.userConfigPath,
		ConfigFile:     a.configFile,
		Overrides:      overrides,
	})
}

func (a *app) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := ui.ParseFormat(a.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// resolver returns the local Maven repository, or nil when none can be located
func (a *app) resolver(cfg *config.Config) artifacts.Resolver {
	logger := logging.GetLogger("cli")
	root, err := artifacts.DefaultRoot(a.fs, cfg.Maven.LocalRepository)
	if err != nil {
		// Includes and prototypes then fail when resolved
		logger.Debug().Err(err).Msg("No local repository")
		return nil
	}
	logger.Debug().Str("repository", root).Msg("Using local repository")
	return artifacts.NewLocalRepository(a.fs, root)
}

// flagOverrides collects the config keys of the flags set on the command line
type flagOverrides struct {
	cmd    *cobra.Command
	values map[string]interface{}
}

func newFlagOverrides(cmd *cobra.Command) *flagOverrides {
	return &flagOverrides{cmd: cmd, values: map[string]interface{}{}}
}

func (o *flagOverrides) set(flag, key string, value interface{}) {
	if o.cmd.Flags().Changed(flag) {
		o.values[key] = value
	}
}
