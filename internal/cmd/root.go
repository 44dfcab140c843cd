// Package cmd implements the teamctl command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/simonbystrom/teamctl/internal/agent"
	"github.com/simonbystrom/teamctl/internal/config"
	"github.com/simonbystrom/teamctl/internal/logging"
	"github.com/simonbystrom/teamctl/internal/state"
	"github.com/simonbystrom/teamctl/internal/style"
	"github.com/simonbystrom/teamctl/internal/team"
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

func exitf(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// app holds everything a command needs once flags and config are loaded.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v       *viper.Viper
	cfg     config.Config
	paths   config.Paths
	locator config.Locator

	registry  *team.Registry
	store     *state.Store
	styles    style.Styles
	lifecycle agent.Lifecycle

	// newLifecycle builds the agent backend; tests replace it.
	newLifecycle func(a *app) agent.Lifecycle
	closeLog     func() error
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:        stdin,
		stdout:       stdout,
		stderr:       stderr,
		v:            viper.New(),
		locator:      config.NewLocator(),
		newLifecycle: tmuxLifecycle,
	}
}

func tmuxLifecycle(a *app) agent.Lifecycle {
	return agent.NewManager(
		agent.NewCatalog(a.paths.AgentsDir),
		agent.WithSessionPrefix(a.cfg.Tmux.SessionPrefix),
		agent.WithLauncher(a.cfg.Tmux.Launcher),
		agent.WithHistoryLimit(a.cfg.Tmux.HistoryLimit),
	)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "teamctl",
		Short: "Coordinate teams of agents",
		Long: `teamctl groups agents into named teams, hands tasks to a team's lead
and follows the output of every member in one stream.

Teams are Markdown files with a YAML header, read from the teams directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is "+config.Path()+")")
	flags.String("teams-dir", "", "directory holding team files")
	flags.String("agents-dir", "", "directory holding agent definitions")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("paths.teams_dir", flags.Lookup("teams-dir"))
	_ = a.v.BindPFlag("paths.agents_dir", flags.Lookup("agents-dir"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newStatusCmd(a),
		newAssignCmd(a),
		newMonitorCmd(a),
		newCreateCmd(a),
	)
	return root
}

// overrides are the config keys flags and TEAMCTL_* variables may set.
var overrides = []string{
	"paths.teams_dir",
	"paths.agents_dir",
	"paths.state_dir",
	"log.level",
	"log.file",
	"tmux.session_prefix",
	"tmux.launcher",
}

func (a *app) init() error {
	a.v.SetEnvPrefix("TEAMCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	path := a.v.GetString("config")
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return exitf(2, "load config: %w", err)
	}
	for _, key := range overrides {
		if a.v.IsSet(key) {
			setOverride(&cfg, key, a.v.GetString(key))
		}
	}
	a.cfg = cfg

	closeLog, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return exitf(2, "set up logging: %w", err)
	}
	a.closeLog = closeLog

	a.paths = a.locator.Resolve(cfg.Paths)
	a.registry = team.NewRegistry(a.paths.TeamsDir)
	a.store = state.NewStore(a.paths.StateDir)
	a.styles = style.New(cfg.Colors)
	a.lifecycle = a.newLifecycle(a)
	return nil
}

func setOverride(cfg *config.Config, key, value string) {
	switch key {
	case "paths.teams_dir":
		cfg.Paths.TeamsDir = value
	case "paths.agents_dir":
		cfg.Paths.AgentsDir = value
	case "paths.state_dir":
		cfg.Paths.StateDir = value
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "tmux.session_prefix":
		cfg.Tmux.SessionPrefix = value
	case "tmux.launcher":
		cfg.Tmux.Launcher = value
	}
}

// workDirLookup resolves working directory variables from the environment,
// falling back to the repository root for $REPO_ROOT.
func (a *app) workDirLookup() func(string) (string, bool) {
	fallbacks := map[string]string{}
	if root := a.locator.RepoRoot(); root != "" {
		fallbacks["REPO_ROOT"] = root
	}
	return team.EnvLookup(fallbacks)
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// run executes the command line and returns the exit code.
func run(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	a.close()
	if err == nil {
		return 0
	}

	fmt.Fprintln(a.stderr, a.styles.Error.Render("error:"), err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute runs teamctl with the process arguments and returns the exit code.
func Execute() int {
	return run(context.Background(), newApp(os.Stdin, os.Stdout, os.Stderr), os.Args[1:])
}
