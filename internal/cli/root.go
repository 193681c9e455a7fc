// Package cli defines the Cobra command tree of the wrk client.
// This file contains the root command, shared flags and per-invocation setup.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/config"
	wrklog "github.com/wrk-dev/wrk/internal/log"
	"github.com/wrk-dev/wrk/internal/session"
)

var version = "dev" // set via ldflags at build time

// errNotAuthenticated is returned before any request when a command needs
// a session and none is stored.
var errNotAuthenticated = errors.New("not authenticated; run: wrk login")

// annotationPublic marks commands that run without a session.
const annotationPublic = "public"

// app holds the flags and the collaborators built for one invocation.
type app struct {
	apiURL    string
	configDir string
	storage   string
	debug     bool

	cfg      *config.Config
	store    session.Storage
	session  *session.Session
	activity *wrklog.Logger
	log      *zap.SugaredLogger
	client   *api.Client
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wrk",
		Short: "Terminal client for the Wrk project-management API",
		Long: `wrk manages Scrum projects, sprints, user stories, tasks, rubrics and
evaluations from the terminal. Sign in once with 'wrk login'; the session is
kept under ~/.wrk until 'wrk logout'.`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.apiURL, "api-url", "", "Backend base URL (overrides api.base_url)")
	f.StringVar(&a.configDir, "config-dir", "", "Configuration directory (default ~/.wrk)")
	f.StringVar(&a.storage, "storage", "", "Session storage backend: sqlite, bolt or memory")
	f.BoolVar(&a.debug, "debug", false, "Log every request to stderr")

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.usersCmd(),
		a.projectsCmd(),
		a.sprintsCmd(),
		a.tasksCmd(),
		a.storiesCmd(),
		a.rubricsCmd(),
		a.evalsCmd(),
		a.retroCmd(),
		a.notificationsCmd(),
		a.docsCmd(),
		a.metricsCmd(),
		a.boardCmd(),
		a.logCmd(),
	)
	a.closeAfterRun(root)
	return root
}

// closeAfterRun wraps every runnable command so the session store is closed
// whether or not the command fails. Cobra skips post-run hooks on error.
func (a *app) closeAfterRun(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		a.closeAfterRun(sub)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if cerr := a.close(); err == nil {
			err = cerr
		}
		return err
	}
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup reads config, opens the session store and builds the API client.
func (a *app) setup(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if err != nil {
			_ = a.close()
		}
	}()

	dir := a.configDir
	if dir == "" {
		d, err := config.DefaultDir()
		if err != nil {
			return err
		}
		dir = d
		a.configDir = d
	}

	cfg, err := config.ReadConfig(dir)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.storage != "" {
		cfg.Storage.Backend = a.storage
	}
	a.cfg = cfg

	a.log, err = wrklog.NewDiagnostic(cfg.Log.Level, a.debug)
	if err != nil {
		return err
	}

	store, err := session.Open(cfg.Storage.Backend, dir)
	if err != nil {
		return fmt.Errorf("opening session storage: %w", err)
	}
	a.store = store
	a.session = session.New(a.store)

	opts := []api.Option{api.WithLogger(a.log)}
	if cfg.Log.Activity {
		a.activity, err = wrklog.NewLogger(dir)
		if err != nil {
			return err
		}
		opts = append(opts, api.WithActivityLog(a.activity))
	}
	a.client = api.New(cfg.API.BaseURL, a.session, opts...)

	if cmd.Annotations[annotationPublic] == "" && !a.session.Authenticated() {
		return errNotAuthenticated
	}
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.store == nil {
		return nil
	}
	store := a.store
	a.store = nil
	return store.Close()
}

// public marks cmd as runnable without a session.
func public(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationPublic] = "true"
	return cmd
}
