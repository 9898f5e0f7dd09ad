// Package cli implements schoolctl, the operator command line for the
// school admin API.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"school-admin/internal/client"
	"school-admin/internal/config"
	"school-admin/internal/credential"
	"school-admin/internal/gateway"
	"school-admin/internal/logger"
	"school-admin/internal/view"
)

// ErrReported marks failures that were already shown through the notifier.
var ErrReported = errors.New("reported")

type Options struct {
	// Config is loaded from the environment when nil.
	Config *config.Client
	Out    io.Writer
	// Logger receives notifications and request logs. When nil a
	// PrettyHandler on stderr is installed as the default logger.
	Logger *slog.Logger
}

type session struct {
	cfg      *config.Client
	out      io.Writer
	store    *credential.FileStore
	api      *client.Client
	notifier view.Notifier
}

func NewRootCommand(opts Options) *cobra.Command {
	s := &session{}
	var apiURL string

	root := &cobra.Command{
		Use:           "schoolctl",
		Short:         "Manage classrooms and students through the school admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.open(opts, apiURL, cmd.OutOrStdout())
		},
	}
	if opts.Out != nil {
		root.SetOut(opts.Out)
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "API origin, overrides SCHOOL_API_URL")

	root.AddCommand(
		newLoginCommand(s),
		newLogoutCommand(s),
		newWhoamiCommand(s),
		newClassroomsCommand(s),
		newStudentsCommand(s),
		newAuditCommand(s),
	)
	return root
}

func (s *session) open(opts Options, apiURL string, out io.Writer) error {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.LoadClient()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if apiURL != "" {
		overridden := *cfg
		overridden.APIURL = apiURL
		cfg = &overridden
	}

	log := opts.Logger
	if log == nil {
		log = logger.Install(os.Stderr, cfg.LogLevel, cfg.NoColor)
	}

	s.cfg = cfg
	s.out = out
	s.store = credential.NewFileStore(cfg.TokenFile)
	s.notifier = view.LogNotifier{Logger: log}

	g, err := gateway.New(cfg.APIURL,
		credential.Chain{credential.Env(credential.DefaultEnvVar), s.store},
		gateway.WithTimeout(cfg.RequestTimeout),
		gateway.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		gateway.WithLogger(log),
		gateway.WithUserAgent("schoolctl"),
	)
	if err != nil {
		return err
	}
	s.api = client.New(g)
	return nil
}

// fail reports err through the notifier and marks it as reported.
func (s *session) fail(err error) error {
	if errors.Is(err, ErrReported) {
		return err
	}
	s.notifier.Error(view.TitleError, view.Describe(err))
	return fmt.Errorf("%w: %w", ErrReported, err)
}

// settled turns an Error phase into a reported error. The list already
// notified the message.
func settled[T any](state view.PageState[T]) error {
	if state.Phase == view.PhaseError {
		return fmt.Errorf("%w: %s", ErrReported, state.Message)
	}
	return nil
}

// reported marks an error a view controller has already notified.
func reported(err error) error {
	return fmt.Errorf("%w: %w", ErrReported, err)
}
