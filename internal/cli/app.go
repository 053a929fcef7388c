package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/colmreid/readlater/internal/calendar"
	"github.com/colmreid/readlater/internal/config"
	"github.com/colmreid/readlater/internal/lifecycle"
	"github.com/colmreid/readlater/internal/store"
)

// app bundles the wired-up dependencies every command needs.
type app struct {
	cfg     *config.Config
	store   *store.Store
	gateway calendar.Gateway
	manager *lifecycle.Manager
	loc     *time.Location
	out     *OutputFormatter
}

// openApp loads config, opens the store, and builds the lifecycle manager.
// Callers must close() when done.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "resolve timezone", err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}

	gateway := calendar.NewClient(cfg.Calendar.BaseURL)
	manager := lifecycle.New(st, gateway, lifecycle.WithLocation(loc))

	return &app{
		cfg:     cfg,
		store:   st,
		gateway: gateway,
		manager: manager,
		loc:     loc,
		out:     &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Location: loc},
	}, nil
}

func (a *app) close() {
	_ = a.store.Close()
}

// account resolves the calendar credential, failing as a command error:
// remote-affecting commands must check this before doing any work.
func (a *app) account() (calendar.Account, error) {
	acct, err := a.cfg.Account()
	if err != nil {
		return calendar.Account{}, WrapExitError(ExitCommandError, "calendar account", err)
	}
	return acct, nil
}

// timeFormats are the accepted layouts for --at, tried in order.
var timeFormats = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
}

// parseAt parses a user-supplied schedule time in the configured timezone.
func (a *app) parseAt(raw string) (time.Time, error) {
	for _, layout := range timeFormats {
		if t, err := time.ParseInLocation(layout, raw, a.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (want e.g. %q)", raw, "2006-01-02 15:04")
}
