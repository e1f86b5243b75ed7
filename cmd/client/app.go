package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/siteadmin/internal/client/api"
	"github.com/atinyakov/siteadmin/internal/client/session"
	"github.com/atinyakov/siteadmin/internal/config"
	"github.com/atinyakov/siteadmin/internal/logger"
)

var errNotLoggedIn = errors.New("not logged in, run `siteadmin login` first")

// app is the wiring shared by every command.
type app struct {
	cfg     config.Client
	log     *logger.Logger
	session *session.Store
	api     *api.Client
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadClient(configFile)
	if err != nil {
		return nil, err
	}
	if changed(cmd, "api-url") {
		cfg.APIURL = apiURL
	}
	if changed(cmd, "session") {
		cfg.SessionFile = sessionFile
	}
	if changed(cmd, "log-level") {
		cfg.LogLevel = logLevel
	}
	if changed(cmd, "ca") {
		cfg.CAFile = caFile
	}

	l := logger.New()
	if err := l.Init(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	store, err := session.Open(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	hc, err := api.NewHTTPClient(cfg.CAFile, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     l,
		session: store,
		api:     api.New(cfg.APIURL, hc, store, l.Log),
	}, nil
}

func (a *app) requireLogin() error {
	if !a.session.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}

func (a *app) Close() {
	_ = a.log.Log.Sync()
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}
