// Command crmctl is an operator CLI for the Mero CRM API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/merocrm/mero-crm/pkg/crmclient"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const defaultBaseURL = "http://localhost:8080/api/v1"

// env is shared by every command. It is filled in by the app's Before hook.
type env struct {
	v           *viper.Viper
	stderr      io.Writer
	logger      *slog.Logger
	baseURL     string
	sessionFile string
	session     *crmclient.Session
	client      *crmclient.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp(newViper(), os.Stdout, os.Stderr).RunContext(ctx, os.Args)
	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(1)
}

// newViper reads CRM_* settings from the environment
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CRM")
	v.AutomaticEnv()
	v.SetDefault("BASE_URL", defaultBaseURL)
	if dir, err := os.UserConfigDir(); err == nil {
		v.SetDefault("SESSION_FILE", filepath.Join(dir, "mero-crm", "session.json"))
	} else {
		v.SetDefault("SESSION_FILE", ".crm-session.json")
	}
	return v
}

func newApp(v *viper.Viper, stdout, stderr io.Writer) *cli.App {
	e := &env{v: v, stderr: stderr}

	return &cli.App{
		Name:      "crmctl",
		Usage:     "work with a Mero CRM organization from the terminal",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "API root, including /api/v1 (default $CRM_BASE_URL)"},
			&cli.StringFlag{Name: "session-file", Usage: "where the session is kept (default $CRM_SESSION_FILE)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log requests and failures"},
		},
		Before: func(cCtx *cli.Context) error {
			level := slog.LevelError
			if cCtx.Bool("verbose") {
				level = slog.LevelDebug
			}
			e.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			e.baseURL = v.GetString("BASE_URL")
			if cCtx.IsSet("base-url") {
				e.baseURL = cCtx.String("base-url")
			}
			e.sessionFile = v.GetString("SESSION_FILE")
			if cCtx.IsSet("session-file") {
				e.sessionFile = cCtx.String("session-file")
			}

			session, err := loadSession(e.sessionFile)
			if err != nil {
				return err
			}
			e.session = session
			e.client = crmclient.New(e.baseURL, session, crmclient.WithUserAgent("crmctl"))
			return nil
		},
		Commands: []*cli.Command{
			e.loginCommand(),
			e.unlockCommand(),
			e.lockCommand(),
			e.logoutCommand(),
			e.whoamiCommand(),
			e.listCommand(),
			e.getCommand(),
			e.deleteCommand(),
			e.restoreCommand(),
			e.convertCommand(),
			e.pdfCommand(),
			e.sendCommand(),
			e.exportCommand(),
			e.orgCommand(),
			totalsCommand(),
		},
	}
}
