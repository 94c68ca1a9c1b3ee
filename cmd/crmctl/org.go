package main

import (
	"context"
	"fmt"
	"io"

	"github.com/merocrm/mero-crm/pkg/collection"
	"github.com/merocrm/mero-crm/pkg/crmclient"
	"github.com/urfave/cli/v2"
)

// listSensitive loads one page of a permission gated console collection.
// Lacking permission prints a blocking notice in place of the table, and
// no toast.
func listSensitive[T any](ctx context.Context, e *env, lister collection.Lister[T], what string,
	q crmclient.ListQuery, w io.Writer, headers []string, row func(T) []string) error {
	f := collection.New[T](lister,
		collection.Sensitive(),
		collection.WithNotifier(e.notifier()),
		collection.WithLogger(e.logger),
	)
	defer f.Close()

	page, err := f.Load(ctx, q)
	if err != nil {
		if f.Snapshot().Status == collection.StatusForbidden {
			fmt.Fprintf(e.stderr, "Unauthorized\nYour role cannot open %s. Ask an owner or admin of the organization for access.\n", what)
		}
		return errReported
	}
	return printPage(w, page, headers, row)
}

func (e *env) orgCommand() *cli.Command {
	return &cli.Command{
		Name:  "org",
		Usage: "organization console",
		Subcommands: []*cli.Command{
			{
				Name:  "users",
				Usage: "list the organization's members",
				Flags: listFlags(),
				Action: func(cCtx *cli.Context) error {
					q, err := listQuery(cCtx)
					if err != nil {
						return err
					}
					return listSensitive(cCtx.Context, e,
						collection.ListerFunc[crmclient.Member](e.client.Org().Users), "users", q, cCtx.App.Writer,
						[]string{"ID", "EMAIL", "NAME", "ROLE"},
						func(m crmclient.Member) []string {
							return []string{m.UserID, m.Email, m.FirstName + " " + m.LastName, m.Role}
						})
				},
			},
			{
				Name:  "tickets",
				Usage: "list support tickets",
				Flags: listFlags(),
				Action: func(cCtx *cli.Context) error {
					q, err := listQuery(cCtx)
					if err != nil {
						return err
					}
					return listSensitive[crmclient.Ticket](cCtx.Context, e,
						e.client.Org().Tickets(), "tickets", q, cCtx.App.Writer,
						[]string{"ID", "SUBJECT", "PRIORITY", "STATUS"},
						func(t crmclient.Ticket) []string {
							return []string{t.ID, t.Subject, t.Priority, t.Status}
						})
				},
			},
		},
	}
}
