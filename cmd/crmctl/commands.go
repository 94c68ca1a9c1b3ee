package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/merocrm/mero-crm/pkg/crmclient"
	"github.com/merocrm/mero-crm/pkg/totals"
	"github.com/urfave/cli/v2"
)

var passwordFlag = &cli.StringFlag{
	Name:    "password",
	Usage:   "account password, read from stdin when empty",
	EnvVars: []string{"CRM_PASSWORD"},
}

// password returns the flag value or the first line of stdin
func password(cCtx *cli.Context) (string, error) {
	if p := cCtx.String("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(cCtx.App.ErrWriter, "Password: ")
	line, err := bufio.NewReader(cCtx.App.Reader).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func requireArgs(cCtx *cli.Context, n int) error {
	if cCtx.NArg() != n {
		return fmt.Errorf("usage: %s %s %s", cCtx.App.Name, cCtx.Command.Name, cCtx.Command.ArgsUsage)
	}
	return nil
}

func printJSON(cCtx *cli.Context, v any) error {
	enc := json.NewEncoder(cCtx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *env) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true, EnvVars: []string{"CRM_EMAIL"}},
			passwordFlag,
			&cli.StringFlag{Name: "tenant", Usage: "organization id when the account belongs to several"},
		},
		Action: func(cCtx *cli.Context) error {
			pw, err := password(cCtx)
			if err != nil {
				return err
			}
			res, err := e.client.Auth().Login(cCtx.Context, crmclient.LoginRequest{
				Email:    cCtx.String("email"),
				Password: pw,
				TenantID: cCtx.String("tenant"),
			})
			if err != nil {
				return err
			}
			if err := saveSession(e.sessionFile, e.session); err != nil {
				return err
			}
			fmt.Fprintf(cCtx.App.Writer, "Signed in as %s (%s)\n", res.User.Email, res.Role)
			return nil
		},
	}
}

func (e *env) unlockCommand() *cli.Command {
	return &cli.Command{
		Name:  "unlock",
		Usage: "re-enter the password to open the CRM",
		Flags: []cli.Flag{passwordFlag},
		Action: func(cCtx *cli.Context) error {
			pw, err := password(cCtx)
			if err != nil {
				return err
			}
			s, err := e.client.Auth().Unlock(cCtx.Context, pw)
			if err != nil {
				return err
			}
			if err := saveSession(e.sessionFile, e.session); err != nil {
				return err
			}
			fmt.Fprintf(cCtx.App.Writer, "Unlocked until %s\n", s.ExpiresAt.Local().Format("15:04"))
			return nil
		},
	}
}

func (e *env) lockCommand() *cli.Command {
	return &cli.Command{
		Name:  "lock",
		Usage: "close the app session",
		Action: func(cCtx *cli.Context) error {
			lockErr := e.client.Auth().Lock(cCtx.Context)
			if err := saveSession(e.sessionFile, e.session); err != nil {
				return err
			}
			return lockErr
		},
	}
}

func (e *env) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "lock and forget the stored session",
		Action: func(cCtx *cli.Context) error {
			if !e.session.Locked() {
				if err := e.client.Auth().Lock(cCtx.Context); err != nil {
					e.logger.Warn("lock failed", "error", err)
				}
			}
			e.session.Clear()
			return removeSession(e.sessionFile)
		},
	}
}

func (e *env) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed-in user",
		Action: func(cCtx *cli.Context) error {
			u, err := e.client.Auth().Profile(cCtx.Context)
			if err != nil {
				return err
			}
			state := "unlocked"
			if e.session.Locked() {
				state = "locked"
			}
			fmt.Fprintf(cCtx.App.Writer, "%s %s <%s>\nrole %s in %s, %s\n",
				u.FirstName, u.LastName, u.Email, e.session.Role(), e.session.TenantID(), state)
			return nil
		},
	}
}

func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Value: 1},
		&cli.IntFlag{Name: "limit", Value: 10},
		&cli.StringFlag{Name: "search"},
		&cli.StringFlag{Name: "status"},
		&cli.StringSliceFlag{Name: "filter", Usage: "extra key=value query parameter"},
	}
}

// listQuery reads the flags of listFlags
func listQuery(cCtx *cli.Context) (crmclient.ListQuery, error) {
	q := crmclient.ListQuery{
		Page:    cCtx.Int("page"),
		Limit:   cCtx.Int("limit"),
		Search:  cCtx.String("search"),
		Status:  cCtx.String("status"),
		Filters: map[string]string{},
	}
	for _, kv := range cCtx.StringSlice("filter") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return q, fmt.Errorf("filter %q is not key=value", kv)
		}
		q.Filters[k] = v
	}
	return q, nil
}

func (e *env) listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list one page of a collection",
		ArgsUsage: "<resource>",
		Flags:     listFlags(),
		Action: func(cCtx *cli.Context) error {
			if err := requireArgs(cCtx, 1); err != nil {
				return err
			}
			r, err := lookup(cCtx.Args().First())
			if err != nil {
				return err
			}
			q, err := listQuery(cCtx)
			if err != nil {
				return err
			}
			return r.list(cCtx.Context, e, q, cCtx.App.Writer)
		},
	}
}

func (e *env) getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "show one record as JSON",
		ArgsUsage: "<resource> <id>",
		Action: func(cCtx *cli.Context) error {
			if err := requireArgs(cCtx, 2); err != nil {
				return err
			}
			r, err := lookup(cCtx.Args().Get(0))
			if err != nil {
				return err
			}
			item, err := r.get(cCtx.Context, e, cCtx.Args().Get(1))
			if err != nil {
				return err
			}
			return printJSON(cCtx, item)
		},
	}
}

func (e *env) deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "remove a record",
		ArgsUsage: "<resource> <id>",
		Action: func(cCtx *cli.Context) error {
			if err := requireArgs(cCtx, 2); err != nil {
				return err
			}
			r, err := lookup(cCtx.Args().Get(0))
			if err != nil {
				return err
			}
			if err := r.remove(cCtx.Context, e, cCtx.Args().Get(1)); err != nil {
				return err
			}
			fmt.Fprintln(cCtx.App.Writer, "Deleted")
			return nil
		},
	}
}

func (e *env) restoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "bring back a removed client, invoice or payment",
		ArgsUsage: "<resource> <id>",
		Action: func(cCtx *cli.Context) error {
			if err := requireArgs(cCtx, 2); err != nil {
				return err
			}
			name := cCtx.Args().Get(0)
			r, err := lookup(name)
			if err != nil {
				return err
			}
			if !r.restorable {
				return fmt.Errorf("%s cannot be restored", name)
			}
			item, err := r.restore(cCtx.Context, e, cCtx.Args().Get(1))
			if err != nil {
				return err
			}
			return printJSON(cCtx, item)
		},
	}
}

func (e *env) convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "turn a quote into an invoice",
		ArgsUsage: "<quote-id>",
		Action: func(cCtx *cli.Context) error {
			if err := requireArgs(cCtx, 1); err != nil {
				return err
			}
			inv, err := e.client.Quotes().ConvertToInvoice(cCtx.Context, cCtx.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintf(cCtx.App.Writer, "Created invoice %s (%s) for %s\n",
				inv.DisplayNumber, inv.ID, totals.FormatMoney(inv.Currency, inv.Total))
			return nil
		},
	}
}

func (e *env) pdfCommand() *cli.Command {
	return &cli.Command{
		Name:      "pdf",
		Usage:     "download an invoice or quote as PDF",
		ArgsUsage: "<invoices|quotes> <id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default <id>.pdf)"},
		},
		Action: func(cCtx *cli.Context) error {
			if err := requireArgs(cCtx, 2); err != nil {
				return err
			}
			kind, id := cCtx.Args().Get(0), cCtx.Args().Get(1)
			var (
				data []byte
				err  error
			)
			switch kind {
			case "invoices", "invoice":
				data, err = e.client.Invoices().PDF(cCtx.Context, id)
			case "quotes", "quote":
				data, err = e.client.Quotes().PDF(cCtx.Context, id)
			default:
				return fmt.Errorf("pdf is available for invoices and quotes, not %q", kind)
			}
			if err != nil {
				return err
			}
			out := cCtx.String("out")
			if out == "" {
				out = id + ".pdf"
			}
			return writeFile(cCtx, out, data)
		},
	}
}

func (e *env) sendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "mail an invoice to its client",
		ArgsUsage: "<invoice-id>",
		Action: func(cCtx *cli.Context) error {
			if err := requireArgs(cCtx, 1); err != nil {
				return err
			}
			if err := e.client.Invoices().Send(cCtx.Context, cCtx.Args().First()); err != nil {
				return err
			}
			fmt.Fprintln(cCtx.App.Writer, "Sent")
			return nil
		},
	}
}

func (e *env) exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "download the client list as a spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "clients.xlsx"},
			&cli.StringFlag{Name: "search"},
		},
		Action: func(cCtx *cli.Context) error {
			data, err := e.client.ExportClients(cCtx.Context, crmclient.ListQuery{Search: cCtx.String("search")})
			if err != nil {
				return err
			}
			return writeFile(cCtx, cCtx.String("out"), data)
		},
	}
}

func writeFile(cCtx *cli.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cCtx.App.Writer, "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

// totalsCommand prices a document locally, the same way the server does
func totalsCommand() *cli.Command {
	return &cli.Command{
		Name:  "totals",
		Usage: "compute document totals without calling the API",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "item", Aliases: []string{"i"}, Usage: "line as description:quantity:unit_price"},
			&cli.StringFlag{Name: "tax", Usage: "tax rate in percent"},
			&cli.StringFlag{Name: "discount"},
			&cli.StringFlag{Name: "currency"},
		},
		Action: func(cCtx *cli.Context) error {
			draft := totals.NewDraft(nil, totals.ParseNumber(cCtx.String("tax")), totals.ParseNumber(cCtx.String("discount")))
			for _, raw := range cCtx.StringSlice("item") {
				parts := strings.Split(raw, ":")
				if len(parts) != 3 {
					return fmt.Errorf("item %q is not description:quantity:unit_price", raw)
				}
				i := draft.AddItem(totals.LineItem{Description: parts[0]})
				draft.SetQuantityText(i, parts[1])
				draft.SetUnitPriceText(i, parts[2])
			}

			currency := cCtx.String("currency")
			money := func(v float64) string { return totals.FormatMoney(currency, v) }

			tw := tabwriter.NewWriter(cCtx.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
			for i, item := range draft.Items {
				fmt.Fprintf(tw, "%s\t%s x %s\t%s\t\n", item.Description,
					totals.Format(item.Quantity), money(item.UnitPrice), money(draft.ItemTotal(i)))
			}
			t := draft.Totals()
			fmt.Fprintf(tw, "Subtotal\t\t%s\t\n", money(t.Subtotal))
			fmt.Fprintf(tw, "Tax (%s%%)\t\t%s\t\n", totals.Format(t.TaxRate), money(t.TaxAmount))
			fmt.Fprintf(tw, "Discount\t\t%s\t\n", money(t.Discount))
			fmt.Fprintf(tw, "Total\t\t%s\t\n", money(t.Total))
			return tw.Flush()
		},
	}
}
