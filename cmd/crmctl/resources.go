package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/merocrm/mero-crm/pkg/collection"
	"github.com/merocrm/mero-crm/pkg/crmclient"
	"github.com/merocrm/mero-crm/pkg/notify"
	"github.com/merocrm/mero-crm/pkg/pagination"
	"github.com/merocrm/mero-crm/pkg/totals"
)

// errReported means the failure was already shown to the user
var errReported = errors.New("failed")

// resource is one collection the CLI can browse
type resource struct {
	restorable bool
	list       func(ctx context.Context, e *env, q crmclient.ListQuery, w io.Writer) error
	get        func(ctx context.Context, e *env, id string) (any, error)
	remove     func(ctx context.Context, e *env, id string) error
	restore    func(ctx context.Context, e *env, id string) (any, error)
}

func bind[T any](pick func(*crmclient.Client) *crmclient.Resource[T], headers []string, row func(T) []string) resource {
	return resource{
		list: func(ctx context.Context, e *env, q crmclient.ListQuery, w io.Writer) error {
			f := collection.New[T](pick(e.client),
				collection.WithNotifier(e.notifier()),
				collection.WithLogger(e.logger),
			)
			defer f.Close()

			page, err := f.Load(ctx, q)
			if err != nil {
				return errReported
			}
			return printPage(w, page, headers, row)
		},
		get: func(ctx context.Context, e *env, id string) (any, error) {
			return pick(e.client).Get(ctx, id)
		},
		remove: func(ctx context.Context, e *env, id string) error {
			return pick(e.client).Delete(ctx, id)
		},
		restore: func(ctx context.Context, e *env, id string) (any, error) {
			return pick(e.client).Restore(ctx, id)
		},
	}
}

// printPage writes the page as a table followed by a paging line
func printPage[T any](w io.Writer, page *pagination.Page[T], headers []string, row func(T) []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, item := range page.Data {
		fmt.Fprintln(tw, strings.Join(row(item), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d, %d total\n", page.Page, max(1, page.TotalPages()), page.Total)
	return err
}

func restorable(r resource) resource {
	r.restorable = true
	return r
}

var resources = map[string]resource{
	"clients": restorable(bind(
		(*crmclient.Client).Clients,
		[]string{"ID", "NAME", "EMAIL", "COUNTRY"},
		func(c crmclient.Customer) []string { return []string{c.ID, c.Name, c.Email, c.Country} },
	)),
	"leads": bind(
		(*crmclient.Client).Leads,
		[]string{"ID", "NAME", "COMPANY", "STATUS"},
		func(l crmclient.Lead) []string { return []string{l.ID, l.Name, l.Company, l.Status} },
	),
	"deals": bind(
		(*crmclient.Client).Deals,
		[]string{"ID", "TITLE", "STAGE", "VALUE"},
		func(d crmclient.Deal) []string {
			return []string{d.ID, d.Title, d.Stage, totals.FormatMoney(d.Currency, d.Value)}
		},
	),
	"activities": bind(
		(*crmclient.Client).Activities,
		[]string{"ID", "TYPE", "SUBJECT", "STATUS"},
		func(a crmclient.Activity) []string { return []string{a.ID, a.Type, a.Subject, a.Status} },
	),
	"invoices": restorable(bind(
		func(c *crmclient.Client) *crmclient.Resource[crmclient.Invoice] { return c.Invoices().Resource },
		[]string{"ID", "NUMBER", "CLIENT", "TOTAL", "PAYMENT"},
		func(i crmclient.Invoice) []string {
			return []string{i.ID, i.DisplayNumber, i.ClientName, totals.FormatMoney(i.Currency, i.Total), i.PaymentStatus}
		},
	)),
	"quotes": bind(
		func(c *crmclient.Client) *crmclient.Resource[crmclient.Quote] { return c.Quotes().Resource },
		[]string{"ID", "NUMBER", "CLIENT", "TOTAL", "STATUS"},
		func(q crmclient.Quote) []string {
			return []string{q.ID, q.DisplayNumber, q.ClientName, totals.FormatMoney(q.Currency, q.Total), q.Status}
		},
	),
	"payments": restorable(bind(
		(*crmclient.Client).Payments,
		[]string{"ID", "NUMBER", "INVOICE", "AMOUNT"},
		func(p crmclient.Payment) []string {
			return []string{p.ID, strconv.Itoa(p.Number), p.InvoiceID, totals.FormatMoney(p.Currency, p.Amount)}
		},
	)),
	"taxes": bind(
		(*crmclient.Client).Taxes,
		[]string{"ID", "NAME", "RATE", "DEFAULT"},
		func(t crmclient.Tax) []string {
			return []string{t.ID, t.Name, totals.Format(t.Rate) + "%", strconv.FormatBool(t.IsDefault)}
		},
	),
	"payment-modes": bind(
		(*crmclient.Client).PaymentModes,
		[]string{"ID", "NAME", "DEFAULT"},
		func(m crmclient.PaymentMode) []string { return []string{m.ID, m.Name, strconv.FormatBool(m.IsDefault)} },
	),
}

func resourceNames() string {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookup(name string) (resource, error) {
	r, ok := resources[name]
	if !ok {
		return resource{}, fmt.Errorf("unknown resource %q (one of %s)", name, resourceNames())
	}
	return r, nil
}

// notifier prints toasts on stderr
func (e *env) notifier() notify.Notifier {
	return notify.Func(func(t notify.Toast) {
		fmt.Fprintf(e.stderr, "%s: %s\n", t.Level, t.Message)
	})
}
