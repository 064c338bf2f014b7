package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/i18n"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/pricelist"
	"github.com/spf13/cobra"
)

const shellHelp = `commands:
  list                          show every product
  search <article> [product]    filter by article number and product name ("-" skips a term)
  edit <article-no> <field> <value...>
                                change a cell; saved after a short pause
  pending                       show cells waiting to be saved
  flush                         save now
  reload                        fetch the list again (drops unsaved edits)
  help                          show this text
  quit                          save and exit
`

func newShellCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Edit the price list interactively with autosave",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.requireLogin(); err != nil {
				return err
			}
			return runShell(cmd.Context(), a, a.newView(clockwork.NewRealClock()))
		},
	}
}

func runShell(ctx context.Context, a *app, view *pricelist.View) error {
	defer view.Close()
	if err := view.Load(ctx); err != nil {
		return errors.New(a.explain(err))
	}
	fmt.Fprintf(a.out, "%d products loaded, type help for commands\n", len(view.Rows()))

	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list":
			printRows(a.out, a.tr, view.Rows())
		case "search":
			article, product := term(fields, 1), term(fields, 2)
			printRows(a.out, a.tr, view.Search(article, product))
		case "edit":
			if len(fields) < 3 {
				fmt.Fprintln(a.out, "usage: edit <article-no> <field> <value...>")
				continue
			}
			value := strings.Join(fields[3:], " ")
			if err := view.Edit(fields[1], fields[2], value); err != nil {
				fmt.Fprintf(a.out, "cannot edit: %v\n", err)
			}
		case "pending":
			for _, k := range view.Pending() {
				fmt.Fprintf(a.out, "%s %s\n", k.RowID, k.Field)
			}
			for _, id := range view.Unsynced() {
				fmt.Fprintf(a.out, "%s %s\n", id, a.tr.T(i18n.Unsaved))
			}
		case "flush":
			if err := view.Flush(ctx); err != nil {
				fmt.Fprintln(a.out, a.explain(err))
			}
		case "reload":
			if err := view.Load(ctx); err != nil {
				fmt.Fprintln(a.out, a.explain(err))
			}
		case "help":
			fmt.Fprint(a.out, shellHelp)
		case "quit", "exit":
			return finishShell(ctx, a, view)
		default:
			fmt.Fprintf(a.out, "unknown command %q, type help\n", fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return finishShell(ctx, a, view)
}

func finishShell(ctx context.Context, a *app, view *pricelist.View) error {
	if err := view.Flush(ctx); err != nil {
		return fmt.Errorf("some edits were not saved: %s", a.explain(err))
	}
	return nil
}

func term(fields []string, i int) string {
	if i >= len(fields) || fields[i] == "-" {
		return ""
	}
	return fields[i]
}
