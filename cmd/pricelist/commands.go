package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/form"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/pricelist"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/validate"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	lang       string
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var flags rootFlags
	var a *app

	root := &cobra.Command{
		Use:           "pricelist",
		Short:         "Manage the invoicing price list",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(flags.configFile, flags.lang, in, out, errOut)
			return err
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "Config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&flags.lang, "lang", "", "Message language: en or sv")

	get := func() *app { return a }
	root.AddCommand(
		newLoginCmd(get),
		newRegisterCmd(get),
		newLogoutCmd(get),
		newLanguagesCmd(get),
		newListCmd(get),
		newAddCmd(get),
		newEditCmd(get),
		newShellCmd(get),
	)
	return root
}

func newLoginCmd(get func() *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			f := form.NewLoginForm()
			f.Change(form.FieldEmail, email)
			f.Change(form.FieldPassword, password)

			err := f.Submit(cmd.Context(), func(ctx context.Context, v validate.Values) error {
				_, err := a.gw.Login(ctx, v[form.FieldEmail], v[form.FieldPassword])
				return err
			})
			if err != nil {
				return a.formFailure(f, err)
			}
			fmt.Fprintf(a.out, "logged in as %s\n", a.sess.User().Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newRegisterCmd(get func() *app) *cobra.Command {
	var name, email, password, confirm string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			f := form.NewRegisterForm()
			f.Change(form.FieldName, name)
			f.Change(form.FieldEmail, email)
			f.Change(form.FieldPassword, password)
			f.Change(form.FieldConfirmPassword, confirm)

			err := f.Submit(cmd.Context(), func(ctx context.Context, v validate.Values) error {
				_, err := a.gw.Register(ctx, v[form.FieldName], v[form.FieldEmail], v[form.FieldPassword])
				return err
			})
			if err != nil {
				return a.formFailure(f, err)
			}
			fmt.Fprintf(a.out, "registered and logged in as %s\n", a.sess.User().Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Your name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 6 characters")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "Repeat the password")
	return cmd
}

func newLogoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.gw.Logout(cmd.Context()); err != nil {
				return errors.New(a.explain(err))
			}
			fmt.Fprintln(a.out, "logged out")
			return nil
		},
	}
}

func newLanguagesCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages offered by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			langs, err := a.gw.Languages(cmd.Context())
			if err != nil {
				return errors.New(a.explain(err))
			}
			for _, l := range langs {
				fmt.Fprintf(a.out, "%s\t%s\n", l.Code, l.Name)
			}
			return nil
		},
	}
}

func newListCmd(get func() *app) *cobra.Command {
	var article, product string
	var remote bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.requireLogin(); err != nil {
				return err
			}

			view := a.newView(clockwork.NewRealClock())
			defer view.Close()

			if remote {
				records, err := a.gw.SearchProducts(cmd.Context(), product, article)
				if err != nil {
					return errors.New(a.explain(err))
				}
				for _, r := range records {
					fmt.Fprintf(a.out, "%s\t%s\t%s\n", r.ID, r.Product, r.Price)
				}
				return nil
			}

			if err := view.Load(cmd.Context()); err != nil {
				return errors.New(a.explain(err))
			}
			printRows(a.out, a.tr, view.Search(article, product))
			return nil
		},
	}
	cmd.Flags().StringVar(&article, "article", "", "Filter by article number")
	cmd.Flags().StringVar(&product, "product", "", "Filter by product/service name")
	cmd.Flags().BoolVar(&remote, "remote", false, "Filter on the server instead of locally")
	return cmd
}

func newAddCmd(get func() *app) *cobra.Command {
	values := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.requireLogin(); err != nil {
				return err
			}

			view := a.newView(clockwork.NewRealClock())
			defer view.Close()

			f := form.NewProductForm()
			for _, field := range models.EditableFields {
				f.Change(field, *values[field])
			}
			if err := view.Add(cmd.Context(), f); err != nil {
				return a.formFailure(f, err)
			}

			rows := view.Rows()
			printRows(a.out, a.tr, rows[len(rows)-1:])
			return nil
		},
	}
	for _, field := range models.EditableFields {
		values[field] = new(string)
		cmd.Flags().StringVar(values[field], flagName(field), "", "Product "+field)
	}
	return cmd
}

func newEditCmd(get func() *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "edit <article-no> <field>=<value>...",
		Short: "Change fields of a product",
		Long:  "Change fields of a product. Fields: " + strings.Join(models.EditableFields, ", ") + ".",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			if err := a.requireLogin(); err != nil {
				return err
			}

			view := a.newView(clockwork.NewRealClock())
			defer view.Close()
			if err := view.Load(cmd.Context()); err != nil {
				return errors.New(a.explain(err))
			}

			id := args[0]
			before, ok := findRow(view.Rows(), id)
			if !ok {
				return fmt.Errorf("no product with article number %q", id)
			}

			for _, assignment := range args[1:] {
				field, value, found := strings.Cut(assignment, "=")
				if !found {
					return fmt.Errorf("expected <field>=<value>, got %q", assignment)
				}
				if err := view.Edit(id, field, value); err != nil {
					return fmt.Errorf("%s: %w", field, err)
				}
			}

			after, _ := findRow(view.Rows(), id)
			if dryRun {
				fmt.Fprint(a.out, renderPreview(before.ProductRecord, after.ProductRecord))
				return nil
			}

			if err := view.Flush(cmd.Context()); err != nil {
				return errors.New(a.explain(err))
			}
			saved, _ := findRow(view.Rows(), id)
			printRows(a.out, a.tr, []pricelist.Row{saved})
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the change without saving it")
	return cmd
}

func findRow(rows []pricelist.Row, id string) (pricelist.Row, bool) {
	for _, r := range rows {
		if r.ID == id {
			return r, true
		}
	}
	return pricelist.Row{}, false
}

// flagName turns inPrice into in-price.
func flagName(field string) string {
	var b strings.Builder
	for _, r := range field {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
