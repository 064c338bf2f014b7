package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/form"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/gateway"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/i18n"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/pricelist"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/scheduler"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/session"
	"github.com/rogerio-castellano/invoice-pricelist/internal/client/syncer"
	"github.com/rogerio-castellano/invoice-pricelist/internal/config"
	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
)

var errNotLoggedIn = errors.New("not logged in, run `pricelist login` first")

type app struct {
	cfg    config.Client
	tr     i18n.Translator
	sess   *session.Session
	gw     *gateway.Client
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(configFile, lang string, in io.Reader, out, errOut io.Writer) (*app, error) {
	cfg, err := config.LoadClient(configFile)
	if err != nil {
		return nil, err
	}
	obs.InitLogger(errOut, cfg.LogLevel)

	if lang == "" {
		lang = cfg.Language
	}

	sess := session.New(session.NewFileStore(cfg.SessionFile))
	if err := sess.LoadFromStorage(); err != nil {
		obs.Logger.Warn("ignoring unreadable session", "file", cfg.SessionFile, "error", err)
	}

	return &app{
		cfg:    cfg,
		tr:     i18n.New(lang),
		sess:   sess,
		gw:     gateway.New(cfg.APIBaseURL, cfg.RequestTimeout, sess),
		in:     in,
		out:    out,
		errOut: errOut,
	}, nil
}

func (a *app) requireLogin() error {
	if !a.sess.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

// newView builds the price-list screen with saves reported on errOut.
func (a *app) newView(clock clockwork.Clock) *pricelist.View {
	return pricelist.New(a.gw, scheduler.New(clock),
		syncer.WithDelay(a.cfg.DebounceDelay),
		syncer.WithRequestTimeout(a.cfg.RequestTimeout),
		syncer.WithObserver(func(id string, err error) {
			if err != nil {
				fmt.Fprintf(a.errOut, "%s %s: %s\n", a.tr.T(i18n.Unsaved), id, a.explain(err))
				return
			}
			fmt.Fprintf(a.errOut, "saved %s\n", id)
		}),
	)
}

// explain turns an API error into text in the display language. Errors that
// did not come from the API are shown as is.
func (a *app) explain(err error) string {
	if !fromAPI(err) {
		return err.Error()
	}
	keys := form.ErrorKeys(err)
	msgs := make([]string, len(keys))
	for i, key := range keys {
		msgs[i] = a.tr.T(key)
	}
	return strings.Join(msgs, "; ")
}

func fromAPI(err error) bool {
	var (
		vErr     *gateway.ValidationError
		authErr  *gateway.AuthError
		conflict *gateway.ConflictError
		notFound *gateway.NotFoundError
		tooMany  *gateway.TooManyRequestsError
		netErr   *gateway.NetworkError
		srvErr   *gateway.ServerError
	)
	return errors.Is(err, gateway.ErrSessionExpired) ||
		errors.As(err, &vErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &conflict) ||
		errors.As(err, &notFound) ||
		errors.As(err, &tooMany) ||
		errors.As(err, &netErr) ||
		errors.As(err, &srvErr)
}

// formFailure prints the form's errors and returns an error for cobra.
func (a *app) formFailure(f *form.Form, err error) error {
	for _, fe := range f.Errors() {
		fmt.Fprintf(a.errOut, "%s: %s\n", fe.Field, a.tr.T(fe.Key))
	}
	for _, key := range f.FormErrors() {
		fmt.Fprintln(a.errOut, a.tr.T(key))
	}
	if errors.Is(err, form.ErrInvalid) {
		return errors.New("invalid input")
	}
	return err
}
