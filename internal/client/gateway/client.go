// Package gateway is the HTTP client for the price-list API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rogerio-castellano/invoice-pricelist/internal/client/session"
	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
)

// Client talks to the price-list API on behalf of the current session.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	session    *session.Session
}

func New(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		session: sess,
	}
}

func (c *Client) Session() *session.Session {
	return c.session
}

type errorBody struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

type authBody struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type updateBody struct {
	Message string         `json:"message"`
	Product models.Product `json:"product"`
}

type searchBody struct {
	Data []models.Product `json:"data"`
}

func (c *Client) ListProducts(ctx context.Context) ([]models.ProductRecord, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", true, nil, &products); err != nil {
		return nil, err
	}
	return toRecords(products), nil
}

// SearchProducts filters on the server by product name and article number prefix.
func (c *Client) SearchProducts(ctx context.Context, product, article string) ([]models.ProductRecord, error) {
	q := url.Values{}
	if product != "" {
		q.Set("product", product)
	}
	if article != "" {
		q.Set("article", article)
	}
	path := "/api/products/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var body searchBody
	if err := c.do(ctx, http.MethodGet, path, true, nil, &body); err != nil {
		return nil, err
	}
	return toRecords(body.Data), nil
}

func (c *Client) CreateProduct(ctx context.Context, draft models.ProductRecord) (models.ProductRecord, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", true, draft, &created); err != nil {
		return models.ProductRecord{}, err
	}
	return created.Record(), nil
}

// UpdateProduct replaces the product with the complete record and returns the
// server's canonical version.
func (c *Client) UpdateProduct(ctx context.Context, id string, record models.ProductRecord) (models.ProductRecord, error) {
	var body updateBody
	if err := c.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), true, record, &body); err != nil {
		return models.ProductRecord{}, err
	}
	return body.Product.Record(), nil
}

// Login authenticates and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (models.UserSummary, error) {
	payload := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/login", payload)
}

// Register creates an account and stores the session.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.UserSummary, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/register", payload)
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (models.UserSummary, error) {
	var body authBody
	if err := c.do(ctx, http.MethodPost, path, false, payload, &body); err != nil {
		return models.UserSummary{}, err
	}
	if err := c.session.Save(body.Token, body.User); err != nil {
		return models.UserSummary{}, fmt.Errorf("save session: %w", err)
	}
	return body.User, nil
}

// Logout revokes the token on the server and clears the session. The local
// session is cleared even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	var err error
	if c.session.IsAuthenticated() {
		err = c.do(ctx, http.MethodPost, "/api/auth/logout", true, nil, nil)
		if errors.Is(err, ErrSessionExpired) {
			err = nil
		}
	}
	if clearErr := c.session.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Languages(ctx context.Context) ([]models.Language, error) {
	var langs []models.Language
	if err := c.do(ctx, http.MethodGet, "/api/languages", false, nil, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.Token())
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		obs.Logger.Debug("request failed", "method", method, "path", path, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &ServerError{Status: resp.StatusCode, Message: "invalid response body: " + err.Error()}
		}
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)
	obs.Logger.Debug("request rejected", "method", method, "path", path, "status", resp.StatusCode, "error", eb.Error)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		msgs := eb.Errors
		if len(msgs) == 0 && eb.Error != "" {
			msgs = []string{eb.Error}
		}
		return &ValidationError{Messages: msgs}
	case authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden):
		if err := c.session.Clear(); err != nil {
			obs.Logger.Warn("clear expired session failed", "error", err)
		}
		return ErrSessionExpired
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Message: eb.Error}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Message: eb.Error}
	case resp.StatusCode == http.StatusConflict:
		return &ConflictError{Message: eb.Error}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &TooManyRequestsError{Message: eb.Error}
	default:
		msg := eb.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}
}

func toRecords(products []models.Product) []models.ProductRecord {
	records := make([]models.ProductRecord, len(products))
	for i, p := range products {
		records[i] = p.Record()
	}
	return records
}
