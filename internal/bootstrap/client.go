// Package bootstrap implements the startup activation check: a remote
// endpoint may hand back an activation token and a destination link, in which
// case the client is routed to the hosted view instead of the goal tracker.
// The flow shares the process but never touches the ledger.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Settings keys for the persisted activation state.
const (
	KeyToken = "activation_token"
	KeyLink  = "activation_link"
)

// Route modes.
const (
	ModeGoals  = "goals"
	ModeHosted = "hosted"
)

// SettingsStore persists the activation token and link. Satisfied by
// *storage.SQLiteRepository and *storage.MemoryStore.
type SettingsStore interface {
	SetSetting(ctx context.Context, key, value string) error
	GetSetting(ctx context.Context, key string) (string, bool, error)
}

// Params identify the requesting device to the activation endpoint.
type Params struct {
	Key      string // shared activation key, "p" query param
	OS       string
	Language string
	Device   string
	Country  string
}

// Client queries the activation endpoint. The response body is either a
// "token#link" pair or anything else, which means no activation.
type Client struct {
	baseURL    string
	params     Params
	httpClient *http.Client
}

func NewClient(baseURL string, params Params) *Client {
	return &Client{
		baseURL: baseURL,
		params:  params,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Check performs the activation request. ok is false when the endpoint did
// not return a usable token#link pair; that is the normal negative answer,
// not an error.
func (c *Client) Check(ctx context.Context) (token, link string, ok bool, err error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", "", false, fmt.Errorf("parse bootstrap url: %w", err)
	}
	q := u.Query()
	q.Set("p", c.params.Key)
	q.Set("os", c.params.OS)
	q.Set("lng", c.params.Language)
	q.Set("devicemodel", c.params.Device)
	q.Set("country", c.params.Country)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", "", false, fmt.Errorf("build bootstrap request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", false, fmt.Errorf("bootstrap request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", "", false, fmt.Errorf("read bootstrap response: %w", err)
	}

	payload := strings.TrimSpace(string(body))
	if !strings.Contains(payload, "#") {
		return "", "", false, nil
	}
	parts := strings.Split(payload, "#")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false, nil
	}
	return parts[0], parts[1], true, nil
}

// Route is the startup decision: the plain goal tracker, or the hosted view
// at Link.
type Route struct {
	Mode string `json:"mode"`
	Link string `json:"link,omitempty"`
}

// Flow ties the client and the settings store together: a stored token wins,
// otherwise the endpoint is asked once and a positive answer is persisted.
type Flow struct {
	client   *Client
	settings SettingsStore
}

func NewFlow(client *Client, settings SettingsStore) *Flow {
	return &Flow{client: client, settings: settings}
}

// Resolve decides the startup route. Endpoint failures fall back to the goal
// tracker: activation is opportunistic, the tracker always works.
func (f *Flow) Resolve(ctx context.Context) (Route, error) {
	token, hasToken, err := f.settings.GetSetting(ctx, KeyToken)
	if err != nil {
		return Route{}, fmt.Errorf("read stored token: %w", err)
	}
	if hasToken && token != "" {
		link, hasLink, err := f.settings.GetSetting(ctx, KeyLink)
		if err != nil {
			return Route{}, fmt.Errorf("read stored link: %w", err)
		}
		if hasLink && link != "" {
			return Route{Mode: ModeHosted, Link: link}, nil
		}
		return Route{Mode: ModeGoals}, nil
	}

	if f.client == nil {
		return Route{Mode: ModeGoals}, nil
	}

	token, link, ok, err := f.client.Check(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Bootstrap check failed, continuing with goal tracker", "error", err)
		return Route{Mode: ModeGoals}, nil
	}
	if !ok {
		return Route{Mode: ModeGoals}, nil
	}

	if err := f.settings.SetSetting(ctx, KeyToken, token); err != nil {
		return Route{}, fmt.Errorf("persist token: %w", err)
	}
	if err := f.settings.SetSetting(ctx, KeyLink, link); err != nil {
		return Route{}, fmt.Errorf("persist link: %w", err)
	}

	slog.InfoContext(ctx, "Bootstrap activation stored, routing to hosted view")
	return Route{Mode: ModeHosted, Link: link}, nil
}
