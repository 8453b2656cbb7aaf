package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pietroscik/marinetraffic/core/factory"
	"github.com/pietroscik/marinetraffic/core/model"
	coreprovider "github.com/pietroscik/marinetraffic/core/provider"
)

// OpenHTTPConfig configures a generic open-data AIS endpoint.
type OpenHTTPConfig struct {
	URL     string            `json:"url"`
	Params  map[string]string `json:"params"`
	Headers map[string]string `json:"headers"`
	// PortParam, when set, names the query parameter carrying the port
	// name on each fetch.
	PortParam string `json:"port_param"`
}

// OpenHTTP fetches AIS data from a configurable open endpoint. Payloads may
// be a bare list, wrapped in "data" or "results", or a GeoJSON feature
// collection.
type OpenHTTP struct {
	cfg    OpenHTTPConfig
	client *http.Client
	now    func() time.Time
}

// NewOpenHTTP builds the provider; the endpoint URL is mandatory.
func NewOpenHTTP(cfg OpenHTTPConfig) (*OpenHTTP, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("open_http provider requires a url")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("open_http provider: invalid url: %w", err)
	}
	return &OpenHTTP{cfg: cfg, client: &http.Client{}, now: time.Now}, nil
}

func (o *OpenHTTP) Name() string { return "open_http" }

func (o *OpenHTTP) Fetch(ctx context.Context, port model.Port) (coreprovider.Result, error) {
	endpoint, err := o.buildURL(port)
	if err != nil {
		return coreprovider.Result{}, fmt.Errorf("open_http: %w: %v", coreprovider.ErrUnavailable, err)
	}
	payload, err := fetchJSON(ctx, o.client, endpoint, o.cfg.Headers)
	if err != nil {
		return coreprovider.Result{}, fmt.Errorf("open_http: %w", err)
	}
	records := recordsFromPayload(payload, "data", "results")
	return normalizeAll(records, port, o.now()), nil
}

func (o *OpenHTTP) buildURL(port model.Port) (string, error) {
	u, err := url.Parse(o.cfg.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range o.cfg.Params {
		q.Set(k, v)
	}
	if o.cfg.PortParam != "" {
		q.Set(o.cfg.PortParam, port.Name)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func newOpenHTTPFactory(conf map[string]any) (coreprovider.Provider, error) {
	var cfg OpenHTTPConfig
	if err := factory.Decode(conf, &cfg); err != nil {
		return nil, err
	}
	return NewOpenHTTP(cfg)
}
