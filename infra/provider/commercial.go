package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/pietroscik/marinetraffic/auth"
	"github.com/pietroscik/marinetraffic/core/factory"
	"github.com/pietroscik/marinetraffic/core/model"
	coreprovider "github.com/pietroscik/marinetraffic/core/provider"
)

const commercialBaseURL = "https://services.marinetraffic.com/api"

// CommercialConfig configures the commercial MarineTraffic-style API
// provider.
type CommercialConfig struct {
	APIKey   string `json:"api_key"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Protocol string `json:"protocol"`
	// Filters become path segments of the form key:value.
	Filters  map[string]string `json:"filters"`
	RadiusNM int               `json:"radius_nm"`
	BaseURL  string            `json:"base_url"`
	// OAuth enables client-credentials bearer tokens in addition to the
	// path-segment API key.
	OAuth auth.Conf `json:"oauth"`
}

// Commercial queries a MarineTraffic-style path-segment API.
type Commercial struct {
	cfg    CommercialConfig
	client *http.Client
	cred   *auth.ClientCred
	now    func() time.Time
}

// NewCommercial builds the provider. The demo key cannot retrieve real
// data, so it is rejected up front instead of failing every fetch.
func NewCommercial(cfg CommercialConfig) (*Commercial, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, fmt.Errorf("commercial provider requires an api key")
	}
	if strings.EqualFold(key, "demo_key") {
		return nil, fmt.Errorf("commercial provider: the demo key cannot retrieve live data")
	}
	if cfg.Service == "" {
		cfg.Service = "exportvessel"
	}
	if cfg.Version == "" {
		cfg.Version = "v:5"
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "jsono"
	}
	if len(cfg.Filters) == 0 {
		cfg.Filters = map[string]string{"timespan": "24"}
	}
	if cfg.RadiusNM <= 0 {
		cfg.RadiusNM = 50
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = commercialBaseURL
	}
	c := &Commercial{cfg: cfg, client: &http.Client{}, now: time.Now}
	if cfg.OAuth.ClientID != "" && cfg.OAuth.ClientSecret != "" {
		c.cred = auth.NewClientCred(cfg.OAuth)
	}
	return c, nil
}

func (c *Commercial) Name() string { return "commercial" }

func (c *Commercial) Fetch(ctx context.Context, port model.Port) (coreprovider.Result, error) {
	headers := map[string]string{}
	if c.cred != nil {
		token, err := c.cred.GetToken()
		if err != nil {
			return coreprovider.Result{}, fmt.Errorf("commercial: %w: oauth token: %v", coreprovider.ErrUnavailable, err)
		}
		headers["Authorization"] = "Bearer " + token
	}

	payload, err := fetchJSON(ctx, c.client, c.buildURL(port), headers)
	if err != nil {
		return coreprovider.Result{}, fmt.Errorf("commercial: %w", err)
	}
	records := recordsFromPayload(payload, "data")
	return normalizeAll(records, port, c.now()), nil
}

// buildURL assembles the path-segment request:
// base/service/version/key/filter:x/.../portname:P/radius:R/protocol:jsono
func (c *Commercial) buildURL(port model.Port) string {
	segments := []string{c.cfg.BaseURL, strings.Trim(c.cfg.Service, "/"), c.cfg.Version, c.cfg.APIKey}
	keys := make([]string, 0, len(c.cfg.Filters))
	for k := range c.cfg.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := c.cfg.Filters[k]; v != "" {
			segments = append(segments, k+":"+v)
		}
	}
	segments = append(segments,
		"portname:"+port.Name,
		fmt.Sprintf("radius:%d", c.cfg.RadiusNM),
		"protocol:"+c.cfg.Protocol,
	)
	return strings.Join(segments, "/")
}

func newCommercialFactory(conf map[string]any) (coreprovider.Provider, error) {
	var cfg CommercialConfig
	if err := factory.Decode(conf, &cfg); err != nil {
		return nil, err
	}
	return NewCommercial(cfg)
}
