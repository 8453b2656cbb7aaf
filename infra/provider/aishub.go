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

const aishubBaseURL = "https://data.aishub.net/ws.php"

// AisHubConfig configures the AISHub ws.php provider.
type AisHubConfig struct {
	Username string `json:"username"`
	APIKey   string `json:"api_key"`
	// Output is the response encoding requested from the service.
	Output string `json:"output"`
	// MessageFormat selects the AIS message layout (AISHub "format" param).
	MessageFormat string `json:"message_format"`
	Compress      bool   `json:"compress"`
	// ExtraParams are appended verbatim; a complete bbox here overrides
	// the one derived from the port coordinate.
	ExtraParams map[string]string `json:"extra_params"`
	RadiusNM    float64           `json:"radius_nm"`
	BaseURL     string            `json:"base_url"`
}

// AisHub queries the AISHub bounding-box API.
type AisHub struct {
	cfg    AisHubConfig
	client *http.Client
	now    func() time.Time
}

// NewAisHub builds the provider. A username is mandatory, everything else
// has a workable default.
func NewAisHub(cfg AisHubConfig) (*AisHub, error) {
	if strings.TrimSpace(cfg.Username) == "" {
		return nil, fmt.Errorf("aishub provider requires a username")
	}
	if cfg.Output == "" {
		cfg.Output = "json"
	}
	if cfg.MessageFormat == "" {
		cfg.MessageFormat = "1"
	}
	if cfg.RadiusNM <= 0 {
		cfg.RadiusNM = 50
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = aishubBaseURL
	}
	return &AisHub{cfg: cfg, client: &http.Client{}, now: time.Now}, nil
}

func (a *AisHub) Name() string { return "aishub" }

func (a *AisHub) Fetch(ctx context.Context, port model.Port) (coreprovider.Result, error) {
	payload, err := fetchJSON(ctx, a.client, a.buildURL(port), nil)
	if err != nil {
		return coreprovider.Result{}, fmt.Errorf("aishub: %w", err)
	}

	if obj, ok := payload.(map[string]any); ok {
		if msg := pick(obj, "ERROR", "error"); msg != nil {
			return coreprovider.Result{}, fmt.Errorf("aishub: %w: %v", coreprovider.ErrUnavailable, msg)
		}
	}

	records := recordsFromPayload(payload, "data", "ais", "rows")
	return normalizeAll(records, port, a.now()), nil
}

func (a *AisHub) buildURL(port model.Port) string {
	q := url.Values{}
	q.Set("username", a.cfg.Username)
	q.Set("format", a.cfg.MessageFormat)
	q.Set("output", a.cfg.Output)
	if a.cfg.Compress {
		q.Set("compress", "1")
	} else {
		q.Set("compress", "0")
	}
	if a.cfg.APIKey != "" {
		q.Set("apikey", a.cfg.APIKey)
	}
	for k, v := range a.cfg.ExtraParams {
		q.Set(k, v)
	}

	hasBBox := true
	for _, key := range []string{"latmin", "latmax", "lonmin", "lonmax"} {
		if q.Get(key) == "" {
			hasBBox = false
			break
		}
	}
	if !hasBBox {
		bbox := port.BoundingBox(a.cfg.RadiusNM)
		q.Set("latmin", fmt.Sprintf("%.5f", bbox.LatMin))
		q.Set("latmax", fmt.Sprintf("%.5f", bbox.LatMax))
		q.Set("lonmin", fmt.Sprintf("%.5f", bbox.LonMin))
		q.Set("lonmax", fmt.Sprintf("%.5f", bbox.LonMax))
	}
	return a.cfg.BaseURL + "?" + q.Encode()
}

func newAisHubFactory(conf map[string]any) (coreprovider.Provider, error) {
	var cfg AisHubConfig
	if err := factory.Decode(conf, &cfg); err != nil {
		return nil, err
	}
	return NewAisHub(cfg)
}
