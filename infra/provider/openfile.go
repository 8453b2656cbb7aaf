package provider

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pietroscik/marinetraffic/core/factory"
	"github.com/pietroscik/marinetraffic/core/model"
	coreprovider "github.com/pietroscik/marinetraffic/core/provider"
)

// OpenFileConfig configures the local open-data file provider.
type OpenFileConfig struct {
	Path string `json:"path"`
}

// OpenFile serves AIS data from a local CSV, JSON or GeoJSON dataset. The
// file is read on every fetch so a refreshed dataset is picked up without a
// restart.
type OpenFile struct {
	path string
	ext  string
	now  func() time.Time
}

// NewOpenFile builds the provider. An unknown extension is a construction
// error, not a fetch-time one.
func NewOpenFile(cfg OpenFileConfig) (*OpenFile, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("open_file provider requires a path")
	}
	ext := strings.ToLower(filepath.Ext(cfg.Path))
	switch ext {
	case ".csv", ".json", ".geojson":
	default:
		return nil, fmt.Errorf("open_file provider: unsupported format %q (use csv, json or geojson)", ext)
	}
	return &OpenFile{path: cfg.Path, ext: ext, now: time.Now}, nil
}

func (o *OpenFile) Name() string { return "open_file" }

func (o *OpenFile) Fetch(_ context.Context, port model.Port) (coreprovider.Result, error) {
	var (
		records []map[string]any
		err     error
	)
	if o.ext == ".csv" {
		records, err = o.readCSV()
	} else {
		records, err = o.readJSON()
	}
	if err != nil {
		return coreprovider.Result{}, fmt.Errorf("open_file: %w: %v", coreprovider.ErrUnavailable, err)
	}
	return normalizeAll(records, port, o.now()), nil
}

func (o *OpenFile) readJSON() ([]map[string]any, error) {
	data, err := os.ReadFile(o.path)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return recordsFromPayload(payload, "data"), nil
}

func (o *OpenFile) readCSV() ([]map[string]any, error) {
	f, err := os.Open(o.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	for {
		row, err := r.Read()
		if err != nil {
			break
		}
		rec := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func newOpenFileFactory(conf map[string]any) (coreprovider.Provider, error) {
	var cfg OpenFileConfig
	if err := factory.Decode(conf, &cfg); err != nil {
		return nil, err
	}
	return NewOpenFile(cfg)
}
