package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	coreprovider "github.com/pietroscik/marinetraffic/core/provider"
)

// fetchJSON performs one GET against an AIS endpoint and decodes the JSON
// payload. Transport failures, unexpected status codes and undecodable
// bodies all wrap ErrUnavailable so the chain treats them as a provider
// outage rather than a crash.
func fetchJSON(ctx context.Context, client *http.Client, url string, headers map[string]string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", coreprovider.ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", coreprovider.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Error bodies can be arbitrarily large; read just enough to log.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("%w: status %d: %s", coreprovider.ErrUnavailable, resp.StatusCode, snippet)
	}

	var payload any
	if err := json.NewDecoder(io.LimitReader(resp.Body, 16<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", coreprovider.ErrUnavailable, err)
	}
	return payload, nil
}

// recordsFromPayload extracts the record list from the payload shapes AIS
// services actually return: a bare list, an object with a known container
// key, a GeoJSON feature collection, or a single record object.
func recordsFromPayload(payload any, containers ...string) []map[string]any {
	switch p := payload.(type) {
	case []any:
		return onlyObjects(p)
	case map[string]any:
		for _, key := range containers {
			if list, ok := p[key].([]any); ok {
				return onlyObjects(list)
			}
		}
		if features, ok := p["features"].([]any); ok {
			return geoJSONRecords(features)
		}
		return []map[string]any{p}
	}
	return nil
}

func onlyObjects(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

// geoJSONRecords flattens GeoJSON features into plain records, lifting the
// geometry coordinates into latitude/longitude when the properties lack
// them.
func geoJSONRecords(features []any) []map[string]any {
	out := make([]map[string]any, 0, len(features))
	for _, item := range features {
		feature, ok := item.(map[string]any)
		if !ok {
			continue
		}
		props, ok := feature["properties"].(map[string]any)
		if !ok {
			continue
		}
		if geom, ok := feature["geometry"].(map[string]any); ok {
			if coords, ok := geom["coordinates"].([]any); ok && len(coords) >= 2 {
				if _, has := props["longitude"]; !has {
					props["longitude"] = coords[0]
				}
				if _, has := props["latitude"]; !has {
					props["latitude"] = coords[1]
				}
			}
		}
		if mmsi, ok := feature["mmsi"]; ok {
			if _, has := props["mmsi"]; !has {
				props["mmsi"] = mmsi
			}
		}
		out = append(out, props)
	}
	return out
}
