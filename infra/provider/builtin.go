package provider

import (
	coreprovider "github.com/pietroscik/marinetraffic/core/provider"
)

// The closed set of source modes. Registration happens at process start;
// an unknown mode in the configuration is rejected when the chain is
// built.
func init() {
	for name, f := range map[string]func(map[string]any) (coreprovider.Provider, error){
		"commercial":               newCommercialFactory,
		"aishub":                   newAisHubFactory,
		"open_file":                newOpenFileFactory,
		"open_http":                newOpenHTTPFactory,
		coreprovider.TypeSimulated: newSimulatedFactory,
	} {
		if err := coreprovider.Register(name, f); err != nil {
			panic(err)
		}
	}
}
