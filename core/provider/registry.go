package provider

import "github.com/pietroscik/marinetraffic/core/factory"

var registry = factory.NewRegistry[Provider]()

// Register adds a provider factory identified by name. Built-in providers
// register themselves from infra/provider at init time.
func Register(name string, f factory.Factory[Provider]) error {
	return registry.Register(name, f)
}

// New instantiates a provider from its module configuration.
func New(cfg factory.ModuleConfig) (Provider, error) {
	return registry.Create(cfg)
}

// Names lists the registered provider types.
func Names() []string {
	return registry.Names()
}
