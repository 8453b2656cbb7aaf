// Package infra contains technical adapters such as AIS providers,
// alert publishers and metrics exporters. These packages should depend
// only on the interfaces defined in the core packages.
package infra
