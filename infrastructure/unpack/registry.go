package unpack

import (
	"romkit/domain/archive"
	"romkit/infrastructure/command"
)

// Tools names the external extractors used as fallbacks
type Tools struct {
	SevenZip string
	Unrar    string
	BSDTar   string
	Tar      string
}

// DefaultTools returns the executable names looked up on PATH
func DefaultTools() Tools {
	return Tools{
		SevenZip: SevenZip,
		Unrar:    Unrar,
		BSDTar:   BSDTar,
		Tar:      Tar,
	}
}

// Registry implements archive.BackendProvider with a fixed chain per kind
type Registry struct {
	chains map[archive.Kind][]archive.Backend
}

// NewRegistry wires the library backends first and the external commands
// after them. For 7z and the compressed formats the format-specific command
// comes before the generic one.
func NewRegistry(tools Tools, runner command.Runner) *Registry {
	withRunner := WithCommandRunner(runner)
	sevenZip := NewSevenZipCommand(tools.SevenZip, withRunner)

	return NewRegistryWithChains(map[archive.Kind][]archive.Backend{
		archive.KindZip: {
			NewZipBackend(),
			sevenZip,
		},
		archive.KindRarFirst: {
			NewRarBackend(),
			NewUnrarCommand(tools.Unrar, withRunner),
		},
		archive.KindSevenZip: {
			NewGenericBackend(),
			sevenZip,
			NewTarCommand(tools.BSDTar, withRunner),
		},
		archive.KindCompressed: {
			NewGenericBackend(),
			NewTarCommand(tools.Tar, withRunner),
			sevenZip,
		},
	})
}

// NewRegistryWithChains creates a registry from explicit chains
func NewRegistryWithChains(chains map[archive.Kind][]archive.Backend) *Registry {
	return &Registry{chains: chains}
}

// Backends implements archive.BackendProvider
func (r *Registry) Backends(kind archive.Kind) []archive.Backend {
	return r.chains[kind]
}

// Ensure Registry implements archive.BackendProvider
var _ archive.BackendProvider = (*Registry)(nil)
