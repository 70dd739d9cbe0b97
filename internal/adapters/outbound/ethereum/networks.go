package ethereum

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/archon-research/stl/stl-lend/internal/domain/entity"
	"github.com/archon-research/stl/stl-lend/internal/pkg/env"
)

// Registry maps network names to their RPC endpoints and chain IDs.
type Registry struct {
	networks map[string]entity.Network
}

type networksFile struct {
	Networks map[string]struct {
		URL     string `yaml:"url"`
		ChainID int64  `yaml:"chainId"`
	} `yaml:"networks"`
}

// DefaultRegistry returns the built-in networks: the local development node and Sepolia.
// SEPOLIA_RPC_URL and LOCALHOST_RPC_URL override the endpoints.
func DefaultRegistry() *Registry {
	r := &Registry{networks: make(map[string]entity.Network)}
	r.Add(entity.Network{
		Name:    "localhost",
		ChainID: entity.ChainNameToID["localhost"],
		RPCURL:  env.Get("LOCALHOST_RPC_URL", "http://127.0.0.1:8545"),
	})
	if url := env.Get("SEPOLIA_RPC_URL", ""); url != "" {
		r.Add(entity.Network{
			Name:    "sepolia",
			ChainID: entity.ChainNameToID["sepolia"],
			RPCURL:  url,
		})
	}
	return r
}

// LoadRegistry reads a YAML networks file on top of the built-in networks.
//
//	networks:
//	  localhost:
//	    url: http://127.0.0.1:8545
//	    chainId: 31337
func LoadRegistry(path string) (*Registry, error) {
	r := DefaultRegistry()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading networks file: %w", err)
	}

	var file networksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding networks file %s: %w", path, err)
	}

	for name, def := range file.Networks {
		n, err := entity.NewNetwork(name, def.ChainID, os.ExpandEnv(def.URL))
		if err != nil {
			return nil, fmt.Errorf("network %q in %s: %w", name, path, err)
		}
		r.Add(*n)
	}
	return r, nil
}

// Add registers or replaces a network.
func (r *Registry) Add(n entity.Network) {
	r.networks[n.Name] = n
}

// Lookup returns the network registered under name.
func (r *Registry) Lookup(name string) (entity.Network, bool) {
	n, ok := r.networks[name]
	return n, ok
}

// Names returns the registered network names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
