package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BootstrapTrust is the default trust granted to listed official bots and
// well-known sources, so new users see non-garbage content before they have
// built up any explicit trust of their own.
const BootstrapTrust = 0.5

// Registry lists the official bots and well-known sources that receive
// bootstrap trust. Everything not listed defaults to zero, which is what
// keeps freshly created identities from granting each other trust.
type Registry struct {
	OfficialBots     []string `yaml:"official_bots"`
	WellKnownSources []string `yaml:"well_known_sources"`

	bots    map[string]struct{}
	sources map[string]struct{}
}

// Load reads a registry file. A missing path returns an empty registry
// rather than an error: running without bootstrap entries is valid.
func Load(path string) (*Registry, error) {
	r := &Registry{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return r.index(), nil
			}
			return nil, fmt.Errorf("read trust registry: %w", err)
		}
		if err := yaml.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("parse trust registry: %w", err)
		}
	}
	return r.index(), nil
}

// New builds a registry from explicit lists. Used by tests and callers that
// already hold the lists in memory.
func New(officialBots, wellKnownSources []string) *Registry {
	r := &Registry{OfficialBots: officialBots, WellKnownSources: wellKnownSources}
	return r.index()
}

func (r *Registry) index() *Registry {
	r.bots = make(map[string]struct{}, len(r.OfficialBots))
	for _, id := range r.OfficialBots {
		r.bots[id] = struct{}{}
	}
	r.sources = make(map[string]struct{}, len(r.WellKnownSources))
	for _, id := range r.WellKnownSources {
		r.sources[id] = struct{}{}
	}
	return r
}

func (r *Registry) IsOfficialBot(id string) bool {
	_, ok := r.bots[id]
	return ok
}

func (r *Registry) IsWellKnownSource(id string) bool {
	_, ok := r.sources[id]
	return ok
}
