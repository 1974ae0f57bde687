package cosmos

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/san-kum/cosmosim/internal/hierarchy"
	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/space"
)

const (
	Universe      space.Kind = "universe"
	Supercluster  space.Kind = "supercluster"
	GalaxyCluster space.Kind = "galaxy_cluster"
	Galaxy        space.Kind = "galaxy"
	BlackHole     space.Kind = "black_hole"
	StarSystem    space.Kind = "star_system"
	Star          space.Kind = "star"
	Planet        space.Kind = "planet"
)

// Kinds lists the structure kinds from the largest to the smallest.
func Kinds() []space.Kind {
	return []space.Kind{Universe, Supercluster, GalaxyCluster, Galaxy, BlackHole, StarSystem, Star, Planet}
}

// ParseKind accepts a kind name with dashes or underscores.
func ParseKind(s string) (space.Kind, error) {
	k := space.Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown structure kind: %s", s)
}

// NewRegistry returns a registry with every kind of the hierarchy.
func NewRegistry() *hierarchy.Registry {
	r := hierarchy.NewRegistry()
	Register(r)
	return r
}

func Register(r *hierarchy.Registry) {
	r.Register(Universe, hierarchy.KindEntry{
		Configurator: hierarchy.ConfiguratorFunc(configureUniverse),
		Children:     universeChildren,
	})
	r.Register(Supercluster, hierarchy.KindEntry{
		Configurator: hierarchy.ConfiguratorFunc(configureSupercluster),
		Children:     superclusterChildren,
	})
	r.Register(GalaxyCluster, hierarchy.KindEntry{
		Configurator: hierarchy.ConfiguratorFunc(configureGalaxyCluster),
		Children:     clusterChildren,
	})
	r.Register(Galaxy, hierarchy.KindEntry{
		Configurator: hierarchy.ConfiguratorFunc(configureGalaxy),
		Parent:       hierarchy.ParentConfiguratorFunc(clusterForGalaxy),
		Children:     galaxyChildren,
	})
	r.Register(BlackHole, hierarchy.KindEntry{
		Configurator: hierarchy.ConfiguratorFunc(configureBlackHole),
	})
	r.Register(StarSystem, hierarchy.KindEntry{
		Configurator: hierarchy.ConfiguratorFunc(configureStarSystem),
		Children:     systemChildren,
	})
	r.Register(Star, hierarchy.KindEntry{
		Configurator: hierarchy.ConfiguratorFunc(configureStar),
		Parent:       hierarchy.ParentConfiguratorFunc(systemForStar),
	})
	r.Register(Planet, hierarchy.KindEntry{
		Configurator: hierarchy.ConfiguratorFunc(configurePlanet),
	})
}

var prefixes = map[space.Kind]string{
	Universe:      "U",
	Supercluster:  "SCL",
	GalaxyCluster: "GCL",
	Galaxy:        "GAL",
	BlackHole:     "BH",
	StarSystem:    "SYS",
	Star:          "STR",
	Planet:        "PLN",
}

// newNode creates a node of kind with an id and catalogue name drawn from
// rng, so reconstituted nodes get the same identity.
func newNode(rng *random.Source, kind space.Kind) (*space.Node, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return nil, fmt.Errorf("new %s id: %w", kind, err)
	}
	s := id.String()
	return &space.Node{
		ID:   s,
		Kind: kind,
		Name: fmt.Sprintf("%s-%s", prefixes[kind], strings.ToUpper(s[:6])),
	}, nil
}
