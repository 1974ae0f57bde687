package config

import "sort"

// Presets holds named configurations per root kind.
var Presets = map[string]map[string]*Config{
	"universe": {
		"sparse": {Root: "universe", Depth: 2, MaxChildren: 3},
		"deep":   {Root: "universe", Depth: 4, MaxChildren: 2},
	},
	"supercluster": {
		"overview": {Root: "supercluster", Depth: 2, MaxChildren: 6},
	},
	"galaxy_cluster": {
		"overview": {Root: "galaxy_cluster", Depth: 3, MaxChildren: 4},
	},
	"galaxy": {
		"small": {Root: "galaxy", Depth: 2, MaxChildren: 5},
		"dense": {Root: "galaxy", Depth: 2, MaxChildren: 40},
		"deep":  {Root: "galaxy", Depth: 3, MaxChildren: 10},
	},
	"star_system": {
		"single": {Root: "star_system", Depth: 2, MaxChildren: 12},
		"inner":  {Root: "star_system", Depth: 1, MaxChildren: 4},
	},
}

// GetPreset returns the named preset merged over the defaults, or nil.
func GetPreset(kind, name string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	p, ok := kindPresets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Root = p.Root
	cfg.Depth = p.Depth
	cfg.MaxChildren = p.MaxChildren
	return cfg
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
