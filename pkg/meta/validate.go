package meta

import (
	"fmt"
	"slices"
)

// Validate checks the catalog for problems that would make bindings or
// prop creation fail at runtime. It returns one warning per problem; an
// empty result means the catalog is consistent. knownTags lists the prop
// type tags the registry can construct.
//
// Problems are warnings rather than errors because the factory and the
// binding resolver already log and skip each of them.
func (c *Catalog) Validate(knownTags []string) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	for _, at := range c.AssetTypes {
		seen := make(map[string]bool, len(at.Items))
		for _, it := range at.Items {
			if it.ID == "" {
				warn("asset type %q: item %q has no id", at.ID, it.Name)
				continue
			}
			if seen[it.ID] {
				warn("asset type %q: duplicate item id %q", at.ID, it.ID)
			}
			seen[it.ID] = true
		}
	}

	for _, nt := range c.NodeTypes {
		props := make(map[string]bool, len(nt.Props))
		for _, pt := range nt.Props {
			if props[pt.ID] {
				warn("node type %q: duplicate prop id %q", nt.ID, pt.ID)
			}
			props[pt.ID] = true
		}

		for _, pt := range nt.Props {
			if !slices.Contains(knownTags, pt.Type) {
				warn("node type %q prop %q: unknown prop type %q", nt.ID, pt.ID, pt.Type)
			}
			if pt.AssetType != "" {
				if _, ok := c.FindAssetType(pt.AssetType); !ok {
					warn("node type %q prop %q: unknown asset type %q", nt.ID, pt.ID, pt.AssetType)
				}
			}
			if pt.Display != "" {
				if _, err := ParseDisplay(pt.Display); err != nil {
					warn("node type %q prop %q: %v", nt.ID, pt.ID, err)
				}
			}
			if pt.DependsOn != "" && !props[pt.DependsOn] {
				warn("node type %q prop %q: dependsOn %q is not a prop of the node type", nt.ID, pt.ID, pt.DependsOn)
			}
			if b := pt.Binding; b != nil {
				if !props[b.SourceID] {
					warn("node type %q prop %q: binding source %q is not a prop of the node type", nt.ID, pt.ID, b.SourceID)
				}
				if b.AdditionalSourceID != "" && !props[b.AdditionalSourceID] {
					warn("node type %q prop %q: additional source %q is not a prop of the node type", nt.ID, pt.ID, b.AdditionalSourceID)
				}
				if !slices.Contains(Transforms, b.TransformType) {
					warn("node type %q prop %q: unknown transform %q", nt.ID, pt.ID, b.TransformType)
				}
			}
		}

		if id, ok := findCycle(nt); ok {
			warn("node type %q: binding cycle through prop %q", nt.ID, id)
		}
	}
	return warnings
}

// findCycle looks for a cycle in the source -> target edges formed by
// bindings and dependsOn, using depth-first search with white/gray/black
// colouring. It returns a prop on the cycle.
func findCycle(nt *NodeType) (string, bool) {
	edges := make(map[string][]string)
	for _, pt := range nt.Props {
		if b := pt.Binding; b != nil {
			edges[b.SourceID] = append(edges[b.SourceID], pt.ID)
			if b.AdditionalSourceID != "" {
				edges[b.AdditionalSourceID] = append(edges[b.AdditionalSourceID], pt.ID)
			}
		}
		if pt.DependsOn != "" {
			edges[pt.DependsOn] = append(edges[pt.DependsOn], pt.ID)
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(nt.Props))
	var found string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, next := range edges[id] {
			switch color[next] {
			case white:
				if dfs(next) {
					return true
				}
			case gray:
				found = next
				return true
			}
		}
		color[id] = black
		return false
	}

	for _, pt := range nt.Props {
		if color[pt.ID] == white && dfs(pt.ID) {
			return found, true
		}
	}
	return "", false
}
