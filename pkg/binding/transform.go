package binding

import (
	"fmt"

	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/props"
)

// Transform maps a source prop's value to the value pushed into a target.
// Transforms only read the catalog.
type Transform func(value any) any

// selection returns the selected option of a select value.
func selection(value any) (string, bool) {
	d, ok := value.(props.SelectData)
	if !ok {
		return "", false
	}
	return d.SelectedOption(), true
}

// newTransform builds the transform a binding declares. byType maps prop
// type ids to the node's props, for transforms that read a second source.
func (r *Resolver) newTransform(b *meta.Binding, byType map[string]graph.Prop) (Transform, error) {
	c := r.Catalog
	switch b.TransformType {
	case meta.TransformExtractRef:
		return func(value any) any {
			name, ok := selection(value)
			if !ok {
				return nil
			}
			v, _ := c.PropertyOfItemNamed(name, b.PropertyPath)
			return v
		}, nil

	case meta.TransformExtractArrayNames:
		return func(value any) any {
			name, ok := selection(value)
			if !ok {
				return nil
			}
			v, _ := c.PropertyOfItemNamed(name, b.PropertyPath)
			return refNames(c, v)
		}, nil

	case meta.TransformResolveFromArray:
		return func(value any) any {
			name, ok := selection(value)
			if !ok {
				return nil
			}
			extra, ok := byType[b.AdditionalSourceID].(*props.Select)
			if !ok {
				r.log().Warn("additional binding source is not a select", "source", b.AdditionalSourceID)
				return nil
			}
			v, _ := c.PropertyOfItemNamed(extra.SelectedOption(), b.PropertyPath)
			arr, _ := v.([]any)
			for _, e := range arr {
				if ref, ok := e.(meta.AssetRef); ok && c.RefName(ref) == name {
					return ref
				}
			}
			return nil
		}, nil
	}
	return nil, fmt.Errorf("unknown transform %q", b.TransformType)
}

// refNames returns the display names of the refs in an array property.
// Anything that is not an array yields an empty list.
func refNames(c *meta.Catalog, v any) []string {
	arr, _ := v.([]any)
	names := make([]string, 0, len(arr))
	for _, e := range arr {
		switch t := e.(type) {
		case meta.AssetRef:
			names = append(names, c.RefName(t))
		case string:
			names = append(names, t)
		}
	}
	return names
}

// newImplicit builds the transform for a prop that depends on a select
// through a "#{value}.field" display: the field of the item, in the
// source's asset type, named by the current selection. An empty or
// unknown selection yields nil, which clears the target.
func (r *Resolver) newImplicit(pt *meta.PropType, source *meta.PropType) (Transform, error) {
	if pt.Display == "" {
		return nil, fmt.Errorf("dependsOn %q without a display", pt.DependsOn)
	}
	d, err := meta.ParseDisplay(pt.Display)
	if err != nil {
		return nil, err
	}
	if !d.IsValueRef() {
		return nil, fmt.Errorf("display %q does not reference %s", pt.Display, meta.DisplayValue)
	}
	if source.Type != props.TagSelect {
		return nil, fmt.Errorf("dependsOn source %q is a %s, not a select", source.ID, source.Type)
	}
	at, ok := r.Catalog.FindAssetType(source.AssetType)
	if !ok {
		return nil, fmt.Errorf("dependsOn source %q has unknown asset type %q", source.ID, source.AssetType)
	}

	return func(value any) any {
		name, ok := selection(value)
		if !ok || name == "" {
			return nil
		}
		item, ok := at.FindItemNamed(name)
		if !ok {
			return nil
		}
		v, _ := item.Field(d.Field)
		return v
	}, nil
}
