// Package factory creates nodes from catalog node types.
//
// A created node carries the node type's flow pins and one prop per prop
// type, initialised from the catalog's asset data, with its bindings
// installed and propagated.
package factory

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bploeckelman/nodes/pkg/binding"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/props"
)

// Factory builds nodes from a catalog.
type Factory struct {
	Catalog  *meta.Catalog
	Registry *props.Registry
	// Resolver installs bindings. If nil, nodes are created unbound.
	Resolver *binding.Resolver
	Logger   *log.Logger
}

// CreateNodeByID creates a node of the catalog node type with the given id.
func (f *Factory) CreateNodeByID(ids *graph.IDAllocator, nodeTypeID string) (*graph.Node, error) {
	nt, ok := f.Catalog.FindNodeType(nodeTypeID)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNodeType, "unknown node type %q", nodeTypeID)
	}
	return f.CreateNode(ids, nt), nil
}

// CreateNode creates a node of type nt with fresh ids from ids.
//
// The node gets nt.Inputs flow inputs, then nt.Outputs flow outputs, then
// its props in declaration order. A prop type whose tag is not registered
// is logged and skipped. The node is not added to any graph.
func (f *Factory) CreateNode(ids *graph.IDAllocator, nt *meta.NodeType) *graph.Node {
	n := graph.NewNode(ids)
	n.HeaderText = nt.Name
	n.NodeTypeID = nt.ID

	for i := 0; i < nt.Inputs; i++ {
		graph.NewPin(ids, graph.NodeAttachment{Owner: n}, graph.PinInput, graph.PinFlow)
	}
	for i := 0; i < nt.Outputs; i++ {
		graph.NewPin(ids, graph.NodeAttachment{Owner: n}, graph.PinOutput, graph.PinFlow)
	}

	for i := range nt.Props {
		f.createProp(ids, n, &nt.Props[i])
	}

	if f.Resolver != nil {
		f.Resolver.Resolve(n, nt)
	}
	f.log().Debug("created node", "node", n.Label(), "type", nt.ID, "props", len(n.Props()))
	return n
}

func (f *Factory) createProp(ids *graph.IDAllocator, n *graph.Node, pt *meta.PropType) {
	if !f.Registry.Has(pt.Type) {
		f.log().Warn("unsupported prop type, skipping", "type", pt.Type, "prop", pt.ID)
		return
	}
	p, err := f.Registry.New(pt.Type, ids.Next(), n)
	if err != nil {
		f.log().Warn("create prop", "prop", pt.ID, "err", err)
		return
	}

	b := p.Base()
	if pt.Name != "" {
		b.Name = pt.Name
	}
	b.PropTypeID = pt.ID
	b.DependsOn = pt.DependsOn

	if pc, ok := p.(props.PinCreator); ok {
		pc.CreatePins(ids)
	}

	if pt.AssetType != "" && pt.Display != "" {
		f.initFromAssets(p, pt)
	}
}

// initFromAssets fills a select's options, or a thumbnail's reference,
// from the field values the prop type's display names.
func (f *Factory) initFromAssets(p graph.Prop, pt *meta.PropType) {
	d, err := meta.ParseDisplay(pt.Display)
	if err != nil {
		f.log().Warn("invalid display", "prop", pt.ID, "err", err)
		return
	}
	if d.IsValueRef() {
		// Resolved by the binding resolver from the depended-on value.
		return
	}

	values, ok := f.Catalog.FieldValues(pt.AssetType, d.Field)
	if !ok {
		return
	}

	switch t := p.(type) {
	case *props.Select:
		opts := make([]string, 0, len(values))
		for _, v := range values {
			s, ok := v.(string)
			if !ok {
				f.log().Warn("non-string option value", "prop", pt.ID, "value", fmt.Sprint(v))
				continue
			}
			opts = append(opts, s)
		}
		t.SetOptions(opts)
		f.log().Debug("resolved select options", "prop", pt.ID, "display", pt.Display, "count", len(opts))

	case *props.Thumbnail:
		for _, v := range values {
			switch ref := v.(type) {
			case meta.AssetRef:
				t.SetRef(ref)
				return
			case string:
				if d.Field == "id" {
					t.SetRef(meta.AssetRef{TypeID: pt.AssetType, ItemID: ref})
					return
				}
			}
		}
		f.log().Warn("no asset reference for thumbnail", "prop", pt.ID, "display", pt.Display)
	}
}

func (f *Factory) log() *log.Logger {
	if f.Logger == nil {
		return log.Default()
	}
	return f.Logger
}
