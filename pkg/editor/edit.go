package editor

import (
	"strconv"
	"strings"

	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/props"
)

// Every edit publishes the prop on the bus after changing it, so the
// props bound to it update before the call returns.

func (e *Editor) prop(id graph.ID) (graph.Prop, error) {
	p, ok := e.graph.FindProp(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no prop with id %d", id)
	}
	return p, nil
}

func mismatch(p graph.Prop, want string) error {
	return errors.New(errors.ErrCodeInvalidInput, "prop %d is a %s, not a %s", p.ID(), p.TypeTag(), want)
}

func (e *Editor) selectProp(id graph.ID) (*props.Select, error) {
	p, err := e.prop(id)
	if err != nil {
		return nil, err
	}
	s, ok := p.(*props.Select)
	if !ok {
		return nil, mismatch(p, props.TagSelect)
	}
	return s, nil
}

// SetSelectedIndex selects option i of a select prop. -1 clears the selection.
func (e *Editor) SetSelectedIndex(id graph.ID, i int) error {
	s, err := e.selectProp(id)
	if err != nil {
		return err
	}
	if err := s.SetSelectedIndex(i); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "prop %d", id)
	}
	e.bus.Publish(s)
	return nil
}

// SetSelectedOption selects the option of a select prop equal to opt.
func (e *Editor) SetSelectedOption(id graph.ID, opt string) error {
	s, err := e.selectProp(id)
	if err != nil {
		return err
	}
	if err := s.SetSelectedOption(opt); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "prop %d", id)
	}
	e.bus.Publish(s)
	return nil
}

// SetText sets the text of a text prop.
func (e *Editor) SetText(id graph.ID, text string) error {
	p, err := e.prop(id)
	if err != nil {
		return err
	}
	t, ok := p.(*props.Text)
	if !ok {
		return mismatch(p, "text")
	}
	t.Text = text
	e.bus.Publish(t)
	return nil
}

// SetNumber sets a float or integer prop. Integers are truncated.
func (e *Editor) SetNumber(id graph.ID, v float64) error {
	p, err := e.prop(id)
	if err != nil {
		return err
	}
	switch n := p.(type) {
	case *props.Float:
		n.Value = v
	case *props.Integer:
		n.Value = int(v)
	default:
		return mismatch(p, "number")
	}
	e.bus.Publish(p)
	return nil
}

// SetAssetRef points a thumbnail prop at ref, or clears it when ref is nil.
// The reference must resolve in the catalog when one is loaded.
func (e *Editor) SetAssetRef(id graph.ID, ref *meta.AssetRef) error {
	p, err := e.prop(id)
	if err != nil {
		return err
	}
	t, ok := p.(*props.Thumbnail)
	if !ok {
		return mismatch(p, props.TagThumbnail)
	}
	if ref == nil {
		t.ClearRef()
	} else {
		if e.catalog != nil {
			if _, ok := e.catalog.Resolve(*ref); !ok {
				return errors.New(errors.ErrCodeNotFound, "no asset %s", ref)
			}
		}
		t.SetRef(*ref)
	}
	e.bus.Publish(t)
	return nil
}

// SetValue parses value according to the prop's class and applies it:
//   - select: an option, or "#n" for index n
//   - text: the string as is
//   - float, integer: a decimal number
//   - thumbnail: "typeId.itemId", or "" to clear
func (e *Editor) SetValue(id graph.ID, value string) error {
	p, err := e.prop(id)
	if err != nil {
		return err
	}
	switch p.(type) {
	case *props.Select:
		if rest, ok := strings.CutPrefix(value, "#"); ok {
			i, err := strconv.Atoi(rest)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "select index %q", value)
			}
			return e.SetSelectedIndex(id, i)
		}
		return e.SetSelectedOption(id, value)
	case *props.Text:
		return e.SetText(id, value)
	case *props.Float, *props.Integer:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "number %q", value)
		}
		return e.SetNumber(id, v)
	case *props.Thumbnail:
		if value == "" {
			return e.SetAssetRef(id, nil)
		}
		typeID, itemID, ok := strings.Cut(value, ".")
		if !ok || typeID == "" || itemID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "asset reference %q is not typeId.itemId", value)
		}
		return e.SetAssetRef(id, &meta.AssetRef{TypeID: typeID, ItemID: itemID})
	}
	return errors.New(errors.ErrCodeUnsupported, "prop %d of class %s has no editable value", id, p.TypeTag())
}
