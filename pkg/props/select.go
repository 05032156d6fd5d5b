package props

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/bploeckelman/nodes/pkg/graph"
)

const TagSelect = "select"

// SelectData is the persisted and published value of a [Select].
type SelectData struct {
	Options       []string `json:"options"`
	SelectedIndex int      `json:"selectedIndex"`
}

// SelectedOption returns the selected option, or "" when the index is out
// of range.
func (d SelectData) SelectedOption() string {
	if d.SelectedIndex >= 0 && d.SelectedIndex < len(d.Options) {
		return d.Options[d.SelectedIndex]
	}
	return ""
}

// Select is a choice among a list of options.
type Select struct {
	graph.PropBase
	data SelectData
}

// NewSelect returns a select with no options and nothing selected.
func NewSelect() *Select {
	return &Select{data: SelectData{Options: []string{}, SelectedIndex: -1}}
}

func (*Select) TypeTag() string     { return TagSelect }
func (*Select) DefaultName() string { return "Select" }

// Data returns a copy of the current [SelectData].
func (p *Select) Data() any { return p.Value() }

// Value returns a copy of the current options and index.
func (p *Select) Value() SelectData {
	return SelectData{Options: slices.Clone(p.data.Options), SelectedIndex: p.data.SelectedIndex}
}

// Options returns a copy of the option list.
func (p *Select) Options() []string { return slices.Clone(p.data.Options) }

func (p *Select) SelectedIndex() int { return p.data.SelectedIndex }

func (p *Select) SelectedOption() string { return p.data.SelectedOption() }

// SetOptions replaces the options and selects the first one, or nothing
// when opts is empty.
func (p *Select) SetOptions(opts []string) {
	p.data.Options = slices.Clone(opts)
	if p.data.Options == nil {
		p.data.Options = []string{}
	}
	if len(opts) > 0 {
		p.data.SelectedIndex = 0
	} else {
		p.data.SelectedIndex = -1
	}
}

// SetSelectedIndex selects an option. -1 clears the selection.
func (p *Select) SetSelectedIndex(i int) error {
	if i < -1 || i >= len(p.data.Options) {
		return fmt.Errorf("select index %d out of range [-1, %d)", i, len(p.data.Options))
	}
	p.data.SelectedIndex = i
	return nil
}

// SetSelectedOption selects the first option equal to opt.
func (p *Select) SetSelectedOption(opt string) error {
	i := slices.Index(p.data.Options, opt)
	if i < 0 {
		return fmt.Errorf("no option %q", opt)
	}
	p.data.SelectedIndex = i
	return nil
}

func (p *Select) MarshalData() ([]byte, error) { return json.Marshal(p.data) }

func (p *Select) UnmarshalData(data []byte) error {
	d := SelectData{SelectedIndex: -1}
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	if d.Options == nil {
		d.Options = []string{}
	}
	p.data = d
	return nil
}
