package props

import (
	"encoding/json"

	"github.com/bploeckelman/nodes/pkg/graph"
)

const (
	TagInputText          = "input-text"
	TagInputTextMultiline = "input-text-multiline"
)

// Text holds free text, on one line or several.
type Text struct {
	graph.PropBase
	Multiline bool
	Text      string
}

func NewText(multiline bool) *Text { return &Text{Multiline: multiline} }

func (p *Text) TypeTag() string {
	if p.Multiline {
		return TagInputTextMultiline
	}
	return TagInputText
}

func (*Text) DefaultName() string { return "Text" }
func (p *Text) Data() any         { return p.Text }

func (p *Text) MarshalData() ([]byte, error) { return json.Marshal(p.Text) }

func (p *Text) UnmarshalData(data []byte) error {
	return json.Unmarshal(data, &p.Text)
}
