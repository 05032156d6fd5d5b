package props

import (
	"encoding/json"

	"github.com/bploeckelman/nodes/pkg/graph"
)

const (
	TagFloat   = "float"
	TagInteger = "integer"
)

// Float holds a floating point number.
type Float struct {
	graph.PropBase
	Value float64
}

func NewFloat() *Float { return &Float{} }

func (*Float) TypeTag() string     { return TagFloat }
func (*Float) DefaultName() string { return "Number" }
func (p *Float) Data() any         { return p.Value }

func (p *Float) MarshalData() ([]byte, error) { return json.Marshal(p.Value) }

func (p *Float) UnmarshalData(data []byte) error {
	return json.Unmarshal(data, &p.Value)
}

// Integer holds a whole number.
type Integer struct {
	graph.PropBase
	Value int
}

func NewInteger() *Integer { return &Integer{} }

func (*Integer) TypeTag() string     { return TagInteger }
func (*Integer) DefaultName() string { return "Number" }
func (p *Integer) Data() any         { return p.Value }

func (p *Integer) MarshalData() ([]byte, error) { return json.Marshal(p.Value) }

func (p *Integer) UnmarshalData(data []byte) error {
	return json.Unmarshal(data, &p.Value)
}
