package props

import "github.com/bploeckelman/nodes/pkg/graph"

const TagTest = "test"

// Test carries no value. It owns one data input and one data output pin,
// which makes it useful for exercising prop-to-prop links.
type Test struct {
	graph.PropBase
}

func NewTest() *Test { return &Test{} }

func (*Test) TypeTag() string                 { return TagTest }
func (*Test) DefaultName() string             { return "Test" }
func (*Test) Data() any                       { return nil }
func (*Test) MarshalData() ([]byte, error)    { return []byte("null"), nil }
func (*Test) UnmarshalData(data []byte) error { return nil }

// CreatePins implements PinCreator.
func (p *Test) CreatePins(ids *graph.IDAllocator) {
	graph.NewPin(ids, graph.PropAttachment{Owner: p}, graph.PinInput, graph.PinData)
	graph.NewPin(ids, graph.PropAttachment{Owner: p}, graph.PinOutput, graph.PinData)
}
