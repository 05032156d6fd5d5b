package props

import (
	"strconv"
	"strings"

	"github.com/bploeckelman/nodes/pkg/graph"
)

// Describe returns a one-line rendering of p's value for listings and
// diagrams. Multiline text is cut at the first newline.
func Describe(p graph.Prop) string {
	switch v := p.(type) {
	case *Float:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *Integer:
		return strconv.Itoa(v.Value)
	case *Select:
		if opt := v.SelectedOption(); opt != "" {
			return opt
		}
		return "-"
	case *Thumbnail:
		if ref, ok := v.Ref(); ok {
			return ref.String()
		}
		return "-"
	case *Text:
		line, rest, _ := strings.Cut(v.Text, "\n")
		if rest != "" {
			line += " ..."
		}
		return line
	}
	return ""
}
