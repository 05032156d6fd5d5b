// Package props implements the prop variants a node can carry and the
// registry that reconstructs them from their type tags.
//
// Every variant embeds [graph.PropBase] and is attached to its node by
// [Registry.New]. The tag returned by TypeTag is what documents store as a
// prop's "class", so tags must never change once documents exist.
//
// Built-in variants:
//
//	float                  Float      number value
//	integer                Integer    whole number value
//	select                 Select     options plus selected index
//	thumbnail              Thumbnail  asset reference plus lazily loaded image
//	input-text             Text       single line of text
//	input-text-multiline   Text       multiple lines of text
//	test                   Test       no value, one data pin each way
//
// Variants that own pins implement [PinCreator]. Their pins are created only
// when a prop is created live; a document load restores the persisted pins
// instead.
package props
