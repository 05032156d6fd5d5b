package meta

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

// Transform kinds understood by package binding.
const (
	TransformExtractRef        = "extract_ref"
	TransformExtractArrayNames = "extract_array_names"
	TransformResolveFromArray  = "resolve_from_array"
)

// Transforms lists every known transform kind.
var Transforms = []string{
	TransformExtractRef,
	TransformExtractArrayNames,
	TransformResolveFromArray,
}

// Catalog is a loaded metadata catalog.
type Catalog struct {
	// Path is the file the catalog was loaded from. Documents record it so
	// the catalog can be reloaded before their nodes are interpreted.
	Path string

	AssetTypes []*AssetType
	NodeTypes  []*NodeType

	assetTypes map[string]*AssetType
	nodeTypes  map[string]*NodeType
	logger     *log.Logger
}

// AssetType is a named collection of content items.
type AssetType struct {
	ID       string      `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	BasePath string      `json:"basePath,omitempty" yaml:"basePath,omitempty"`
	Items    []AssetItem `json:"items" yaml:"items"`
}

// AssetItem is one entry in an asset type.
type AssetItem struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Path       string         `json:"path,omitempty" yaml:"path,omitempty"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// AssetRef points at an item of an asset type.
type AssetRef struct {
	TypeID string `json:"typeId" yaml:"typeId"`
	ItemID string `json:"itemId" yaml:"itemId"`
}

// CacheKey returns "typeId.itemId".
func (r AssetRef) CacheKey() string { return r.TypeID + "." + r.ItemID }

func (r AssetRef) String() string { return r.CacheKey() }

// NodeType describes a kind of node the factory can create.
type NodeType struct {
	ID      string     `json:"id" yaml:"id"`
	Name    string     `json:"name" yaml:"name"`
	Inputs  int        `json:"inputs" yaml:"inputs"`
	Outputs int        `json:"outputs" yaml:"outputs"`
	Props   []PropType `json:"props" yaml:"props"`
}

// PropType describes one prop of a node type.
type PropType struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Type is the registry tag of the prop variant, e.g. "select".
	Type string `json:"type" yaml:"type"`
	// AssetType optionally names the asset type the prop draws values from.
	AssetType string `json:"assetType,omitempty" yaml:"assetType,omitempty"`
	// Display is a "type.field" expression, see [ParseDisplay].
	Display   string   `json:"display,omitempty" yaml:"display,omitempty"`
	DependsOn string   `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Binding   *Binding `json:"binding,omitempty" yaml:"binding,omitempty"`
}

// Binding declares that a prop's value is derived from another prop.
type Binding struct {
	SourceID           string `json:"sourceId" yaml:"sourceId"`
	TransformType      string `json:"transformType" yaml:"transformType"`
	PropertyPath       string `json:"propertyPath,omitempty" yaml:"propertyPath,omitempty"`
	AdditionalSourceID string `json:"additionalSourceId,omitempty" yaml:"additionalSourceId,omitempty"`
}

// FindAssetType returns the asset type with the given id.
func (c *Catalog) FindAssetType(id string) (*AssetType, bool) {
	at, ok := c.assetTypes[id]
	return at, ok
}

// FindNodeType returns the node type with the given id.
func (c *Catalog) FindNodeType(id string) (*NodeType, bool) {
	nt, ok := c.nodeTypes[id]
	return nt, ok
}

// Resolve returns the item a ref points at.
func (c *Catalog) Resolve(ref AssetRef) (*AssetItem, bool) {
	at, ok := c.FindAssetType(ref.TypeID)
	if !ok {
		return nil, false
	}
	return at.FindItem(ref.ItemID)
}

// FieldValues returns the value of field for every item of the asset type,
// in item order. Items lacking the field are logged and omitted. The second
// result is false if the asset type does not exist.
func (c *Catalog) FieldValues(assetTypeID, field string) ([]any, bool) {
	at, ok := c.FindAssetType(assetTypeID)
	if !ok {
		c.log().Warn("unknown asset type", "id", assetTypeID)
		return nil, false
	}
	values := make([]any, 0, len(at.Items))
	for i := range at.Items {
		v, ok := at.Items[i].Field(field)
		if !ok {
			c.log().Warn("unknown asset item field", "field", field, "item", at.Items[i].ID, "assetType", at.ID)
			continue
		}
		values = append(values, v)
	}
	return values, true
}

// PropertyOfItemNamed searches asset types in declaration order for the
// first item called name and returns its property at path.
func (c *Catalog) PropertyOfItemNamed(name, path string) (any, bool) {
	for _, at := range c.AssetTypes {
		if item, ok := at.FindItemNamed(name); ok {
			v, ok := item.Properties[path]
			return v, ok
		}
	}
	return nil, false
}

// RefName returns the display name of the item a ref points at, or the
// item id when the item is unknown.
func (c *Catalog) RefName(ref AssetRef) string {
	if item, ok := c.Resolve(ref); ok {
		return item.Name
	}
	for _, at := range c.AssetTypes {
		if item, ok := at.FindItem(ref.ItemID); ok {
			return item.Name
		}
	}
	return ref.ItemID
}

// NodeTypeIDs returns the ids of all node types in declaration order.
func (c *Catalog) NodeTypeIDs() []string {
	ids := make([]string, len(c.NodeTypes))
	for i, nt := range c.NodeTypes {
		ids[i] = nt.ID
	}
	return ids
}

func (c *Catalog) log() *log.Logger {
	if c.logger == nil {
		return log.Default()
	}
	return c.logger
}

// FindItem returns the item with the given id.
func (at *AssetType) FindItem(id string) (*AssetItem, bool) {
	i := slices.IndexFunc(at.Items, func(it AssetItem) bool { return it.ID == id })
	if i < 0 {
		return nil, false
	}
	return &at.Items[i], true
}

// FindItemNamed returns the first item with the given display name.
func (at *AssetType) FindItemNamed(name string) (*AssetItem, bool) {
	i := slices.IndexFunc(at.Items, func(it AssetItem) bool { return it.Name == name })
	if i < 0 {
		return nil, false
	}
	return &at.Items[i], true
}

// Field returns one of the fixed fields "id", "name" or "path", or
// otherwise the top-level property of that name.
func (it *AssetItem) Field(field string) (any, bool) {
	switch field {
	case "id":
		return it.ID, it.ID != ""
	case "name":
		return it.Name, it.Name != ""
	case "path":
		return it.Path, it.Path != ""
	}
	v, ok := it.Properties[field]
	return v, ok && v != nil
}

// FindPropType returns the prop type with the given id.
func (nt *NodeType) FindPropType(id string) (*PropType, bool) {
	i := slices.IndexFunc(nt.Props, func(pt PropType) bool { return pt.ID == id })
	if i < 0 {
		return nil, false
	}
	return &nt.Props[i], true
}

func (nt *NodeType) String() string {
	return fmt.Sprintf("%s (%s)", nt.Name, nt.ID)
}
