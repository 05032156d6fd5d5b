package meta

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/bploeckelman/nodes/pkg/errors"
)

// Format is a catalog encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidPath, "unsupported catalog extension: %q", path)
	}
}

type document struct {
	AssetTypes []*AssetType `json:"assetTypes" yaml:"assetTypes"`
	NodeTypes  []*NodeType  `json:"nodeTypes" yaml:"nodeTypes"`
}

// Load reads the catalog at path. The format is chosen from the extension.
// A nil logger uses the default logger.
func Load(path string, logger *log.Logger) (*Catalog, error) {
	if err := errors.ValidateCatalogPath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "open catalog %s", path)
	}
	defer f.Close()

	c, err := Read(f, format, logger)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	c.Path = path
	c.log().Info("loaded catalog", "path", path, "assetTypes", len(c.AssetTypes), "nodeTypes", len(c.NodeTypes))
	return c, nil
}

// Read decodes a catalog from r. The returned catalog has no Path.
func Read(r io.Reader, format Format, logger *log.Logger) (*Catalog, error) {
	var doc document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "catalog format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode %s catalog", format)
	}
	return build(doc, logger), nil
}

func build(doc document, logger *log.Logger) *Catalog {
	c := &Catalog{
		assetTypes: make(map[string]*AssetType, len(doc.AssetTypes)),
		nodeTypes:  make(map[string]*NodeType, len(doc.NodeTypes)),
		logger:     logger,
	}

	for _, at := range doc.AssetTypes {
		if at == nil {
			continue
		}
		if _, dup := c.assetTypes[at.ID]; dup {
			c.log().Warn("duplicate asset type, skipping", "id", at.ID)
			continue
		}
		for i := range at.Items {
			normalizeProperties(at.Items[i].Properties)
		}
		c.assetTypes[at.ID] = at
		c.AssetTypes = append(c.AssetTypes, at)
	}

	for _, nt := range doc.NodeTypes {
		if nt == nil {
			continue
		}
		if _, dup := c.nodeTypes[nt.ID]; dup {
			c.log().Warn("duplicate node type, skipping", "id", nt.ID)
			continue
		}
		c.nodeTypes[nt.ID] = nt
		c.NodeTypes = append(c.NodeTypes, nt)
	}
	return c
}

func normalizeProperties(props map[string]any) {
	for k, v := range props {
		props[k] = normalize(v)
	}
}

// normalize converts {typeId, itemId} objects to AssetRef, recursing into
// arrays and nested objects.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := asRef(t); ok {
			return ref
		}
		normalizeProperties(t)
		return t
	case []any:
		for i := range t {
			t[i] = normalize(t[i])
		}
		return t
	default:
		return v
	}
}

func asRef(m map[string]any) (AssetRef, bool) {
	if len(m) != 2 {
		return AssetRef{}, false
	}
	typeID, ok1 := m["typeId"].(string)
	itemID, ok2 := m["itemId"].(string)
	if !ok1 || !ok2 {
		return AssetRef{}, false
	}
	return AssetRef{TypeID: typeID, ItemID: itemID}, true
}

// Display is a parsed "type.field" expression.
//
// Type is an asset type id, or [DisplayValue] meaning "the asset item named
// by the current value of the prop this one depends on".
type Display struct {
	Type  string
	Field string
}

// DisplayValue is the Display.Type placeholder for the depended-on value.
const DisplayValue = "#{value}"

// IsValueRef reports whether the display refers to the depended-on value.
func (d Display) IsValueRef() bool { return d.Type == DisplayValue }

func (d Display) String() string { return d.Type + "." + d.Field }

// ParseDisplay splits a "type.field" expression at its first dot.
func ParseDisplay(s string) (Display, error) {
	typ, field, ok := strings.Cut(s, ".")
	if !ok || typ == "" || field == "" {
		return Display{}, fmt.Errorf("invalid display %q: want type.field", s)
	}
	return Display{Type: typ, Field: field}, nil
}
