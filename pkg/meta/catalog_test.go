package meta_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bploeckelman/nodes/internal/fixture"
	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/meta"
)

func TestLookups(t *testing.T) {
	c := fixture.Catalog(t)

	if got := c.NodeTypeIDs(); !slices.Equal(got, []string{"dialogue", "narrator", "villain", "delay"}) {
		t.Errorf("NodeTypeIDs() = %v", got)
	}

	nt, ok := c.FindNodeType("dialogue")
	if !ok {
		t.Fatal("dialogue not found")
	}
	if nt.Inputs != 1 || nt.Outputs != 1 || len(nt.Props) != 5 {
		t.Errorf("dialogue = %+v", nt)
	}
	pt, ok := nt.FindPropType("expression-image")
	if !ok || pt.Binding == nil || pt.Binding.AdditionalSourceID != "character" {
		t.Errorf("FindPropType(expression-image) = %+v, %v", pt, ok)
	}
	if _, ok := nt.FindPropType("nope"); ok {
		t.Error("FindPropType(nope) matched")
	}
	if _, ok := c.FindNodeType("nope"); ok {
		t.Error("FindNodeType(nope) matched")
	}

	item, ok := c.Resolve(meta.AssetRef{TypeID: "textures", ItemID: "tex-bob"})
	if !ok || item.Path != "bob.png" {
		t.Errorf("Resolve(tex-bob) = %+v, %v", item, ok)
	}
	if _, ok := c.Resolve(meta.AssetRef{TypeID: "nope", ItemID: "tex-bob"}); ok {
		t.Error("Resolve with unknown type matched")
	}
}

func TestNormalizesAssetRefs(t *testing.T) {
	c := fixture.Catalog(t)
	alice, _ := c.Resolve(meta.AssetRef{TypeID: "characters", ItemID: "alice"})

	portrait, ok := alice.Properties["portrait"].(meta.AssetRef)
	if !ok {
		t.Fatalf("portrait = %T, want meta.AssetRef", alice.Properties["portrait"])
	}
	if portrait.CacheKey() != "textures.tex-alice" {
		t.Errorf("CacheKey() = %q", portrait.CacheKey())
	}

	exprs, ok := alice.Properties["expressions"].([]any)
	if !ok || len(exprs) != 2 {
		t.Fatalf("expressions = %#v", alice.Properties["expressions"])
	}
	for i, e := range exprs {
		if _, ok := e.(meta.AssetRef); !ok {
			t.Errorf("expressions[%d] = %T, want meta.AssetRef", i, e)
		}
	}

	if title := alice.Properties["title"]; title != "Captain" {
		t.Errorf("title = %v", title)
	}
}

func TestFieldValues(t *testing.T) {
	c := fixture.Catalog(t)

	tests := []struct {
		name      string
		assetType string
		field     string
		want      []any
		wantOK    bool
	}{
		{"names", "characters", "name", []any{"Alice", "Bob"}, true},
		{"ids", "textures", "id", []any{"tex-alice", "tex-bob", "tex-alice-happy", "tex-alice-sad"}, true},
		{"property", "characters", "title", []any{"Captain"}, true},
		{"empty type", "villains", "name", []any{}, true},
		{"unknown type", "nope", "name", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.FieldValues(tt.assetType, tt.field)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("FieldValues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropertyOfItemNamed(t *testing.T) {
	c := fixture.Catalog(t)

	v, ok := c.PropertyOfItemNamed("Bob", "portrait")
	if !ok || v != (meta.AssetRef{TypeID: "textures", ItemID: "tex-bob"}) {
		t.Errorf("PropertyOfItemNamed(Bob, portrait) = %v, %v", v, ok)
	}
	if _, ok := c.PropertyOfItemNamed("Bob", "title"); ok {
		t.Error("missing property matched")
	}
	if _, ok := c.PropertyOfItemNamed("Nobody", "portrait"); ok {
		t.Error("missing item matched")
	}
}

func TestRefName(t *testing.T) {
	c := fixture.Catalog(t)

	tests := []struct {
		ref  meta.AssetRef
		want string
	}{
		{meta.AssetRef{TypeID: "textures", ItemID: "tex-alice-sad"}, "Sad"},
		{meta.AssetRef{TypeID: "wrong", ItemID: "tex-alice-sad"}, "Sad"},
		{meta.AssetRef{TypeID: "textures", ItemID: "tex-ghost"}, "tex-ghost"},
	}
	for _, tt := range tests {
		if got := c.RefName(tt.ref); got != tt.want {
			t.Errorf("RefName(%v) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestDuplicateIDsFirstWins(t *testing.T) {
	const doc = `{
	  "assetTypes": [
	    {"id": "a", "name": "First", "items": []},
	    {"id": "a", "name": "Second", "items": []}
	  ],
	  "nodeTypes": [
	    {"id": "n", "name": "First", "props": []},
	    {"id": "m", "name": "Other", "props": []},
	    {"id": "n", "name": "Second", "props": []}
	  ]
	}`
	c, err := meta.Read(strings.NewReader(doc), meta.FormatJSON, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.AssetTypes) != 1 || c.AssetTypes[0].Name != "First" {
		t.Errorf("AssetTypes = %+v", c.AssetTypes)
	}
	nt, _ := c.FindNodeType("n")
	if nt.Name != "First" || len(c.NodeTypes) != 2 {
		t.Errorf("node type n = %+v, count %d", nt, len(c.NodeTypes))
	}
}

func TestReadYAML(t *testing.T) {
	const doc = `
assetTypes:
  - id: textures
    name: Textures
    items:
      - {id: t1, name: One, path: one.png}
  - id: characters
    name: Characters
    items:
      - id: c1
        name: Carol
        properties:
          portrait: {typeId: textures, itemId: t1}
          tags: [brave, loud]
nodeTypes:
  - id: speak
    name: Speak
    inputs: 1
    outputs: 1
    props:
      - id: who
        type: select
        assetType: characters
        display: characters.name
      - id: face
        type: thumbnail
        binding: {sourceId: who, transformType: extract_ref, propertyPath: portrait}
`
	c, err := meta.Read(strings.NewReader(doc), meta.FormatYAML, nil)
	if err != nil {
		t.Fatal(err)
	}
	carol, ok := c.Resolve(meta.AssetRef{TypeID: "characters", ItemID: "c1"})
	if !ok {
		t.Fatal("c1 not found")
	}
	if ref, ok := carol.Properties["portrait"].(meta.AssetRef); !ok || ref.ItemID != "t1" {
		t.Errorf("portrait = %#v", carol.Properties["portrait"])
	}
	nt, _ := c.FindNodeType("speak")
	face, _ := nt.FindPropType("face")
	if face.Binding == nil || face.Binding.TransformType != meta.TransformExtractRef {
		t.Errorf("face binding = %+v", face.Binding)
	}
}

func TestReadMalformed(t *testing.T) {
	_, err := meta.Read(strings.NewReader(`{"nodeTypes": 7}`), meta.FormatJSON, nil)
	if !errors.Is(err, errors.ErrCodeInvalidCatalog) {
		t.Errorf("Read() error = %v, want %s", err, errors.ErrCodeInvalidCatalog)
	}
	_, err = meta.Read(strings.NewReader(`{}`), meta.Format("toml"), nil)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Read(toml) error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := fixture.WriteCatalog(t, dir)

	c, err := meta.Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(c.Path) || filepath.Base(c.Path) != "catalog.json" {
		t.Errorf("Path = %q", c.Path)
	}

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "missing.json"), errors.ErrCodeFileNotFound},
		{"bad extension", filepath.Join(dir, "catalog.txt"), errors.ErrCodeInvalidPath},
		{"empty", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := meta.Load(tt.path, nil); !errors.Is(err, tt.code) {
				t.Errorf("Load(%q) error = %v, want %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	body := "nodeTypes:\n  - id: empty\n    name: Empty\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := meta.Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.FindNodeType("empty"); !ok {
		t.Error("node type from YAML file not found")
	}
}
