// Package meta loads and queries the metadata catalog that describes the
// node types, prop types and asset types available to the editor.
//
// # Catalog Format
//
// A catalog is a JSON or YAML document with two arrays:
//
//	{
//	  "assetTypes": [{"id", "name", "basePath", "items": [{"id", "name", "path", "properties": {...}}]}],
//	  "nodeTypes":  [{"id", "name", "inputs", "outputs", "props": [{"id", "name", "type", "assetType", "display", "dependsOn", "binding"}]}]
//	}
//
// Duplicate ids within either array are skipped after the first occurrence,
// with a warning logged for each duplicate.
//
// Item property values shaped like {"typeId": ..., "itemId": ...} are
// normalized to [AssetRef] when the catalog is read, so transforms can
// match them by type. Arrays are normalized element-wise.
//
// # Bindings
//
// A prop type may declare a [Binding] naming a source prop on the same node
// type and a transform kind ([TransformExtractRef], [TransformExtractArrayNames]
// or [TransformResolveFromArray]). Package binding turns these declarations
// into live subscriptions.
//
// A catalog is read-only once loaded. Nothing in this module mutates it.
package meta
