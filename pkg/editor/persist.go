package editor

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	"github.com/bploeckelman/nodes/pkg/errors"
	"github.com/bploeckelman/nodes/pkg/graph"
	"github.com/bploeckelman/nodes/pkg/io"
	"github.com/bploeckelman/nodes/pkg/meta"
	"github.com/bploeckelman/nodes/pkg/observability"
)

// Save asks the chooser for a name and saves the document under it.
func (e *Editor) Save(ctx context.Context) error {
	if e.chooser == nil {
		return errors.New(errors.ErrCodeNoSelection, "no document chooser configured")
	}
	name, err := e.chooser.ChooseSaveName(ctx, e.name)
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New(errors.ErrCodeNoSelection, "save cancelled")
	}
	return e.SaveTo(ctx, name)
}

// Load asks the chooser for a name and loads that document.
func (e *Editor) Load(ctx context.Context) (io.Report, error) {
	if e.chooser == nil {
		return io.Report{}, errors.New(errors.ErrCodeNoSelection, "no document chooser configured")
	}
	name, err := e.chooser.ChooseLoadName(ctx)
	if err != nil {
		return io.Report{}, err
	}
	if name == "" {
		return io.Report{}, errors.New(errors.ErrCodeNoSelection, "load cancelled")
	}
	return e.LoadFrom(ctx, name)
}

// SaveTo exports the graph and writes it to the store under name.
func (e *Editor) SaveTo(ctx context.Context, name string) (err error) {
	start := time.Now()
	nodes := len(e.graph.Nodes())
	defer func() {
		observability.Document().OnSaveComplete(ctx, name, nodes, time.Since(start), err)
		if err != nil {
			e.logger.Error("save failed", "name", name, "err", err)
		}
	}()

	if err := errors.ValidateDocumentName(name); err != nil {
		return err
	}
	if e.store == nil {
		return errors.New(errors.ErrCodeStorage, "no document store configured")
	}
	if e.catalog == nil || e.catalog.Path == "" {
		return errors.New(errors.ErrCodeInvalidCatalog, "document has no catalog to record")
	}

	doc, err := io.Export(e.graph, e.catalog.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "export %s", name)
	}
	var buf bytes.Buffer
	if err := io.Encode(&buf, doc); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", name)
	}
	if err := e.store.Put(ctx, name, buf.Bytes()); err != nil {
		return err
	}

	e.name = name
	e.logger.Info("saved document", "name", name, "nodes", nodes, "bytes", buf.Len())
	return nil
}

// LoadFrom reads the named document from the store and replaces the graph
// with it.
//
// The document's catalog is loaded first if it is not the current one.
// The import builds a new graph with a new allocator; only when it succeeds
// are they swapped in and the bindings of every node re-installed. On
// error the editor is left exactly as it was.
func (e *Editor) LoadFrom(ctx context.Context, name string) (report io.Report, err error) {
	start := time.Now()
	hooks := observability.Document()
	hooks.OnLoadStart(ctx, name)
	defer func() {
		hooks.OnLoadComplete(ctx, name, report.Nodes, time.Since(start), err)
		if err != nil {
			e.logger.Error("load failed", "name", name, "err", err)
		}
	}()

	if err := errors.ValidateDocumentName(name); err != nil {
		return io.Report{}, err
	}
	if e.store == nil {
		return io.Report{}, errors.New(errors.ErrCodeStorage, "no document store configured")
	}
	body, err := e.store.Get(ctx, name)
	if err != nil {
		return io.Report{}, err
	}
	doc, err := io.Decode(bytes.NewReader(body))
	if err != nil {
		return io.Report{}, err
	}

	catalog, err := e.catalogFor(doc.Metadata)
	if err != nil {
		return io.Report{}, err
	}

	imp := &io.Importer{
		Registry: e.registry,
		Catalog:  catalog,
		Policy:   e.policy,
		Logger:   e.logger,
	}
	ids := graph.NewIDAllocator()
	g, report, err := imp.Import(doc, ids)
	if err != nil {
		return report, err
	}

	e.reset(catalog, g, ids)
	e.name = name
	bound := 0
	for _, n := range g.Nodes() {
		if nt, ok := catalog.FindNodeType(n.NodeTypeID); ok {
			bound += e.resolver.Rewire(n, nt)
		}
	}

	e.logger.Info("loaded document", "name", name, "nodes", report.Nodes, "links", report.Links, "bindings", bound)
	for _, d := range report.Skipped {
		e.logger.Warn("skipped during load", "entity", d.String())
	}
	return report, nil
}

// catalogFor returns the current catalog if path names it, and otherwise
// loads the catalog at path.
func (e *Editor) catalogFor(path string) (*meta.Catalog, error) {
	if e.catalog != nil && e.catalog.Path != "" {
		abs, err := filepath.Abs(path)
		if err == nil && abs == e.catalog.Path {
			return e.catalog, nil
		}
	}
	return meta.Load(path, e.logger)
}
