package flowfile

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rzaytsev/flowbind/internal/address"
	"github.com/rzaytsev/flowbind/internal/ctxlog"
	"github.com/rzaytsev/flowbind/internal/flowgraph"
	"github.com/rzaytsev/flowbind/internal/fsutil"
	"github.com/rzaytsev/flowbind/internal/hclval"
)

// Extension is the suffix flow files are discovered by.
const Extension = ".flow.hcl"

// Loader parses flow files into the deployable model.
type Loader struct{}

// NewLoader creates a flow file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDir discovers every flow file under root and loads the whole set.
func (l *Loader) LoadDir(ctx context.Context, root string) ([]*Flow, error) {
	files, err := fsutil.FindFilesByExtension(root, Extension)
	if err != nil {
		return nil, fmt.Errorf("discovering flow files under %s: %w", root, err)
	}
	return l.LoadFiles(ctx, files...)
}

// LoadFiles parses and validates the given flow files. All flows of the set
// are validated together, since wires may cross flows.
func (l *Loader) LoadFiles(ctx context.Context, paths ...string) ([]*Flow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Flow loader started.", "file_count", len(paths))

	parser := hclparse.NewParser()
	var flows []*Flow

	for _, path := range paths {
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse flow file %s: %w", path, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode flow file %s: %w", path, diags)
		}

		for _, fb := range root.Flows {
			flow, err := l.translateFlow(fb)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", path, err)
			}
			flows = append(flows, flow)
		}
	}

	if err := validate(flows); err != nil {
		return nil, err
	}

	l.noteFeedbackLoops(ctx, flows)

	logger.Debug("Flow loading complete.", "flows", len(flows))
	return flows, nil
}

// translateFlow converts one decoded flow block into the model, resolving
// wire references against the enclosing flow.
func (l *Loader) translateFlow(fb *flowBlock) (*Flow, error) {
	flow := &Flow{ID: fb.ID, Entry: fb.Entry}

	for _, nb := range fb.Nodes {
		n := &Node{Type: nb.Type, Name: nb.Name}

		for _, ref := range nb.Wires {
			target, err := address.ParseRef(fb.ID, ref)
			if err != nil {
				return nil, fmt.Errorf("flow %q node %q: %w", fb.ID, nb.Name, err)
			}
			n.Wires = append(n.Wires, target)
		}

		if nb.Settings != nil {
			props, err := decodeSettings(nb.Settings)
			if err != nil {
				return nil, fmt.Errorf("flow %q node %q: %w", fb.ID, nb.Name, err)
			}
			n.Props = props
		}

		flow.Nodes = append(flow.Nodes, n)
	}

	return flow, nil
}

// decodeSettings evaluates the settings attributes without any variables in
// scope, so only literal values are accepted.
func decodeSettings(sb *settingsBlock) (map[string]any, error) {
	attrs, diags := sb.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("reading settings: %w", diags)
	}

	props := make(map[string]any, len(attrs))

	// Sort for deterministic error reporting.
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("setting %q must be a literal: %w", name, diags)
		}
		goVal, err := hclval.ToGo(val)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", name, err)
		}
		props[name] = goVal
	}

	return props, nil
}

// noteFeedbackLoops builds a throwaway graph over the loaded set and logs
// when the wiring loops. Feedback is legal; the note helps debugging flows
// that spin.
func (l *Loader) noteFeedbackLoops(ctx context.Context, flows []*Flow) {
	g := flowgraph.New()
	for _, f := range flows {
		for _, n := range f.Nodes {
			g.AddNode(address.New(f.ID, n.Name))
		}
	}
	for _, f := range flows {
		for _, n := range f.Nodes {
			from := address.New(f.ID, n.Name)
			for _, to := range n.Wires {
				_ = g.AddWire(from, to)
			}
		}
	}
	if at, found := g.FindCycle(); found {
		ctxlog.FromContext(ctx).Debug("Flow wiring contains a feedback loop.", "at", at.String())
	}
}
