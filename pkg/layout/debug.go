package layout

import (
	"reflect"

	"github.com/loomkit/loom/pkg/vdom"
)

// debugCheck runs the two debug-mode diagnostics spec.md §6 names beyond
// error-field surfacing (which renderOnce already handles): schema
// validation of the emitted tree, and a missing-key warning for siblings
// of list-like origin. Both are advisory — they log through l.logf and
// never alter the tree or abort a render.
func (l *Layout) debugCheck(root *vdom.Node) {
	if !l.Debug || root == nil {
		return
	}
	l.validateSchema(root)
	l.warnMissingKeys(root)
}

// validateSchema checks the invariants spec.md §3 states for an emitted
// VDOM: no unexpanded component call sites, no element-only fields on a
// text leaf, and unique keys among siblings.
func (l *Layout) validateSchema(n *vdom.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case vdom.KindComponent:
		l.logf("debug: unexpanded component node reached the emitted tree (tag=%q)", n.Tag)
	case vdom.KindText:
		if len(n.Children) > 0 || len(n.Attrs) > 0 || len(n.Events) > 0 || n.Import != nil {
			l.logf("debug: text node carries element-only fields: %q", n.Text)
		}
	}

	seen := make(map[string]bool, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if c.Key != "" {
			if seen[c.Key] {
				l.logf("debug: duplicate key %q among siblings under tag %q", c.Key, n.Tag)
			}
			seen[c.Key] = true
		}
		l.validateSchema(c)
	}
}

// siblingGroup identifies children interchangeable enough that losing
// position between renders needs a key to disambiguate: same kind, same
// tag (for elements) or same render function (for components). A literal
// handful of differently-shaped siblings (e.g. a header then a list) is
// never ambiguous and is never flagged.
type siblingGroup struct {
	kind vdom.Kind
	tag  string
	fn   uintptr
}

// warnMissingKeys logs when a parent has more than one child in the same
// sibling group and at least one of that group lacks a key — the case
// where reconciliation identity is ambiguous (spec.md §6 "siblings of
// list-like origin": a render function producing several same-shaped
// children, almost always by iterating a collection, is exactly the
// shape that needs a key per child to survive a reorder).
func (l *Layout) warnMissingKeys(n *vdom.Node) {
	if n == nil {
		return
	}

	groups := make(map[siblingGroup][]*vdom.Node, len(n.Children))
	for _, c := range n.Children {
		if c == nil || c.Kind == vdom.KindText {
			continue
		}
		g := siblingGroup{kind: c.Kind, tag: c.Tag}
		if c.Render != nil {
			g.fn = reflect.ValueOf(c.Render).Pointer()
		}
		groups[g] = append(groups[g], c)
	}
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		for _, m := range members {
			if m.Key == "" {
				l.logf("debug: missing key among siblings of list-like origin under tag %q", n.Tag)
				break
			}
		}
	}

	for _, c := range n.Children {
		l.warnMissingKeys(c)
	}
}
