package layout

import (
	"testing"

	"github.com/loomkit/loom/pkg/hooks"
	"github.com/loomkit/loom/pkg/vdom"
)

func counterComponent(props any) *vdom.Node {
	n := props.(int)
	v, set, _ := hooks.UseState[int](n)
	return vdom.Button(vdom.Attrs{"id": "btn"}, vdom.Text(itoa(v))).On("click", func() {
		set(v + 1)
	})
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

func TestLayoutMountProducesReplaceNode(t *testing.T) {
	l := New(counterComponent, 0)
	patches := l.Render()
	if len(patches) != 1 || patches[0].Op != vdom.PatchReplaceNode {
		t.Fatalf("expected one mount ReplaceNode, got %+v", patches)
	}
	if patches[0].Node.HID() == "" {
		t.Fatal("expected mounted root to carry an HID")
	}
}

func TestLayoutEventDispatchRerendersWithNewText(t *testing.T) {
	l := New(counterComponent, 0)
	l.Render()

	var targetID string
	for id := range l.handlers {
		targetID = id
	}
	if targetID == "" {
		t.Fatal("expected a registered click handler after mount")
	}

	if err := l.Deliver(targetID, nil); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	patches := l.Render()
	var sawSetText bool
	for _, p := range patches {
		if p.Op == vdom.PatchSetText && p.Value == "1" {
			sawSetText = true
		}
	}
	if !sawSetText {
		t.Fatalf("expected a SetText patch updating the label to \"1\", got %+v", patches)
	}
}

func listComponent(props any) *vdom.Node {
	ids := props.([]string)
	items := make([]vdom.Child, len(ids))
	for i, id := range ids {
		items[i] = vdom.Component(id, itemComponent, id)
	}
	return vdom.Ul(nil, items...)
}

var itemMounts, itemUnmounts int

func itemComponent(props any) *vdom.Node {
	id := props.(string)
	ref, _ := hooks.UseRef(false)
	if !ref.Current {
		ref.Current = true
		itemMounts++
	}
	_ = hooks.UseEffect(func() func() {
		return func() { itemUnmounts++ }
	}, []any{})
	return vdom.Keyed(id, "li", nil, id)
}

func TestLayoutDestroysComponentInstanceWhenKeyDisappears(t *testing.T) {
	itemMounts, itemUnmounts = 0, 0
	l := New(listComponent, []string{"a", "b"})
	l.Render()
	if itemMounts != 2 {
		t.Fatalf("expected 2 mounts, got %d", itemMounts)
	}

	l.root.Props = []string{"a"}
	l.markDirty(l.root)
	l.Render()

	if itemUnmounts != 1 {
		t.Fatalf("expected the removed item's cleanup to run once, got %d", itemUnmounts)
	}
	if len(l.root.Children) != 1 {
		t.Fatalf("expected 1 surviving child instance, got %d", len(l.root.Children))
	}
}

func TestLayoutPreservesInstanceIdentityAcrossReorder(t *testing.T) {
	itemMounts, itemUnmounts = 0, 0
	l := New(listComponent, []string{"a", "b"})
	l.Render()

	var before *ComponentInstance
	for _, c := range l.root.Children {
		before = c
		break
	}

	l.root.Props = []string{"b", "a"}
	l.markDirty(l.root)
	l.Render()

	if itemMounts != 2 {
		t.Fatalf("expected no new mounts on reorder, got %d total mounts", itemMounts)
	}
	found := false
	for _, c := range l.root.Children {
		if c == before {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the original instance to survive a pure reorder")
	}
}

var effectRuns, effectCleanups int

func effectComponent(props any) *vdom.Node {
	dep := props.(int)
	_ = hooks.UseEffect(func() func() {
		effectRuns++
		return func() { effectCleanups++ }
	}, []any{dep})
	return vdom.Div(nil)
}

func TestLayoutRunsEffectSetupAfterMount(t *testing.T) {
	effectRuns, effectCleanups = 0, 0
	l := New(effectComponent, 0)
	l.Render()

	if effectRuns != 1 {
		t.Fatalf("expected the effect's setup to run once after mount, got %d", effectRuns)
	}
	if effectCleanups != 0 {
		t.Fatalf("expected no cleanup before a dependency change, got %d", effectCleanups)
	}
}

func TestLayoutRerunsEffectWhenDepsChangeAndCleansUpThePrevious(t *testing.T) {
	effectRuns, effectCleanups = 0, 0
	l := New(effectComponent, 0)
	l.Render()

	l.root.Props = 1
	l.markDirty(l.root)
	l.Render()

	if effectRuns != 2 {
		t.Fatalf("expected setup to run again after deps changed, got %d runs", effectRuns)
	}
	if effectCleanups != 1 {
		t.Fatalf("expected the prior effect's cleanup to run once before the new setup, got %d", effectCleanups)
	}
}

func TestLayoutDoesNotRerunEffectWhenDepsAreUnchanged(t *testing.T) {
	effectRuns, effectCleanups = 0, 0
	l := New(effectComponent, 0)
	l.Render()

	l.markDirty(l.root)
	l.Render()

	if effectRuns != 1 {
		t.Fatalf("expected setup to run only once when deps are unchanged, got %d runs", effectRuns)
	}
	if effectCleanups != 0 {
		t.Fatalf("expected no cleanup when deps are unchanged, got %d", effectCleanups)
	}
}
