package wznode

import (
	"testing"

	"github.com/ossyrian/wzkit/internal/wzprop"
)

func TestKindString(t *testing.T) {
	if got := KindCanvas.String(); got != "canvas" {
		t.Errorf("KindCanvas.String() = %q, want %q", got, "canvas")
	}
	if got := Kind(999).String(); got != "unknown" {
		t.Errorf("Kind(999).String() = %q, want %q", got, "unknown")
	}
}

func TestContainerRootNavigation(t *testing.T) {
	root := NewContainerRoot("TestContainer")
	leaf := valueNode("hp", root, wzprop.Value{Kind: wzprop.KindInt, Int: 42})
	root.AttachChild("hp", leaf)

	got, ok := root.At("hp")
	if !ok {
		t.Fatal("At(\"hp\") not found")
	}
	if got.Kind() != KindValue {
		t.Errorf("hp node kind = %v, want %v", got.Kind(), KindValue)
	}
	if got.Value().Int != 42 {
		t.Errorf("hp value = %d, want 42", got.Value().Int)
	}
	if got.Parent() != root {
		t.Error("AttachChild did not reparent the child to root")
	}
}

func TestAtPathNested(t *testing.T) {
	root := NewContainerRoot("root")
	mid := NewContainerRoot("mid")
	root.AttachChild("mid", mid)
	leaf := valueNode("leafname", mid, wzprop.Value{Kind: wzprop.KindString})
	mid.AttachChild("leafname", leaf)

	got, ok := root.AtPath("mid/leafname")
	if !ok {
		t.Fatal("AtPath(\"mid/leafname\") not found")
	}
	if got != leaf {
		t.Error("AtPath did not resolve to the attached leaf node")
	}
}

func TestAtPathParsedMissing(t *testing.T) {
	root := NewContainerRoot("root")
	if _, err := root.AtPathParsed("nope"); err == nil {
		t.Error("AtPathParsed(\"nope\") on an empty root should return an error")
	}
}

func TestAtRelativeParentWalk(t *testing.T) {
	root := NewContainerRoot("root")
	child := NewContainerRoot("child")
	root.AttachChild("child", child)

	got, ok := child.AtRelative("..")
	if !ok || got != root {
		t.Error("AtRelative(\"..\") should walk to the parent")
	}
}
