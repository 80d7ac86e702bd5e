package pb

import (
	"testing"

	"github.com/ossyrian/wzkit/internal/wznode"
)

func TestExportNodeContainerTree(t *testing.T) {
	root := wznode.NewContainerRoot("root")
	mid := wznode.NewContainerRoot("mid")
	root.AttachChild("mid", mid)

	out, err := ExportNode(root, ExportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != NodeProto_CONTAINER {
		t.Errorf("root Kind = %v, want CONTAINER", out.Kind)
	}
	if len(out.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(out.Children))
	}
	got := out.Children[0]
	if got.Name != "mid" {
		t.Errorf("child name = %q, want %q", got.Name, "mid")
	}
	if got.Kind != NodeProto_CONTAINER {
		t.Errorf("child kind = %v, want CONTAINER", got.Kind)
	}
	if len(got.Children) != 0 {
		t.Errorf("leaf container has %d children, want 0", len(got.Children))
	}
}

func TestExportNodeEmptyRoot(t *testing.T) {
	root := wznode.NewContainerRoot("root")
	out, err := ExportNode(root, ExportOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Name != "root" {
		t.Errorf("Name = %q, want %q", out.Name, "root")
	}
	if len(out.Children) != 0 {
		t.Errorf("empty root exported %d children, want 0", len(out.Children))
	}
}
