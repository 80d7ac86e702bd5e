package wznode

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Tree wraps a root Node (typically one built by NewFile) with whole-tree
// operations.
type Tree struct {
	Root *Node
}

// ParseAll recursively parses every Directory/Image node under the root
// concurrently, so a caller that wants to walk an entire container (for
// export or a full-tree dump) doesn't pay for it one image at a time.
func (t *Tree) ParseAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	parseNodeRecursive(ctx, g, t.Root)
	return g.Wait()
}

func parseNodeRecursive(ctx context.Context, g *errgroup.Group, n *Node) {
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		children, err := n.Children()
		if err != nil {
			return err
		}
		for _, child := range children {
			if child.Kind() == KindFile || child.Kind() == KindDirectory || child.Kind() == KindImage {
				parseNodeRecursive(ctx, g, child)
			}
		}
		return nil
	})
}
