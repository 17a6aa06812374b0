package confluence

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// NoDepthLimit fetches the entire hierarchy.
const NoDepthLimit = -1

// BuildPageTree fetches a page and its descendants starting at depth zero.
// maxDepth caps descent (NoDepthLimit fetches everything; 0 fetches only
// the root). Per-child fetch failures are logged and skipped so sibling
// traversal continues; a page that links back to an ancestor fails that
// subtree with a circular reference error.
func BuildPageTree(ctx context.Context, api API, pageID string, maxDepth int) (*PageTree, error) {
	return buildPageTree(ctx, api, pageID, 0, maxDepth, map[string]struct{}{})
}

func buildPageTree(ctx context.Context, api API, pageID string, depth, maxDepth int, visited map[string]struct{}) (*PageTree, error) {
	if _, seen := visited[pageID]; seen {
		return nil, fmt.Errorf("circular reference detected: page %s already visited", pageID)
	}
	visited[pageID] = struct{}{}

	page, err := api.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %s: %w", pageID, err)
	}

	tree := &PageTree{Page: page, Depth: depth}

	if maxDepth != NoDepthLimit && depth >= maxDepth {
		return tree, nil
	}

	children, err := api.GetChildPages(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch children of page %s: %w", pageID, err)
	}

	for _, child := range children {
		childTree, err := buildPageTree(ctx, api, child.ID, depth+1, maxDepth, visited)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"page":  child.ID,
				"title": child.Title,
			}).WithError(err).Warn("skipping child page")
			continue
		}
		tree.Children = append(tree.Children, childTree)
	}

	return tree, nil
}
