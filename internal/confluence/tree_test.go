package confluence_test

import (
	"context"
	"testing"

	gomock "go.uber.org/mock/gomock"

	"github.com/okibox/confluence-export/internal/confluence"
	"github.com/okibox/confluence-export/internal/confluence/mock"
)

func page(id, title string) *confluence.Page {
	return &confluence.Page{
		ID:     id,
		Title:  title,
		Kind:   "page",
		Status: "current",
		Body:   &confluence.StorageBody{Value: "<p>" + title + "</p>", Representation: "storage"},
	}
}

func TestBuildPageTree(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mock.NewMockAPI(ctrl)
	api.EXPECT().GetPage(gomock.Any(), "root").Return(page("root", "Root"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "root").Return([]*confluence.Page{page("c1", "Child 1"), page("c2", "Child 2")}, nil)
	api.EXPECT().GetPage(gomock.Any(), "c1").Return(page("c1", "Child 1"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "c1").Return(nil, nil)
	api.EXPECT().GetPage(gomock.Any(), "c2").Return(page("c2", "Child 2"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "c2").Return(nil, nil)

	tree, err := confluence.BuildPageTree(context.Background(), api, "root", confluence.NoDepthLimit)
	if err != nil {
		t.Fatalf("BuildPageTree returned error: %v", err)
	}

	if tree.Depth != 0 {
		t.Fatalf("root depth = %d, want 0", tree.Depth)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(tree.Children))
	}
	if tree.Children[0].Page.ID != "c1" || tree.Children[1].Page.ID != "c2" {
		t.Fatalf("children out of API order: %v", tree.Children)
	}
	if tree.Children[0].Depth != 1 {
		t.Fatalf("child depth = %d, want 1", tree.Children[0].Depth)
	}
	if got := tree.Count(); got != 3 {
		t.Fatalf("Count() = %d, want 3", got)
	}
}

func TestBuildPageTreeMaxDepthZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mock.NewMockAPI(ctrl)
	api.EXPECT().GetPage(gomock.Any(), "root").Return(page("root", "Root"), nil)

	tree, err := confluence.BuildPageTree(context.Background(), api, "root", 0)
	if err != nil {
		t.Fatalf("BuildPageTree returned error: %v", err)
	}
	if len(tree.Children) != 0 {
		t.Fatalf("expected no children at maxDepth 0, got %d", len(tree.Children))
	}
}

func TestBuildPageTreeRespectsMaxDepth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mock.NewMockAPI(ctrl)
	api.EXPECT().GetPage(gomock.Any(), "root").Return(page("root", "Root"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "root").Return([]*confluence.Page{page("c1", "Child")}, nil)
	api.EXPECT().GetPage(gomock.Any(), "c1").Return(page("c1", "Child"), nil)
	// Depth 1 == maxDepth, so c1's children are never requested.

	tree, err := confluence.BuildPageTree(context.Background(), api, "root", 1)
	if err != nil {
		t.Fatalf("BuildPageTree returned error: %v", err)
	}

	var maxSeen int
	var walk func(*confluence.PageTree)
	walk = func(t *confluence.PageTree) {
		if t.Depth > maxSeen {
			maxSeen = t.Depth
		}
		for _, c := range t.Children {
			walk(c)
		}
	}
	walk(tree)
	if maxSeen > 1 {
		t.Fatalf("tree exceeds max depth: %d", maxSeen)
	}
}

func TestBuildPageTreeDetectsCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// A -> B -> A: the back-edge is skipped with a warning, not fatal.
	api := mock.NewMockAPI(ctrl)
	api.EXPECT().GetPage(gomock.Any(), "A").Return(page("A", "A"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "A").Return([]*confluence.Page{page("B", "B")}, nil)
	api.EXPECT().GetPage(gomock.Any(), "B").Return(page("B", "B"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "B").Return([]*confluence.Page{page("A", "A")}, nil)

	tree, err := confluence.BuildPageTree(context.Background(), api, "A", confluence.NoDepthLimit)
	if err != nil {
		t.Fatalf("BuildPageTree returned error: %v", err)
	}
	if len(tree.Children) != 1 || tree.Children[0].Page.ID != "B" {
		t.Fatalf("expected single child B, got %v", tree.Children)
	}
	if len(tree.Children[0].Children) != 0 {
		t.Fatal("expected back-edge to A to be dropped")
	}
}

func TestBuildPageTreeSelfCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// A page listing itself as a child: the back-edge is dropped.
	api := mock.NewMockAPI(ctrl)
	api.EXPECT().GetPage(gomock.Any(), "self").Return(page("self", "Self"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "self").Return([]*confluence.Page{page("self", "Self")}, nil)

	tree, err := confluence.BuildPageTree(context.Background(), api, "self", confluence.NoDepthLimit)
	if err != nil {
		t.Fatalf("BuildPageTree returned error: %v", err)
	}
	if len(tree.Children) != 0 {
		t.Fatalf("expected self-reference to be dropped, got %d children", len(tree.Children))
	}
}

func TestBuildPageTreeContinuesOnChildFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mock.NewMockAPI(ctrl)
	api.EXPECT().GetPage(gomock.Any(), "root").Return(page("root", "Root"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "root").Return([]*confluence.Page{page("bad", "Bad"), page("good", "Good")}, nil)
	api.EXPECT().GetPage(gomock.Any(), "bad").Return(nil, errNotFound)
	api.EXPECT().GetPage(gomock.Any(), "good").Return(page("good", "Good"), nil)
	api.EXPECT().GetChildPages(gomock.Any(), "good").Return(nil, nil)

	tree, err := confluence.BuildPageTree(context.Background(), api, "root", confluence.NoDepthLimit)
	if err != nil {
		t.Fatalf("BuildPageTree returned error: %v", err)
	}
	if len(tree.Children) != 1 || tree.Children[0].Page.ID != "good" {
		t.Fatalf("expected failing child to be skipped, got %v", tree.Children)
	}
}

type notFoundError struct{}

func (notFoundError) Error() string { return "HTTP 404" }

var errNotFound = notFoundError{}
