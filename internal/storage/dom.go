package storage

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one node of a parsed storage fragment. Element nodes carry a local
// name and namespace URI; text nodes carry only Text.
type Node struct {
	Space    string
	Local    string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Attr is a single element attribute with resolved namespace.
type Attr struct {
	Space string
	Local string
	Value string
}

// IsElement reports whether the node is an element (as opposed to text).
func (n *Node) IsElement() bool {
	return n.Local != ""
}

// splitTag splits a qualified tag like "ac:image" into its expected namespace
// URI and local name. Unprefixed tags map to the empty namespace.
func splitTag(tag string) (space, local string) {
	if prefix, rest, ok := strings.Cut(tag, ":"); ok {
		return NamespaceBase + prefix, rest
	}
	return "", tag
}

// Match reports whether the node is the element named by the qualified tag,
// e.g. "ac:image" or "p". A node matches a prefixed tag only when its
// namespace URI equals the synthetic URI for that prefix.
func (n *Node) Match(tag string) bool {
	space, local := splitTag(tag)
	return n.Local == local && n.Space == space
}

// QName returns the node's qualified name ("ac:image", "p"), reconstructing
// the prefix from the synthetic namespace URI. Text nodes return "".
func (n *Node) QName() string {
	if !n.IsElement() {
		return ""
	}
	if prefix, ok := strings.CutPrefix(n.Space, NamespaceBase); ok {
		return prefix + ":" + n.Local
	}
	return n.Local
}

// Attr looks up an attribute by qualified name and reports whether it was
// present.
func (n *Node) Attr(name string) (string, bool) {
	space, local := splitTag(name)
	for _, a := range n.Attrs {
		if a.Local == local && a.Space == space {
			return a.Value, true
		}
	}
	// Some producers emit prefixed attributes without the decoder resolving
	// them; accept the raw prefix form as well.
	if prefix, rest, ok := strings.Cut(name, ":"); ok {
		for _, a := range n.Attrs {
			if a.Local == rest && a.Space == prefix {
				return a.Value, true
			}
		}
	}
	return "", false
}

// AttrOr returns the attribute value or a default when absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// InnerText returns the concatenated text content of the subtree.
func (n *Node) InnerText() string {
	if !n.IsElement() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.InnerText())
	}
	return b.String()
}

// FindFirst returns the first descendant element matching the qualified tag,
// in document order, or nil.
func (n *Node) FindFirst(tag string) *Node {
	for _, c := range n.Children {
		if !c.IsElement() {
			continue
		}
		if c.Match(tag) {
			return c
		}
		if found := c.FindFirst(tag); found != nil {
			return found
		}
	}
	return nil
}

// FindFirstWith returns the first descendant matching the tag whose attribute
// equals the given value, or nil.
func (n *Node) FindFirstWith(tag, attr, value string) *Node {
	for _, c := range n.Children {
		if !c.IsElement() {
			continue
		}
		if c.Match(tag) {
			if v, ok := c.Attr(attr); ok && v == value {
				return c
			}
		}
		if found := c.FindFirstWith(tag, attr, value); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns all descendants matching the qualified tag in document
// order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsElement() {
			continue
		}
		if c.Match(tag) {
			out = append(out, c)
		}
		out = append(out, c.FindAll(tag)...)
	}
	return out
}

// ChildElements returns the direct element children matching the tag.
func (n *Node) ChildElements(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() && c.Match(tag) {
			out = append(out, c)
		}
	}
	return out
}

// Parse parses a wrapped fragment into a node tree and returns the synthetic
// root node.
func Parse(wrapped string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(wrapped))

	root := &Node{}
	stack := []*Node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Space: t.Name.Space, Local: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				node.Attrs = append(node.Attrs, Attr{Space: a.Name.Space, Local: a.Name.Local, Value: a.Value})
			}
			top.Children = append(top.Children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) == 1 {
				return nil, fmt.Errorf("unbalanced end element </%s>", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			text := string(t)
			if text == "" {
				continue
			}
			top.Children = append(top.Children, &Node{Text: text})
		}
	}

	if len(root.Children) == 0 {
		return root, nil
	}
	return root.Children[0], nil
}

const parseDumpLimit = 2048

// ParseStorage normalizes entities, wraps undeclared prefixes, and parses the
// raw storage body. Parse failures include a truncated dump of the wrapped
// input for diagnosis.
func ParseStorage(raw string) (*Node, error) {
	wrapped := WrapFragment(DecodeEntities(raw))
	root, err := Parse(wrapped)
	if err != nil {
		dump := wrapped
		if len(dump) > parseDumpLimit {
			dump = dump[:parseDumpLimit] + "…"
		}
		return nil, fmt.Errorf("failed to parse storage content: %w\nwrapped input: %s", err, dump)
	}
	return root, nil
}
