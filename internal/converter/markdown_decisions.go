package converter

import (
	"strings"

	"github.com/okibox/confluence-export/internal/storage"
)

// decisionMeta renders the parenthesized metadata list for a decision, only
// for fields that were present.
func decisionMeta(n *storage.Node) string {
	var parts []string
	if status := macroParam(n, "status"); status != "" {
		parts = append(parts, "Status: "+status)
	}
	if owner := decisionOwner(n); owner != "" {
		parts = append(parts, "Owner: "+owner)
	}
	if date := macroParam(n, "date"); date != "" {
		parts = append(parts, "Date: "+date)
	}
	if due := macroParam(n, "due-date"); due != "" {
		parts = append(parts, "Due: "+due)
	}
	if outcome := macroParam(n, "outcome"); outcome != "" {
		parts = append(parts, "Outcome: "+outcome)
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}

// decisionOwner resolves the owner parameter, which may hold plain text, an
// ri:user reference, or an ri:page reference.
func decisionOwner(n *storage.Node) string {
	p := macroParamNode(n, "owner")
	if p == nil {
		return ""
	}
	if user := p.FindFirst("ri:user"); user != nil {
		return userMention(user)
	}
	if page := p.FindFirst("ri:page"); page != nil {
		return "[[" + page.AttrOr("ri:content-title", "") + "]]"
	}
	return strings.TrimSpace(p.InnerText())
}

func decisionLine(n *storage.Node) string {
	title := macroParam(n, "title")
	if title == "" {
		title = "Untitled decision"
	}
	return "**Decision:** " + title + decisionMeta(n)
}

func handleDecision(c *markdownConverter, n *storage.Node) string {
	out := "\n" + decisionLine(n) + "\n\n"
	if body := strings.TrimSpace(richTextBody(c, n)); body != "" {
		out += body + "\n\n"
	}
	return out
}

func handleDecisionList(c *markdownConverter, n *storage.Node) string {
	body := n.FindFirst("ac:rich-text-body")
	if body == nil {
		return ""
	}

	var decisions []*storage.Node
	for _, m := range body.FindAll("ac:structured-macro") {
		if m.AttrOr("ac:name", "") == "decision" {
			decisions = append(decisions, m)
		}
	}
	if len(decisions) == 0 {
		return c.convertChildren(body)
	}

	var b strings.Builder
	b.WriteByte('\n')
	for _, d := range decisions {
		b.WriteString("- " + decisionLine(d) + "\n")
	}
	b.WriteByte('\n')
	return b.String()
}

func handleDecisionReport(_ *markdownConverter, n *storage.Node) string {
	note := "Decision report: dynamic content is not exported."
	if cql := macroParam(n, "cql"); cql != "" {
		note += " Query: " + cql
	}
	return "\n" + blockquote("_"+note+"_") + "\n"
}

// convertADFExtension handles ac:adf-extension blocks from the newer editor.
// Decision lists get structured rendering; other nodes convert recursively;
// the fallback body is used only when nothing structured was produced.
func (c *markdownConverter) convertADFExtension(n *storage.Node) string {
	var b strings.Builder
	rendered := false

	for _, child := range n.Children {
		if !child.IsElement() {
			continue
		}
		switch {
		case child.Match("ac:adf-node"):
			if child.AttrOr("type", "") == "decision-list" {
				if out := renderADFDecisionList(child); out != "" {
					b.WriteString(out)
					rendered = true
				}
			} else {
				if out := strings.TrimSpace(c.convertChildren(child)); out != "" {
					b.WriteString(out + "\n\n")
					rendered = true
				}
			}
		case child.Match("ac:adf-fallback"):
			// Deferred below.
		}
	}

	if !rendered {
		if fallback := n.FindFirst("ac:adf-fallback"); fallback != nil {
			return c.convertChildren(fallback)
		}
	}
	return b.String()
}

// renderADFDecisionList renders each decision-item child as a bullet.
func renderADFDecisionList(list *storage.Node) string {
	var b strings.Builder
	b.WriteByte('\n')
	items := 0

	for _, item := range list.ChildElements("ac:adf-node") {
		if item.AttrOr("type", "") != "decision-item" {
			continue
		}
		text := collapseInline(adfText(item))
		if text == "" {
			text = "Untitled decision"
		}
		line := "- **Decision:** " + text
		if state := adfAttribute(item, "state"); state != "" {
			line += " (State: " + state + ")"
		}
		b.WriteString(line + "\n")
		items++
	}
	if items == 0 {
		return ""
	}
	b.WriteByte('\n')
	return b.String()
}

// adfAttribute returns the text of an ac:adf-attribute child with the given
// key.
func adfAttribute(n *storage.Node, key string) string {
	for _, attr := range n.ChildElements("ac:adf-attribute") {
		if attr.AttrOr("key", "") == key {
			return strings.TrimSpace(attr.InnerText())
		}
	}
	return ""
}

// adfText reconstructs plain text from an ADF subtree, collapsing hardBreak
// leaves into newlines and skipping attribute metadata.
func adfText(n *storage.Node) string {
	var b strings.Builder
	for _, child := range n.Children {
		if !child.IsElement() {
			b.WriteString(child.Text)
			continue
		}
		switch {
		case child.Match("ac:adf-attribute"):
			// Metadata, not content.
		case child.Match("ac:adf-node"):
			switch child.AttrOr("type", "") {
			case "hardBreak":
				b.WriteByte('\n')
			case "paragraph", "heading", "blockquote", "listItem", "bulletList", "orderedList":
				b.WriteString(adfText(child))
				b.WriteByte('\n')
			default:
				b.WriteString(adfText(child))
			}
		case child.Match("ac:adf-content"):
			b.WriteString(adfText(child))
		default:
			b.WriteString(adfText(child))
		}
	}
	return b.String()
}
