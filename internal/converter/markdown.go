package converter

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/okibox/confluence-export/internal/converter/emoji"
	"github.com/okibox/confluence-export/internal/storage"
)

// markdownConverter is the recursive Markdown back-end. Methods are free of
// shared state beyond the options, so a converter is safe to reuse.
type markdownConverter struct {
	opts Options
}

// convertChildren renders every child of a node in document order: element
// children dispatch through convertElement, text children are appended as-is
// (entities were decoded before parsing).
func (c *markdownConverter) convertChildren(n *storage.Node) string {
	var b strings.Builder
	for _, child := range n.Children {
		if child.IsElement() {
			b.WriteString(c.convertElement(child))
		} else {
			b.WriteString(child.Text)
		}
	}
	return b.String()
}

func (c *markdownConverter) convertElement(n *storage.Node) string {
	switch q := n.QName(); q {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(q[1] - '0')
		return "\n" + strings.Repeat("#", level) + " " + strings.TrimSpace(c.convertChildren(n)) + "\n\n"
	case "p":
		content := strings.TrimSpace(c.convertChildren(n))
		if content == "" {
			return ""
		}
		return content + "\n\n"
	case "strong", "b":
		return "**" + strings.TrimSpace(c.convertChildren(n)) + "**"
	case "em", "i":
		return "_" + strings.TrimSpace(c.convertChildren(n)) + "_"
	case "u":
		return "_" + strings.TrimSpace(c.convertChildren(n)) + "_"
	case "s", "del":
		return "~~" + strings.TrimSpace(c.convertChildren(n)) + "~~"
	case "code":
		return "`" + c.convertChildren(n) + "`"
	case "sub", "sup":
		return c.convertChildren(n)
	case "blockquote":
		return blockquote(strings.TrimSpace(c.convertChildren(n))) + "\n"
	case "ul":
		return "\n" + c.convertList(n, false, 0) + "\n"
	case "ol":
		return "\n" + c.convertList(n, true, 0) + "\n"
	case "a":
		return c.convertAnchor(n)
	case "br":
		return "\n"
	case "hr":
		return "\n---\n\n"
	case "pre":
		return "\n```\n" + strings.Trim(n.InnerText(), "\n") + "\n```\n\n"
	case "table":
		return c.convertTable(n)
	case "time":
		if text := strings.TrimSpace(n.InnerText()); text != "" {
			return text
		}
		return n.AttrOr("datetime", "")
	case "span":
		return c.convertSpan(n)
	case "ac:link":
		return c.convertLink(n)
	case "ac:image":
		return convertImage(n)
	case "ac:structured-macro", "ac:macro":
		return c.convertMacro(n)
	case "ac:task-list":
		return c.convertTaskList(n)
	case "ac:emoji", "ac:emoticon":
		return convertEmoticon(n)
	case "ac:layout", "ac:layout-section", "ac:layout-cell", "ac:rich-text-body":
		return c.convertChildren(n)
	case "ac:adf-extension":
		return c.convertADFExtension(n)
	case "ac:plain-text-body":
		return n.InnerText()
	case "ac:parameter", "ac:task-id", "ac:task-status", "ac:placeholder":
		return ""
	default:
		logrus.WithField("element", q).Debug("unknown element, rendering children")
		return c.convertChildren(n)
	}
}

// convertList renders ul/ol items. Ordered lists are numbered 1, 2, 3…;
// nesting indents two spaces per level. Empty items still emit a marker
// line.
func (c *markdownConverter) convertList(n *storage.Node, ordered bool, depth int) string {
	indent := strings.Repeat("  ", depth)
	var b strings.Builder

	items := n.ChildElements("li")
	for i, li := range items {
		var inline strings.Builder
		var nested strings.Builder

		for _, child := range li.Children {
			switch {
			case child.IsElement() && child.Match("ul"):
				nested.WriteString(c.convertList(child, false, depth+1))
			case child.IsElement() && child.Match("ol"):
				nested.WriteString(c.convertList(child, true, depth+1))
			case child.IsElement():
				inline.WriteString(c.convertElement(child))
			default:
				inline.WriteString(child.Text)
			}
		}

		marker := "-"
		if ordered {
			marker = fmt.Sprintf("%d.", i+1)
		}

		lines := strings.Split(strings.TrimSpace(inline.String()), "\n")
		b.WriteString(indent + marker)
		if first := strings.TrimSpace(lines[0]); first != "" {
			b.WriteString(" " + first)
		}
		b.WriteByte('\n')
		for _, line := range lines[1:] {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				b.WriteString(indent + "  " + trimmed + "\n")
			}
		}
		b.WriteString(nested.String())
	}
	return b.String()
}

func (c *markdownConverter) convertAnchor(n *storage.Node) string {
	text := strings.TrimSpace(c.convertChildren(n))
	href := n.AttrOr("href", "")
	switch {
	case href == "":
		return text
	case text == "" || text == href:
		return href
	default:
		return "[" + text + "](" + href + ")"
	}
}

func (c *markdownConverter) convertSpan(n *storage.Node) string {
	id, hasID := n.Attr("data-emoji-id")
	shortname, hasShort := n.Attr("data-emoji-shortname")
	fallback, hasFallback := n.Attr("data-emoji-fallback")
	if hasID || hasShort || hasFallback {
		return emoji.Resolve(id, fallback, "", shortname, strings.TrimSpace(n.InnerText()))
	}
	return c.convertChildren(n)
}

func convertEmoticon(n *storage.Node) string {
	id := n.AttrOr("ac:emoji-id", "")
	fallback := n.AttrOr("ac:emoji-fallback", "")
	shortname := n.AttrOr("ac:emoji-shortname", "")
	name := n.AttrOr("ac:name", "")

	if e, ok := emoji.FromHexID(id); ok {
		return e
	}
	if fallback != "" {
		return fallback
	}
	if e, ok := emoji.FromName(name); ok {
		return e
	}
	if shortname != "" {
		return shortname
	}
	if text := strings.TrimSpace(n.InnerText()); text != "" {
		return text
	}
	return name
}

// convertLink renders ac:link elements: user mentions, wiki page links,
// attachment links, or plain hrefs.
func (c *markdownConverter) convertLink(n *storage.Node) string {
	if user := n.FindFirst("ri:user"); user != nil {
		return userMention(user)
	}
	if page := n.FindFirst("ri:page"); page != nil {
		return "[[" + page.AttrOr("ri:content-title", "") + "]]"
	}
	if att := n.FindFirst("ri:attachment"); att != nil {
		filename := att.AttrOr("ri:filename", "")
		text := linkBodyText(n)
		if text == "" {
			text = filename
		}
		return "[" + text + "](" + filename + ")"
	}
	if href, ok := n.Attr("href"); ok {
		text := linkBodyText(n)
		if text == "" || text == href {
			return href
		}
		return "[" + text + "](" + href + ")"
	}
	return strings.TrimSpace(c.convertChildren(n))
}

func linkBodyText(n *storage.Node) string {
	if body := n.FindFirst("ac:link-body"); body != nil {
		return strings.TrimSpace(body.InnerText())
	}
	if body := n.FindFirst("ac:plain-text-link-body"); body != nil {
		return strings.TrimSpace(body.InnerText())
	}
	return ""
}

func userMention(user *storage.Node) string {
	if id := user.AttrOr("ri:account-id", ""); id != "" {
		return "@user:" + id
	}
	if name := user.AttrOr("ri:username", ""); name != "" {
		return "@" + name
	}
	return user.AttrOr("ri:display-name", "")
}

// convertImage renders ac:image elements. The alt text defaults to "image".
func convertImage(n *storage.Node) string {
	alt := n.AttrOr("ac:alt", "")
	if alt == "" {
		alt = "image"
	}
	if u := n.FindFirst("ri:url"); u != nil {
		return "![" + alt + "](" + u.AttrOr("ri:value", "") + ")"
	}
	if att := n.FindFirst("ri:attachment"); att != nil {
		return "![" + alt + "](" + att.AttrOr("ri:filename", "") + ")"
	}
	return "![" + alt + "]()"
}

func (c *markdownConverter) convertTaskList(n *storage.Node) string {
	var b strings.Builder
	b.WriteByte('\n')
	for _, task := range n.ChildElements("ac:task") {
		status := ""
		if s := task.FindFirst("ac:task-status"); s != nil {
			status = strings.TrimSpace(s.InnerText())
		}
		body := ""
		if tb := task.FindFirst("ac:task-body"); tb != nil {
			body = collapseInline(c.convertChildren(tb))
		}
		if status == "complete" {
			b.WriteString("- [x] " + body + "\n")
		} else {
			b.WriteString("- [ ] " + body + "\n")
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// blockquote prefixes every line with "> "; empty lines become a bare ">".
func blockquote(content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			b.WriteString(">\n")
		} else {
			b.WriteString("> " + strings.TrimRight(line, " \t") + "\n")
		}
	}
	return b.String()
}

// collapseInline flattens a fragment to a single line of text.
func collapseInline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
