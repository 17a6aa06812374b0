package converter

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/okibox/confluence-export/internal/converter/emoji"
	"github.com/okibox/confluence-export/internal/storage"
)

// asciidocConverter is the AsciiDoc back-end, targeting
// Asciidoctor-compatible output.
type asciidocConverter struct {
	opts Options
}

func (c *asciidocConverter) convertChildren(n *storage.Node) string {
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

func (c *asciidocConverter) convertElement(n *storage.Node) string {
	switch q := n.QName(); q {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(q[1] - '0')
		return "\n" + strings.Repeat("=", level) + " " + strings.TrimSpace(c.convertChildren(n)) + "\n\n"
	case "p":
		content := strings.TrimSpace(c.convertChildren(n))
		if content == "" {
			return ""
		}
		return content + "\n\n"
	case "strong", "b":
		return "*" + strings.TrimSpace(c.convertChildren(n)) + "*"
	case "em", "i":
		return "_" + strings.TrimSpace(c.convertChildren(n)) + "_"
	case "u":
		return "[underline]#" + strings.TrimSpace(c.convertChildren(n)) + "#"
	case "s", "del":
		return "[line-through]#" + strings.TrimSpace(c.convertChildren(n)) + "#"
	case "code":
		return "`" + c.convertChildren(n) + "`"
	case "sub":
		if content := strings.TrimSpace(c.convertChildren(n)); content != "" {
			return "~" + content + "~"
		}
		return ""
	case "sup":
		if content := strings.TrimSpace(c.convertChildren(n)); content != "" {
			return "^" + content + "^"
		}
		return ""
	case "blockquote":
		return asciidocQuote(strings.TrimSpace(c.convertChildren(n)))
	case "ul":
		return "\n" + c.convertList(n, "*", 1) + "\n"
	case "ol":
		return "\n" + c.convertList(n, ".", 1) + "\n"
	case "a":
		return c.convertAnchor(n)
	case "br":
		return "\n"
	case "hr":
		return "\n'''\n\n"
	case "pre":
		return "\n----\n" + strings.Trim(n.InnerText(), "\n") + "\n----\n\n"
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
		return convertAsciidocLink(n)
	case "ac:image":
		return convertAsciidocImage(n)
	case "ac:structured-macro", "ac:macro":
		return c.convertMacro(n)
	case "ac:task-list":
		return c.convertTaskList(n)
	case "ac:emoji", "ac:emoticon":
		return convertEmoticon(n)
	case "ac:layout", "ac:layout-section", "ac:layout-cell", "ac:rich-text-body":
		return c.convertChildren(n)
	case "ac:plain-text-body":
		return n.InnerText()
	case "ac:parameter", "ac:task-id", "ac:task-status", "ac:placeholder", "ri:url":
		return ""
	default:
		logrus.WithField("element", q).Debug("unknown element, rendering children")
		return c.convertChildren(n)
	}
}

// convertMacro handles the macros that have a native AsciiDoc form; the rest
// degrade to their text content like any unknown markup.
func (c *asciidocConverter) convertMacro(n *storage.Node) string {
	switch name := n.AttrOr("ac:name", ""); name {
	case "toc":
		return "\ntoc::[]\n\n"
	case "code", "code-block":
		body, ok := plainTextBody(n)
		if !ok {
			if rtb := n.FindFirst("ac:rich-text-body"); rtb != nil {
				body = c.convertChildren(rtb)
			}
		}
		body = strings.Trim(body, "\n")
		if language := macroParam(n, "language"); language != "" {
			return "\n[source," + language + "]\n----\n" + body + "\n----\n\n"
		}
		return "\n----\n" + body + "\n----\n\n"
	case "status":
		return "`[" + macroParam(n, "title") + "]`"
	case "anchor":
		if !c.opts.PreserveAnchors {
			return ""
		}
		value := macroParam(n, "")
		if value == "" {
			value = macroParam(n, "anchor")
		}
		if value == "" {
			return ""
		}
		return "[[" + value + "]]"
	default:
		logrus.WithField("macro", name).Debug("macro without asciidoc handler, rendering text content")
		return strings.TrimSpace(n.InnerText())
	}
}

func (c *asciidocConverter) convertSpan(n *storage.Node) string {
	id, hasID := n.Attr("data-emoji-id")
	shortname, hasShort := n.Attr("data-emoji-shortname")
	fallback, hasFallback := n.Attr("data-emoji-fallback")
	if hasID || hasShort || hasFallback {
		return emoji.Resolve(id, fallback, "", shortname, strings.TrimSpace(n.InnerText()))
	}
	return c.convertChildren(n)
}

func (c *asciidocConverter) convertAnchor(n *storage.Node) string {
	text := strings.TrimSpace(c.convertChildren(n))
	href := n.AttrOr("href", "")
	switch {
	case href == "":
		return text
	case strings.HasPrefix(href, "#"):
		return "<<" + strings.TrimPrefix(href, "#") + "," + text + ">>"
	case text == "" || text == href:
		return href
	default:
		return href + "[" + text + "]"
	}
}

// convertList renders list items with marker repetition for nesting and a
// `+` continuation line for multi-line item content.
func (c *asciidocConverter) convertList(n *storage.Node, marker string, depth int) string {
	prefix := strings.Repeat(marker, depth)
	var b strings.Builder

	for _, li := range n.ChildElements("li") {
		var inline strings.Builder
		var nested strings.Builder

		for _, child := range li.Children {
			switch {
			case child.IsElement() && child.Match("ul"):
				nested.WriteString(c.convertList(child, "*", depth+1))
			case child.IsElement() && child.Match("ol"):
				nested.WriteString(c.convertList(child, ".", depth+1))
			case child.IsElement():
				inline.WriteString(c.convertElement(child))
			default:
				inline.WriteString(child.Text)
			}
		}

		lines := strings.Split(strings.TrimSpace(inline.String()), "\n")
		b.WriteString(prefix)
		if first := strings.TrimSpace(lines[0]); first != "" {
			b.WriteString(" " + first)
		}
		b.WriteByte('\n')
		for _, line := range lines[1:] {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				b.WriteString("+\n" + trimmed + "\n")
			}
		}
		b.WriteString(nested.String())
	}
	return b.String()
}

func (c *asciidocConverter) convertTaskList(n *storage.Node) string {
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
			b.WriteString("* [x] " + body + "\n")
		} else {
			b.WriteString("* [ ] " + body + "\n")
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func convertAsciidocLink(n *storage.Node) string {
	if user := n.FindFirst("ri:user"); user != nil {
		return userMention(user)
	}
	if page := n.FindFirst("ri:page"); page != nil {
		return "[[" + page.AttrOr("ri:content-title", "") + "]]"
	}
	if att := n.FindFirst("ri:attachment"); att != nil {
		filename := att.AttrOr("ri:filename", "")
		text := linkBodyText(n)
		if text == "" || text == filename {
			return "link:" + filename + "[]"
		}
		return "link:" + filename + "[" + text + "]"
	}
	if href, ok := n.Attr("href"); ok {
		text := linkBodyText(n)
		if text == "" || text == href {
			return href
		}
		return href + "[" + text + "]"
	}
	return strings.TrimSpace(n.InnerText())
}

func convertAsciidocImage(n *storage.Node) string {
	alt := n.AttrOr("ac:alt", "")
	if alt == "" {
		alt = "image"
	}
	if u := n.FindFirst("ri:url"); u != nil {
		return "image::" + u.AttrOr("ri:value", "") + "[" + alt + "]\n\n"
	}
	if att := n.FindFirst("ri:attachment"); att != nil {
		return "image::" + att.AttrOr("ri:filename", "") + "[" + alt + "]\n\n"
	}
	return ""
}

func asciidocQuote(content string) string {
	if content == "" {
		return "\n[quote]\n____\n____\n\n"
	}
	return "\n[quote]\n____\n" + content + "\n____\n\n"
}

// convertTable renders an AsciiDoc |=== table with a blank line after the
// header row when one exists.
func (c *asciidocConverter) convertTable(n *storage.Node) string {
	rows, hasHeader := tableRows(n, c.convertChildren)
	if len(rows) == 0 {
		return ""
	}

	empty := true
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				empty = false
			}
		}
	}
	if empty {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n|===\n")
	for i, row := range rows {
		for _, cell := range row {
			b.WriteString("| " + cell + " ")
		}
		b.WriteByte('\n')
		if i == 0 && hasHeader {
			b.WriteByte('\n')
		}
	}
	b.WriteString("|===\n\n")
	return b.String()
}
