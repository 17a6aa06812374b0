package converter

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/okibox/confluence-export/internal/converter/emoji"
	"github.com/okibox/confluence-export/internal/storage"
)

// macroHandler renders one ac:structured-macro element. The converter is
// passed in so handlers can recurse into rich-text bodies.
type macroHandler func(c *markdownConverter, n *storage.Node) string

var markdownMacros map[string]macroHandler

// Assigned in init to avoid an initialization cycle: the handlers recurse
// back into the converter, which consults this map.
func init() {
	markdownMacros = map[string]macroHandler{
		"toc":            handleTOC,
		"panel":          handlePanel,
		"status":         handleStatus,
		"note":           handleAdmonition,
		"info":           handleAdmonition,
		"warning":        handleAdmonition,
		"tip":            handleAdmonition,
		"code":           handleCode,
		"code-block":     handleCode,
		"expand":         handleExpand,
		"emoji":          handleEmojiMacro,
		"decision":       handleDecision,
		"decision-list":  handleDecisionList,
		"decisionreport": handleDecisionReport,
		"excerpt":        handleExcerpt,
		"jira":           handleJira,
		"anchor":         handleAnchor,
	}
}

func (c *markdownConverter) convertMacro(n *storage.Node) string {
	name := n.AttrOr("ac:name", "")
	if handler, ok := markdownMacros[name]; ok {
		return handler(c, n)
	}
	logrus.WithField("macro", name).Debug("unknown macro, rendering text content")
	return strings.TrimSpace(n.InnerText())
}

// macroParam returns the trimmed value of an ac:parameter child by name.
func macroParam(n *storage.Node, name string) string {
	if p := n.FindFirstWith("ac:parameter", "ac:name", name); p != nil {
		return strings.TrimSpace(p.InnerText())
	}
	return ""
}

// macroParamNode returns the parameter element itself, for parameters whose
// value is a resource identifier rather than text.
func macroParamNode(n *storage.Node, name string) *storage.Node {
	return n.FindFirstWith("ac:parameter", "ac:name", name)
}

func richTextBody(c *markdownConverter, n *storage.Node) string {
	if body := n.FindFirst("ac:rich-text-body"); body != nil {
		return c.convertChildren(body)
	}
	return ""
}

func plainTextBody(n *storage.Node) (string, bool) {
	if body := n.FindFirst("ac:plain-text-body"); body != nil {
		return body.InnerText(), true
	}
	return "", false
}

func handleTOC(_ *markdownConverter, _ *storage.Node) string {
	return "\n**Table of Contents**\n\n"
}

func handlePanel(c *markdownConverter, n *storage.Node) string {
	body := strings.TrimSpace(richTextBody(c, n))
	if body == "" {
		return ""
	}
	return "\n" + blockquote(body) + "\n"
}

func handleStatus(_ *markdownConverter, n *storage.Node) string {
	return "`[" + macroParam(n, "title") + "]`"
}

// handleAdmonition renders note/info/warning/tip macros as a blockquote
// whose first line carries a bold heading.
func handleAdmonition(c *markdownConverter, n *storage.Node) string {
	heading := macroParam(n, "title")
	if heading == "" {
		name := n.AttrOr("ac:name", "note")
		heading = strings.ToUpper(name[:1]) + name[1:]
	}
	return admonition(heading, richTextBody(c, n))
}

func admonition(heading, body string) string {
	lines := strings.Split(strings.TrimSpace(body), "\n")

	var b strings.Builder
	b.WriteByte('\n')
	b.WriteString("> **" + heading + ":** " + strings.TrimSpace(lines[0]) + "\n")
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			b.WriteString(">\n")
		} else {
			b.WriteString("> " + strings.TrimRight(line, " \t") + "\n")
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func handleCode(c *markdownConverter, n *storage.Node) string {
	language := macroParam(n, "language")

	body, ok := plainTextBody(n)
	if !ok {
		body = richTextBody(c, n)
	}
	body = strings.Trim(body, "\n")

	return "\n```" + language + "\n" + body + "\n```\n\n"
}

func handleExpand(c *markdownConverter, n *storage.Node) string {
	title := macroParam(n, "title")
	if title == "" {
		title = "Details"
	}
	body := strings.TrimSpace(richTextBody(c, n))
	return "\n<details><summary>" + title + "</summary>\n\n" + body + "\n\n</details>\n\n"
}

func handleEmojiMacro(_ *markdownConverter, n *storage.Node) string {
	id := macroParam(n, "emoji-id")
	if id == "" {
		id = n.AttrOr("ac:emoji-id", "")
	}
	return emoji.Resolve(
		id,
		macroParam(n, "emoji-fallback"),
		macroParam(n, "shortcut"),
		macroParam(n, "shortname"),
		strings.TrimSpace(n.InnerText()),
	)
}

func handleExcerpt(c *markdownConverter, n *storage.Node) string {
	if macroParam(n, "hidden") == "true" {
		return ""
	}
	body := richTextBody(c, n)
	if macroParam(n, "nopanel") == "true" {
		return strings.TrimSpace(body) + "\n\n"
	}
	return admonition("Excerpt", body)
}

func handleJira(c *markdownConverter, n *storage.Node) string {
	key := macroParam(n, "key")
	if key != "" {
		var b strings.Builder
		server := macroParam(n, "server")
		if server != "" {
			b.WriteString("[" + key + "](" + strings.TrimSuffix(server, "/") + "/browse/" + key + ")")
		} else {
			b.WriteString("[" + key + "]")
		}
		if summary := macroParam(n, "summary"); summary != "" {
			b.WriteString(": " + summary)
		}
		return b.String()
	}

	query := macroParam(n, "jql")
	if query == "" {
		if body, ok := plainTextBody(n); ok {
			query = strings.TrimSpace(body)
		}
	}
	note := "Jira issues: dynamic content is not exported."
	if query != "" {
		note += " Query: " + query
	}
	return "\n" + blockquote("_"+note+"_") + "\n"
}

func handleAnchor(c *markdownConverter, n *storage.Node) string {
	if !c.opts.PreserveAnchors {
		return ""
	}
	value := macroParam(n, "")
	if value == "" {
		value = macroParam(n, "anchor")
	}
	if value == "" {
		value = strings.TrimSpace(n.InnerText())
	}
	if value == "" {
		return ""
	}
	return `<a id="` + value + `"></a>`
}
