// Package util holds terminal text helpers shared by the CLI and the TUI.
package util

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

var (
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	anchorRe    = regexp.MustCompile(`(?is)<a\s[^>]*href\s*=\s*["']([^"']*)["'][^>]*>(.*?)</a\s*>`)
	breakRe     = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	paragraphRe = regexp.MustCompile(`(?i)</?(?:p|div|h[1-6]|section|blockquote|pre|tr)(?:\s[^>]*)?\s*>`)
	itemRe      = regexp.MustCompile(`(?i)<li(?:\s[^>]*)?\s*>`)
	listRe      = regexp.MustCompile(`(?i)</?(?:ul|ol)(?:\s[^>]*)?\s*>|</li\s*>`)
	spacesRe    = regexp.MustCompile(`[^\S\n]+`)
	blankRe     = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText turns a job description (often HTML scraped from a job board)
// into plain terminal text. Anchors become OSC 8 hyperlinks whose visible
// text is cut to width cells; width <= 0 leaves it whole.
func HTMLToText(s string, width int) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	s = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)

	s = breakRe.ReplaceAllString(s, "\n")
	s = paragraphRe.ReplaceAllString(s, "\n\n")
	s = listRe.ReplaceAllString(s, "")
	s = itemRe.ReplaceAllString(s, "\n• ")

	s = anchorRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := anchorRe.FindStringSubmatch(m)
		href := html.UnescapeString(sub[1])
		text := strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(sub[2], "")))
		if text == "" {
			text = href
		}
		return MakeHyperlink(href, Truncate(text, width))
	})

	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = spacesRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "• ") {
			line = "  " + line
		}
		lines[i] = line
	}
	s = blankRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.Trim(s, "\n")
}

// MakeHyperlink wraps text in an OSC 8 terminal hyperlink to url.
// Terminals without OSC 8 support show the text alone.
func MakeHyperlink(url, text string) string {
	if url == "" {
		return text
	}
	return fmt.Sprintf("\x1b]8;;%s\a%s\x1b]8;;\a", url, text)
}

// Truncate cuts s to width terminal cells, ending with "…" when cut.
// Escape sequences are preserved and do not count toward the width.
func Truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// Wrap word-wraps s to width cells.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wordwrap(s, width, "")
}
