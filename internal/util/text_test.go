package util

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "  ", ""},
		{"plain", "Build things.", "Build things."},
		{"paragraphs", "<p>First</p><p>Second</p>", "First\n\nSecond"},
		{"breaks", "a<br>b<br/>c", "a\nb\nc"},
		{"entities", "Salary &amp; benefits &gt; average", "Salary & benefits > average"},
		{"list", "<ul><li>Go</li><li>SQL</li></ul>", "  • Go\n  • SQL"},
		{"spaces", "<div>  lots   of\tspace </div>", "lots of space"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToText(tt.in, 0); got != tt.want {
				t.Errorf("HTMLToText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHTMLToTextLinks(t *testing.T) {
	in := `Apply <a href="https://jobs.example.com/1?a=1&amp;b=2">on the company site</a> today`
	got := HTMLToText(in, 0)
	want := "Apply " + MakeHyperlink("https://jobs.example.com/1?a=1&b=2", "on the company site") + " today"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}

	short := HTMLToText(in, 6)
	if !strings.Contains(short, "on th…") {
		t.Errorf("link text not truncated: %q", short)
	}
	if plain := ansi.Strip(short); strings.Contains(plain, "company") {
		t.Errorf("truncated text still visible: %q", plain)
	}
}

func TestMakeHyperlink(t *testing.T) {
	if got := MakeHyperlink("", "text"); got != "text" {
		t.Errorf("empty url = %q", got)
	}
	link := MakeHyperlink("https://example.com", "site")
	if ansi.Strip(link) != "site" {
		t.Errorf("visible text = %q", ansi.Strip(link))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 0, "hello"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
