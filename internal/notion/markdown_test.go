// Tests for the block and rich text to Markdown converters.

package notion

import (
	"testing"
)

func TestBlocksToMarkdown(t *testing.T) {
	para := func(s string) *TextBlock { return &TextBlock{RichText: NewRichText(s)} }
	tests := []struct {
		name   string
		blocks []Block
		want   string
	}{
		{
			"empty",
			nil,
			"",
		},
		{
			"paragraph",
			[]Block{NewParagraph("Hello World")},
			"Hello World\n\n",
		},
		{
			"headings",
			[]Block{NewHeading(1, "H1"), NewHeading(2, "H2"), NewHeading(3, "H3")},
			"# H1\n\n## H2\n\n### H3\n\n",
		},
		{
			"bulleted list after paragraph",
			[]Block{NewParagraph("Intro"), NewBulletedListItem("Item 1"), NewBulletedListItem("Item 2")},
			"Intro\n\n\n- Item 1\n- Item 2\n",
		},
		{
			"numbered list",
			[]Block{NewNumberedListItem("First"), NewNumberedListItem("Second")},
			"1. First\n2. Second\n",
		},
		{
			"todo items",
			[]Block{NewToDo("Unchecked", false), NewToDo("Checked", true)},
			"- [ ] Unchecked\n- [x] Checked\n",
		},
		{
			"code block",
			[]Block{NewCode("go", "fmt.Println(\"Hello\")")},
			"```go\nfmt.Println(\"Hello\")\n```\n\n",
		},
		{
			"plain code block",
			[]Block{NewCode("", "x")},
			"```\nx\n```\n\n",
		},
		{
			"quote",
			[]Block{NewQuote("A wise quote")},
			"> A wise quote\n\n",
		},
		{
			"callout",
			[]Block{NewCallout("💡", "Tip")},
			"> 💡 Tip\n\n",
		},
		{
			"divider",
			[]Block{NewDivider()},
			"---\n\n",
		},
		{
			"equation",
			[]Block{NewEquationBlock("E=mc^2")},
			"$$\nE=mc^2\n$$\n\n",
		},
		{
			"bookmark",
			[]Block{NewBookmark("https://example.com")},
			"[https://example.com](https://example.com)\n\n",
		},
		{
			"nested list",
			[]Block{{
				Type:             "bulleted_list_item",
				BulletedListItem: para("Parent"),
				Children:         []Block{NewBulletedListItem("Child")},
			}},
			"- Parent\n  - Child\n",
		},
		{
			"toggle",
			[]Block{{
				Type:     "toggle",
				Toggle:   para("More"),
				Children: []Block{NewParagraph("Hidden")},
			}},
			"<details>\n<summary>More</summary>\n\nHidden\n\n</details>\n\n",
		},
		{
			"image",
			[]Block{{Type: "image", Image: &MediaBlock{Type: "external", External: &FileLocation{URL: "https://example.com/a.png"}}}},
			"![image](https://example.com/a.png)\n\n",
		},
		{
			"child page",
			[]Block{{Type: "child_page", ChildPage: &ChildBlock{Title: "Sub"}}},
			"📄 Sub\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BlocksToMarkdown(tt.blocks); got != tt.want {
				t.Errorf("BlocksToMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRichTextMarkdown(t *testing.T) {
	href := "https://example.com"
	rt := RichText{
		{Type: "text", PlainText: "bold", Annotations: &Annotations{Bold: true}},
		{Type: "text", PlainText: " "},
		{Type: "text", PlainText: "code", Annotations: &Annotations{Code: true}},
		{Type: "text", PlainText: " "},
		{Type: "text", PlainText: "link", Href: &href},
		{Type: "text", PlainText: " "},
		EquationSpan("x^2"),
	}
	want := "**bold** `code` [link](https://example.com) $x^2$"
	if got := rt.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
	if got := rt.PlainText(); got != "bold code link x^2" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestRichTextEquality(t *testing.T) {
	a := NewRichText("Hello ", "World")
	b := RichText{{Type: "text", PlainText: "Hello World", Annotations: &Annotations{Bold: true}}}
	if !a.Equal(b) {
		t.Error("rich text equality must compare plain text only")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal rich texts must hash equally")
	}
	if !a.EqualString("Hello World") || a.EqualString("Hello") {
		t.Error("EqualString() mismatch")
	}
	if NewRichText("").PlainText() != "" {
		t.Error("empty text")
	}

	const pageA, pageB = "0b4d1e32-3b5b-4f77-9cf2-1c1e2f8c1a11", "5f8b6b3a-6b36-4a0b-8c31-ff5f4c4b2c11"
	ma, mb := RichText{MentionPage(pageA)}, RichText{MentionPage(pageB)}
	if ma.Equal(mb) || ma.Hash() == mb.Hash() {
		t.Error("mentions of different pages must differ")
	}
	if !ma.Equal(RichText{MentionPage(pageA)}) || ma.PlainText() != pageA {
		t.Errorf("mention plain text = %q", ma.PlainText())
	}
	if got := (RichText{MentionUser("u1")}).PlainText(); got != "@u1" {
		t.Errorf("user mention plain text = %q", got)
	}
}
