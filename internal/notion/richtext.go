// Defines rich text spans and their rendering.

package notion

import (
	"encoding/json"
	"hash/fnv"
	"strings"
)

// MaxTextLength is the maximum number of characters Notion accepts in a single text span.
const MaxTextLength = 2000

// RichText is an ordered sequence of rich text spans.
//
// Two RichText values are equal when their rendered plain text is equal.
type RichText []RichTextObject

// RichTextObject represents one span of formatted text.
type RichTextObject struct {
	Type        string       `json:"type"` // "text", "mention", "equation"
	Text        *TextContent `json:"text,omitempty"`
	Mention     *Mention     `json:"mention,omitempty"`
	Equation    *Equation    `json:"equation,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
	Href        *string      `json:"href,omitempty"`
}

// TextContent represents plain text content.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link represents a hyperlink.
type Link struct {
	URL string `json:"url"`
}

// Mention represents a mention in rich text.
type Mention struct {
	Type        string           `json:"type"` // "user", "page", "database", "date", "link_preview"
	User        *User            `json:"user,omitempty"`
	Page        *ObjectReference `json:"page,omitempty"`
	Database    *ObjectReference `json:"database,omitempty"`
	Date        *DateRange       `json:"date,omitempty"`
	LinkPreview *Link            `json:"link_preview,omitempty"`
}

// Equation represents a LaTeX equation.
type Equation struct {
	Expression string `json:"expression"`
}

// Annotations represents text formatting.
type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color"`
}

// NewRichText builds text spans from plain strings.
//
// Strings longer than MaxTextLength are split over several spans.
func NewRichText(parts ...string) RichText {
	rt := RichText{}
	for _, p := range parts {
		for _, chunk := range chunkText(p, MaxTextLength) {
			rt = append(rt, RichTextObject{
				Type:      "text",
				Text:      &TextContent{Content: chunk},
				PlainText: chunk,
			})
		}
	}
	return rt
}

// EquationSpan builds an inline equation span.
func EquationSpan(expr string) RichTextObject {
	return RichTextObject{Type: "equation", Equation: &Equation{Expression: expr}, PlainText: expr}
}

// MentionPage builds a span mentioning a page.
func MentionPage(id string) RichTextObject {
	return RichTextObject{Type: "mention", Mention: &Mention{Type: "page", Page: &ObjectReference{ID: id}}}
}

// MentionUser builds a span mentioning a user.
func MentionUser(id string) RichTextObject {
	u := UserRef(id)
	return RichTextObject{Type: "mention", Mention: &Mention{Type: "user", User: &u}}
}

// chunkText splits s into pieces of at most n runes.
func chunkText(s string, n int) []string {
	if s == "" {
		return nil
	}
	r := []rune(s)
	if len(r) <= n {
		return []string{s}
	}
	out := make([]string, 0, len(r)/n+1)
	for len(r) > n {
		out = append(out, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}

// MarshalJSON encodes an empty value as an empty list since the API rejects null text.
func (rt RichText) MarshalJSON() ([]byte, error) {
	if rt == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]RichTextObject(rt))
}

// PlainText returns the concatenated plain text of all spans.
func (rt RichText) PlainText() string {
	var sb strings.Builder
	for i := range rt {
		sb.WriteString(rt[i].plain())
	}
	return sb.String()
}

func (rt RichText) String() string {
	return rt.PlainText()
}

// Equal compares the rendered plain text.
func (rt RichText) Equal(o RichText) bool {
	return rt.PlainText() == o.PlainText()
}

// EqualString compares the rendered plain text with s.
func (rt RichText) EqualString(s string) bool {
	return rt.PlainText() == s
}

// Hash returns a hash of the rendered plain text, consistent with Equal.
func (rt RichText) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(rt.PlainText()))
	return h.Sum64()
}

// plain returns the span's plain text, deriving it for locally built spans.
func (o *RichTextObject) plain() string {
	if o.PlainText != "" {
		return o.PlainText
	}
	switch {
	case o.Text != nil:
		return o.Text.Content
	case o.Equation != nil:
		return o.Equation.Expression
	case o.Mention != nil:
		return o.Mention.plain()
	}
	return ""
}

// plain names the mentioned target when the server did not render it.
func (m *Mention) plain() string {
	switch {
	case m.User != nil:
		if m.User.Name != "" {
			return "@" + m.User.Name
		}
		return "@" + m.User.ID
	case m.Page != nil:
		return m.Page.ID
	case m.Database != nil:
		return m.Database.ID
	case m.Date != nil:
		return m.Date.String()
	case m.LinkPreview != nil:
		return m.LinkPreview.URL
	}
	return ""
}

// Markdown renders the spans with their annotations.
func (rt RichText) Markdown() string {
	parts := make([]string, 0, len(rt))
	for i := range rt {
		t := &rt[i]
		text := t.plain()
		if t.Type == "equation" {
			text = "$" + text + "$"
		}
		if a := t.Annotations; a != nil {
			if a.Code {
				text = "`" + text + "`"
			}
			if a.Bold {
				text = "**" + text + "**"
			}
			if a.Italic {
				text = "_" + text + "_"
			}
			if a.Strikethrough {
				text = "~~" + text + "~~"
			}
			if a.Underline {
				text = "<u>" + text + "</u>"
			}
		}
		if t.Href != nil && *t.Href != "" {
			text = "[" + text + "](" + *t.Href + ")"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "")
}
