// Defines content blocks.

package notion

import (
	"encoding/json"
	"fmt"
	"time"
)

// Block is a unit of page content.
//
// Only the content field matching Type is set.
type Block struct {
	Object         string    `json:"object,omitempty"`
	ID             string    `json:"id,omitempty"`
	Parent         *Parent   `json:"parent,omitempty"`
	Type           string    `json:"type"`
	CreatedTime    time.Time `json:"created_time,omitzero"`
	LastEditedTime time.Time `json:"last_edited_time,omitzero"`
	Archived       bool      `json:"archived,omitempty"`
	HasChildren    bool      `json:"has_children,omitempty"`

	Paragraph        *TextBlock     `json:"paragraph,omitempty"`
	Heading1         *TextBlock     `json:"heading_1,omitempty"`
	Heading2         *TextBlock     `json:"heading_2,omitempty"`
	Heading3         *TextBlock     `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock     `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock     `json:"numbered_list_item,omitempty"`
	ToDo             *TextBlock     `json:"to_do,omitempty"`
	Toggle           *TextBlock     `json:"toggle,omitempty"`
	Quote            *TextBlock     `json:"quote,omitempty"`
	Callout          *TextBlock     `json:"callout,omitempty"`
	Code             *TextBlock     `json:"code,omitempty"`
	Divider          *struct{}      `json:"divider,omitempty"`
	TableOfContents  *struct{}      `json:"table_of_contents,omitempty"`
	Breadcrumb       *struct{}      `json:"breadcrumb,omitempty"`
	ColumnList       *struct{}      `json:"column_list,omitempty"`
	Column           *struct{}      `json:"column,omitempty"`
	Image            *MediaBlock    `json:"image,omitempty"`
	Video            *MediaBlock    `json:"video,omitempty"`
	File             *MediaBlock    `json:"file,omitempty"`
	PDF              *MediaBlock    `json:"pdf,omitempty"`
	Bookmark         *LinkBlock     `json:"bookmark,omitempty"`
	Embed            *LinkBlock     `json:"embed,omitempty"`
	LinkPreview      *LinkBlock     `json:"link_preview,omitempty"`
	Equation         *Equation      `json:"equation,omitempty"`
	SyncedBlock      *SyncedBlock   `json:"synced_block,omitempty"`
	Table            *TableBlock    `json:"table,omitempty"`
	TableRow         *TableRowBlock `json:"table_row,omitempty"`
	ChildPage        *ChildBlock    `json:"child_page,omitempty"`
	ChildDatabase    *ChildBlock    `json:"child_database,omitempty"`

	// Children is filled by callers walking nested content; it is not part
	// of the server representation of a retrieved block.
	Children []Block `json:"-"`
}

// TextBlock is the content of the text-bearing block types.
type TextBlock struct {
	RichText     RichText `json:"rich_text"`
	Color        string   `json:"color,omitempty"`
	Checked      bool     `json:"checked,omitempty"`       // to_do
	IsToggleable bool     `json:"is_toggleable,omitempty"` // headings
	Language     string   `json:"language,omitempty"`      // code
	Caption      RichText `json:"caption,omitempty"`       // code
	Icon         *Icon    `json:"icon,omitempty"`          // callout
	Children     []Block  `json:"children,omitempty"`      // nested blocks on append
}

// MediaBlock represents an image, video, file, or PDF block.
type MediaBlock struct {
	Type     string        `json:"type"` // "file" or "external"
	File     *FileLocation `json:"file,omitempty"`
	External *FileLocation `json:"external,omitempty"`
	Caption  RichText      `json:"caption,omitempty"`
}

// URL returns the location of the media.
func (m *MediaBlock) URL() string {
	switch {
	case m.File != nil:
		return m.File.URL
	case m.External != nil:
		return m.External.URL
	}
	return ""
}

// LinkBlock represents a bookmark, embed or link preview block.
type LinkBlock struct {
	URL     string   `json:"url"`
	Caption RichText `json:"caption,omitempty"`
}

// SyncedBlock represents synced block content.
type SyncedBlock struct {
	SyncedFrom *struct {
		BlockID string `json:"block_id"`
	} `json:"synced_from"`
}

// TableBlock represents a table block.
type TableBlock struct {
	TableWidth      int  `json:"table_width"`
	HasColumnHeader bool `json:"has_column_header"`
	HasRowHeader    bool `json:"has_row_header"`
}

// TableRowBlock represents a table row block.
type TableRowBlock struct {
	Cells []RichText `json:"cells"`
}

// ChildBlock represents a child page or database block.
type ChildBlock struct {
	Title string `json:"title"`
}

// GetID implements Identifier.
func (b *Block) GetID() string {
	return b.ID
}

// Refresh replaces the block content with a raw server payload.
//
// Children collected locally are kept.
func (b *Block) Refresh(raw json.RawMessage) error {
	var n Block
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("failed to parse block: %w", err)
	}
	n.Children = b.Children
	*b = n
	return nil
}

// Content returns the payload for the block's type, or nil for unknown types.
func (b *Block) Content() any {
	switch b.Type {
	case "paragraph":
		return b.Paragraph
	case "heading_1":
		return b.Heading1
	case "heading_2":
		return b.Heading2
	case "heading_3":
		return b.Heading3
	case "bulleted_list_item":
		return b.BulletedListItem
	case "numbered_list_item":
		return b.NumberedListItem
	case "to_do":
		return b.ToDo
	case "toggle":
		return b.Toggle
	case "quote":
		return b.Quote
	case "callout":
		return b.Callout
	case "code":
		return b.Code
	case "divider":
		return b.Divider
	case "table_of_contents":
		return b.TableOfContents
	case "breadcrumb":
		return b.Breadcrumb
	case "image":
		return b.Image
	case "video":
		return b.Video
	case "file":
		return b.File
	case "pdf":
		return b.PDF
	case "bookmark":
		return b.Bookmark
	case "embed":
		return b.Embed
	case "link_preview":
		return b.LinkPreview
	case "equation":
		return b.Equation
	case "table":
		return b.Table
	case "table_row":
		return b.TableRow
	}
	return nil
}

// TextContent returns the block's text for text-bearing types.
func (b *Block) TextContent() *TextBlock {
	t, _ := b.Content().(*TextBlock)
	return t
}

// PlainText returns the block's text without formatting.
func (b *Block) PlainText() string {
	switch t := b.Content().(type) {
	case *TextBlock:
		if t != nil {
			return t.RichText.PlainText()
		}
	case *Equation:
		if t != nil {
			return t.Expression
		}
	}
	if b.ChildPage != nil {
		return b.ChildPage.Title
	}
	if b.ChildDatabase != nil {
		return b.ChildDatabase.Title
	}
	return ""
}

func textBlock(typ string, rt RichText) Block {
	b := Block{Object: "block", Type: typ}
	t := &TextBlock{RichText: rt}
	switch typ {
	case "paragraph":
		b.Paragraph = t
	case "heading_1":
		b.Heading1 = t
	case "heading_2":
		b.Heading2 = t
	case "heading_3":
		b.Heading3 = t
	case "bulleted_list_item":
		b.BulletedListItem = t
	case "numbered_list_item":
		b.NumberedListItem = t
	case "to_do":
		b.ToDo = t
	case "toggle":
		b.Toggle = t
	case "quote":
		b.Quote = t
	case "callout":
		b.Callout = t
	case "code":
		b.Code = t
	}
	return b
}

// NewParagraph returns a paragraph block.
func NewParagraph(text string) Block {
	return textBlock("paragraph", NewRichText(text))
}

// NewHeading returns a heading block; level is clamped to 1..3.
func NewHeading(level int, text string) Block {
	level = min(max(level, 1), 3)
	return textBlock(fmt.Sprintf("heading_%d", level), NewRichText(text))
}

// NewBulletedListItem returns a bulleted list item block.
func NewBulletedListItem(text string) Block {
	return textBlock("bulleted_list_item", NewRichText(text))
}

// NewNumberedListItem returns a numbered list item block.
func NewNumberedListItem(text string) Block {
	return textBlock("numbered_list_item", NewRichText(text))
}

// NewToDo returns a to-do block.
func NewToDo(text string, checked bool) Block {
	b := textBlock("to_do", NewRichText(text))
	b.ToDo.Checked = checked
	return b
}

// NewQuote returns a quote block.
func NewQuote(text string) Block {
	return textBlock("quote", NewRichText(text))
}

// NewCallout returns a callout block with an emoji icon.
func NewCallout(emoji, text string) Block {
	b := textBlock("callout", NewRichText(text))
	if emoji != "" {
		b.Callout.Icon = EmojiIcon(emoji)
	}
	return b
}

// NewCode returns a code block.
func NewCode(language, code string) Block {
	if language == "" {
		language = "plain text"
	}
	b := textBlock("code", NewRichText(code))
	b.Code.Language = language
	return b
}

// NewDivider returns a divider block.
func NewDivider() Block {
	return Block{Object: "block", Type: "divider", Divider: &struct{}{}}
}

// NewEquationBlock returns a block equation.
func NewEquationBlock(expr string) Block {
	return Block{Object: "block", Type: "equation", Equation: &Equation{Expression: expr}}
}

// NewBookmark returns a bookmark block.
func NewBookmark(url string) Block {
	return Block{Object: "block", Type: "bookmark", Bookmark: &LinkBlock{URL: url}}
}
