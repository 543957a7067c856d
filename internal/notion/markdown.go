// Converts blocks to Markdown.

package notion

import (
	"fmt"
	"strings"
)

// BlocksToMarkdown renders blocks, including their collected Children, as markdown.
func BlocksToMarkdown(blocks []Block) string {
	r := mdRenderer{}
	r.blocks(blocks, 0)
	return r.sb.String()
}

type mdRenderer struct {
	sb       strings.Builder
	prevType string
	// numbered is the counter of the current numbered list per depth.
	numbered []int
}

func (r *mdRenderer) blocks(blocks []Block, depth int) {
	for len(r.numbered) <= depth {
		r.numbered = append(r.numbered, 0)
	}
	r.numbered[depth] = 0
	r.prevType = ""
	for i := range blocks {
		r.block(&blocks[i], depth)
		if len(blocks[i].Children) != 0 && blocks[i].Type != "toggle" {
			r.blocks(blocks[i].Children, depth+1)
			r.prevType = blocks[i].Type
		}
	}
}

func (r *mdRenderer) block(b *Block, depth int) {
	indent := strings.Repeat("  ", depth)
	isList := b.Type == "bulleted_list_item" || b.Type == "numbered_list_item" || b.Type == "to_do"
	if isList && r.prevType != b.Type && r.prevType != "" && depth == 0 {
		r.sb.WriteString("\n")
	}
	if b.Type != "numbered_list_item" {
		r.numbered[depth] = 0
	}
	r.prevType = b.Type

	switch t := b.Content().(type) {
	case *TextBlock:
		if t == nil {
			return
		}
		text := t.RichText.Markdown()
		switch b.Type {
		case "paragraph":
			if text == "" {
				r.sb.WriteString("\n")
				return
			}
			r.sb.WriteString(indent + text + "\n\n")
		case "heading_1", "heading_2", "heading_3":
			level := int(b.Type[len(b.Type)-1] - '0')
			r.sb.WriteString(strings.Repeat("#", level) + " " + text + "\n\n")
		case "bulleted_list_item":
			r.sb.WriteString(indent + "- " + text + "\n")
		case "numbered_list_item":
			r.numbered[depth]++
			fmt.Fprintf(&r.sb, "%s%d. %s\n", indent, r.numbered[depth], text)
		case "to_do":
			box := "[ ]"
			if t.Checked {
				box = "[x]"
			}
			r.sb.WriteString(indent + "- " + box + " " + text + "\n")
		case "toggle":
			r.sb.WriteString(indent + "<details>\n" + indent + "<summary>" + text + "</summary>\n\n")
			if len(b.Children) != 0 {
				sub := mdRenderer{}
				sub.blocks(b.Children, 0)
				r.sb.WriteString(sub.sb.String())
			}
			r.sb.WriteString(indent + "</details>\n\n")
		case "quote":
			for line := range strings.SplitSeq(text, "\n") {
				r.sb.WriteString(indent + "> " + line + "\n")
			}
			r.sb.WriteString("\n")
		case "callout":
			emoji := ""
			if t.Icon != nil && t.Icon.Emoji != "" {
				emoji = t.Icon.Emoji + " "
			}
			r.sb.WriteString(indent + "> " + emoji + text + "\n\n")
		case "code":
			lang := t.Language
			if lang == "plain text" {
				lang = ""
			}
			r.sb.WriteString("```" + lang + "\n" + t.RichText.PlainText() + "\n```\n\n")
		}
	case *MediaBlock:
		if t == nil {
			return
		}
		switch b.Type {
		case "image":
			caption := t.Caption.PlainText()
			if caption == "" {
				caption = "image"
			}
			fmt.Fprintf(&r.sb, "%s![%s](%s)\n\n", indent, caption, t.URL())
		case "video":
			fmt.Fprintf(&r.sb, "%s[Video](%s)\n\n", indent, t.URL())
		default:
			fmt.Fprintf(&r.sb, "%s[File](%s)\n\n", indent, t.URL())
		}
	case *LinkBlock:
		if t == nil {
			return
		}
		label := t.Caption.PlainText()
		if label == "" {
			label = t.URL
		}
		fmt.Fprintf(&r.sb, "%s[%s](%s)\n\n", indent, label, t.URL)
	case *Equation:
		if t != nil {
			r.sb.WriteString("$$\n" + t.Expression + "\n$$\n\n")
		}
	case *TableRowBlock:
		if t == nil {
			return
		}
		cells := make([]string, 0, len(t.Cells))
		for _, c := range t.Cells {
			cells = append(cells, c.Markdown())
		}
		r.sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	default:
		switch b.Type {
		case "divider":
			r.sb.WriteString("---\n\n")
		case "table_of_contents":
			r.sb.WriteString("[TOC]\n\n")
		case "child_page":
			if b.ChildPage != nil {
				fmt.Fprintf(&r.sb, "%s📄 %s\n\n", indent, b.ChildPage.Title)
			}
		case "child_database":
			if b.ChildDatabase != nil {
				fmt.Fprintf(&r.sb, "%s🗃️ %s\n\n", indent, b.ChildDatabase.Title)
			}
		}
	}
}
