// Package ir defines the Intermediate Representation for model-generated markdown.
// IR is the output of the parser and the input for every renderer.
package ir

// Document represents a parsed model response.
type Document struct {
	Version  string   `json:"version"`
	Metadata Metadata `json:"metadata"`
	Content  []Node   `json:"content"`
}

// Metadata describes where a document came from.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Source   string `json:"source,omitempty"`   // input file path or "stdin"
	Provider string `json:"provider,omitempty"` // LLM provider that produced the text
	Model    string `json:"model,omitempty"`
	Created  string `json:"created,omitempty"` // RFC 3339
}

// NodeType represents the type of content node.
type NodeType string

const (
	NodeTypeHeading    NodeType = "heading"
	NodeTypeListItem   NodeType = "list_item"
	NodeTypeBlockquote NodeType = "blockquote"
	NodeTypeParagraph  NodeType = "paragraph"
	NodeTypeSpacer     NodeType = "spacer"
	NodeTypeTable      NodeType = "table"
)

// Node is a single unit of document structure. Exactly one payload is set,
// matching Type; a spacer has no payload.
type Node struct {
	Type       NodeType    `json:"type"`
	Heading    *Heading    `json:"heading,omitempty"`
	ListItem   *ListItem   `json:"list_item,omitempty"`
	Blockquote *Blockquote `json:"blockquote,omitempty"`
	Paragraph  *Paragraph  `json:"paragraph,omitempty"`
	Table      *Table      `json:"table,omitempty"`
}

// NewDocument creates a new IR document with the current version.
func NewDocument() *Document {
	return &Document{
		Version: "1.0",
		Content: make([]Node, 0),
	}
}

// Add appends already-built nodes to the document.
func (d *Document) Add(nodes ...Node) {
	d.Content = append(d.Content, nodes...)
}

// Count returns the number of nodes of the given type.
func (d *Document) Count(t NodeType) int {
	n := 0
	for _, node := range d.Content {
		if node.Type == t {
			n++
		}
	}
	return n
}

// HeadingNode wraps a heading in a Node.
func HeadingNode(h *Heading) Node { return Node{Type: NodeTypeHeading, Heading: h} }

// ListItemNode wraps a list item in a Node.
func ListItemNode(li *ListItem) Node { return Node{Type: NodeTypeListItem, ListItem: li} }

// BlockquoteNode wraps a blockquote in a Node.
func BlockquoteNode(q *Blockquote) Node { return Node{Type: NodeTypeBlockquote, Blockquote: q} }

// ParagraphNode wraps a paragraph in a Node.
func ParagraphNode(p *Paragraph) Node { return Node{Type: NodeTypeParagraph, Paragraph: p} }

// SpacerNode returns a blank-line spacer.
func SpacerNode() Node { return Node{Type: NodeTypeSpacer} }

// TableNode wraps a table in a Node.
func TableNode(t *Table) Node { return Node{Type: NodeTypeTable, Table: t} }
