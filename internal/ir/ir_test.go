package ir

import (
	"encoding/json"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	if doc.Version != "1.0" {
		t.Errorf("expected version 1.0, got %s", doc.Version)
	}
	if len(doc.Content) != 0 {
		t.Errorf("expected empty content, got %d nodes", len(doc.Content))
	}
}

func TestDocument_Add(t *testing.T) {
	doc := NewDocument()
	doc.Add(HeadingNode(NewHeading(2, []Span{Text("Skill Gap Analysis")})))

	if len(doc.Content) != 1 {
		t.Fatalf("expected 1 node, got %d", len(doc.Content))
	}
	if doc.Content[0].Type != NodeTypeHeading {
		t.Errorf("expected heading type, got %s", doc.Content[0].Type)
	}
	if doc.Content[0].Heading.Level != 2 {
		t.Errorf("expected level 2, got %d", doc.Content[0].Heading.Level)
	}
}

func TestNewHeading_ClampsLevel(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{1, 1},
		{3, 3},
		{6, 3},
	}

	for _, tc := range tests {
		if got := NewHeading(tc.in, nil).Level; got != tc.want {
			t.Errorf("NewHeading(%d).Level = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTable_Cell(t *testing.T) {
	doc := NewDocument()
	table := NewTable([][]Span{{Text("Skill")}, {Text("Level")}})
	table.AddRow([][]Span{{Text("Go")}, {Bold("Expert")}})
	table.AddRow([][]Span{{Text("SQL")}})

	doc.Add(TableNode(table))

	if doc.Content[0].Type != NodeTypeTable {
		t.Errorf("expected table type, got %s", doc.Content[0].Type)
	}
	if len(doc.Content[0].Table.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(doc.Content[0].Table.Rows))
	}
	if table.Cell(1, 1) != nil {
		t.Error("expected nil for a missing cell")
	}
	if got := PlainText(table.Cell(-1, 0)); got != "Skill" {
		t.Errorf("expected header 'Skill', got %q", got)
	}
}

func TestTable_Cols(t *testing.T) {
	table := NewTable([][]Span{{Text("a")}})
	table.AddRow([][]Span{{Text("1")}, {Text("2")}, {Text("3")}})

	if table.Cols() != 3 {
		t.Errorf("expected 3 columns, got %d", table.Cols())
	}
}

func TestListItem_Ordinal(t *testing.T) {
	bullet := NewBulletItem([]Span{Text("x")})
	if bullet.Ordered() {
		t.Error("expected bullet item to be unordered")
	}

	item := NewOrderedItem(7, []Span{Text("x")})
	if !item.Ordered() || *item.Ordinal != 7 {
		t.Errorf("expected ordinal 7, got %v", item.Ordinal)
	}
}

func TestPlainText(t *testing.T) {
	spans := []Span{Bold("Why:"), Text(" because "), Link("docs", "http://x")}

	if got := PlainText(spans); got != "Why: because docs" {
		t.Errorf("unexpected plain text: %q", got)
	}
	if IsPlain(spans) {
		t.Error("expected IsPlain to be false for formatted spans")
	}
	if !IsPlain([]Span{Text("a"), Text("b")}) {
		t.Error("expected IsPlain to be true for text spans")
	}
}

func TestDocument_Count(t *testing.T) {
	doc := NewDocument()
	doc.Add(
		ParagraphNode(NewParagraph([]Span{Text("a")})),
		SpacerNode(),
		ParagraphNode(NewLiteralParagraph("| lone |")),
	)

	if doc.Count(NodeTypeParagraph) != 2 {
		t.Errorf("expected 2 paragraphs, got %d", doc.Count(NodeTypeParagraph))
	}
	if doc.Count(NodeTypeSpacer) != 1 {
		t.Errorf("expected 1 spacer, got %d", doc.Count(NodeTypeSpacer))
	}
}

func TestDocument_JSONShape(t *testing.T) {
	doc := NewDocument()
	doc.Metadata.Title = "Career Plan"
	doc.Add(ListItemNode(NewOrderedItem(2, []Span{Text("Second")})), SpacerNode())

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	content := raw["content"].([]any)
	item := content[0].(map[string]any)
	if item["type"] != "list_item" {
		t.Errorf("expected type list_item, got %v", item["type"])
	}
	ordinal := item["list_item"].(map[string]any)["ordinal"]
	if ordinal != float64(2) {
		t.Errorf("expected ordinal 2, got %v", ordinal)
	}

	spacer := content[1].(map[string]any)
	if len(spacer) != 1 {
		t.Errorf("expected spacer to serialize with only its type, got %v", spacer)
	}
}
