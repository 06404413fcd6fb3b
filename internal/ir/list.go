package ir

// ListItem represents a single bullet or numbered line. Items are not
// grouped into lists; consecutive items simply follow each other.
type ListItem struct {
	Ordinal *int   `json:"ordinal,omitempty"` // printed number for ordered items, nil for bullets
	Spans   []Span `json:"spans"`
}

// NewBulletItem creates an unordered list item.
func NewBulletItem(spans []Span) *ListItem {
	return &ListItem{Spans: spans}
}

// NewOrderedItem creates an ordered list item carrying the number as written
// in the source, even when it repeats or goes backwards.
func NewOrderedItem(ordinal int, spans []Span) *ListItem {
	return &ListItem{
		Ordinal: &ordinal,
		Spans:   spans,
	}
}

// Ordered returns true if the item is numbered.
func (li *ListItem) Ordered() bool {
	return li.Ordinal != nil
}
