package protocol

import "strings"

// TextBlob concatenates every textual part of a message, lower-cased.
// Classification and identity resolution search this blob instead of
// re-deriving it per pattern.
func (m Message) TextBlob() string {
	var b strings.Builder
	parts := []string{m.Content, m.PanelAuthor, m.Title, m.Description, m.Footer}
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte(' ')
	}
	for _, f := range m.Fields {
		b.WriteString(f.Name)
		b.WriteByte(' ')
		b.WriteString(f.Value)
		b.WriteByte(' ')
	}
	return strings.ToLower(b.String())
}

// PanelText is the panel body: description plus all field values, lower-cased.
// Craft confirmations sometimes arrive as a bare description with no content.
func (m Message) PanelText() string {
	if m.Content != "" {
		return strings.ToLower(m.Content)
	}
	return strings.ToLower(m.Description)
}
