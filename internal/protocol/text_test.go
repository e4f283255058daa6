package protocol

import (
	"strings"
	"testing"
)

func TestTextBlob(t *testing.T) {
	m := Message{
		Content:     "Hello",
		PanelAuthor: "Alice - Profile",
		Title:       "Progress",
		Description: "MAX: 8",
		Footer:      "page 1",
		Fields:      []Field{{Name: "Items", Value: "**Epic Log**: 3"}},
	}
	blob := m.TextBlob()
	for _, want := range []string{"hello", "alice - profile", "progress", "max: 8", "page 1", "items", "**epic log**: 3"} {
		if !strings.Contains(blob, want) {
			t.Fatalf("blob %q missing %q", blob, want)
		}
	}
	if blob != strings.ToLower(blob) {
		t.Fatalf("blob not lower-cased: %q", blob)
	}
}

func TestPanelTextPrefersContent(t *testing.T) {
	m := Message{Content: "You Crafted", Description: "ignored"}
	if got := m.PanelText(); got != "you crafted" {
		t.Fatalf("got %q", got)
	}
	m = Message{Description: "Successfully Crafted"}
	if got := m.PanelText(); got != "successfully crafted" {
		t.Fatalf("got %q", got)
	}
}

func TestDecodeBase(t *testing.T) {
	f, err := DecodeBase([]byte(`{"type":"MESSAGE","protocol_version":"1.0"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.Type != TypeMessage || f.ProtocolVersion != Version {
		t.Fatalf("frame = %+v", f)
	}
	if _, err := DecodeBase([]byte(`not json`)); err == nil {
		t.Fatalf("expected error")
	}
}
