package calc

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"tradewright/internal/protocol"
)

const actorID = int64(555955826880413696)

type captureSender struct{ sent []string }

func (c *captureSender) Send(_ int64, text string) error {
	c.sent = append(c.sent, text)
	return nil
}

func inventoryPanel(channel int64, owner, items string) protocol.Message {
	return protocol.Message{
		ChannelID:   channel,
		AuthorID:    actorID,
		PanelAuthor: owner + "'s inventory",
		Fields:      []protocol.Field{{Name: "items", Value: items}},
	}
}

func TestHandlerAnswersInventoryAfterRequest(t *testing.T) {
	out := &captureSender{}
	h := NewHandler(out, "rpg", actorID, log.New(io.Discard, "", 0))
	t0 := time.Now()

	h.HandleMessage(protocol.Message{
		ChannelID: 1, AuthorID: 2, Author: "Bob", Content: "rpg i 3",
	}, t0)
	h.HandleMessage(inventoryPanel(1, "Bob", "**wooden log**: 100"), t0.Add(time.Second))

	if len(out.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(out.sent))
	}
	msg := out.sent[0]
	// 100 logs at area 3 are 50 base logs: 843 logs, 105 apples, 2 rubies.
	for _, want := range []string{"bob", "area 3", "[A10+]** : 843", "[A11+]** : 105", "[A12+]** : 2"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("reply %q missing %q", msg, want)
		}
	}

	// The request is consumed: the next panel goes unanswered.
	h.HandleMessage(inventoryPanel(1, "Bob", "**wooden log**: 100"), t0.Add(2*time.Second))
	if len(out.sent) != 1 {
		t.Fatalf("answered without a pending request")
	}
}

func TestHandlerHonorsConfiguredPrefix(t *testing.T) {
	out := &captureSender{}
	h := NewHandler(out, "alt", actorID, log.New(io.Discard, "", 0))
	t0 := time.Now()

	// The default literal must not trigger under a retuned prefix.
	h.HandleMessage(protocol.Message{
		ChannelID: 1, AuthorID: 2, Author: "bob", Content: "rpg i 3",
	}, t0)
	h.HandleMessage(inventoryPanel(1, "bob", "**wooden log**: 100"), t0.Add(time.Second))
	if len(out.sent) != 0 {
		t.Fatalf("answered a request in the wrong prefix")
	}

	h.HandleMessage(protocol.Message{
		ChannelID: 1, AuthorID: 2, Author: "bob", Content: "alt i 3",
	}, t0.Add(2*time.Second))
	h.HandleMessage(inventoryPanel(1, "bob", "**wooden log**: 100"), t0.Add(3*time.Second))
	if len(out.sent) != 1 {
		t.Fatalf("configured prefix not honored: %v", out.sent)
	}
}

func TestHandlerIgnoresStaleRequests(t *testing.T) {
	out := &captureSender{}
	h := NewHandler(out, "rpg", actorID, log.New(io.Discard, "", 0))
	t0 := time.Now()

	h.HandleMessage(protocol.Message{
		ChannelID: 1, AuthorID: 2, Author: "bob", Content: "rpg i 5",
	}, t0)
	h.HandleMessage(inventoryPanel(1, "bob", "**wooden log**: 10"), t0.Add(3*time.Minute))

	if len(out.sent) != 0 {
		t.Fatalf("answered a stale request")
	}
}

func TestHandlerIgnoresUnrelatedPanels(t *testing.T) {
	out := &captureSender{}
	h := NewHandler(out, "rpg", actorID, log.New(io.Discard, "", 0))
	t0 := time.Now()

	h.HandleMessage(protocol.Message{
		ChannelID: 1, AuthorID: 2, Author: "bob", Content: "rpg i 5",
	}, t0)
	h.HandleMessage(protocol.Message{
		ChannelID: 1, AuthorID: actorID, PanelAuthor: "bob - profile",
	}, t0.Add(time.Second))

	if len(out.sent) != 0 {
		t.Fatalf("answered a non-inventory panel")
	}
}
