package calc

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tradewright/internal/inventory"
	"tradewright/internal/protocol"
)

// Sender matches the engine's outbound interface.
type Sender interface {
	Send(channelID int64, text string) error
}

// materials scraped out of an inventory panel for projection.
var materials = []string{
	"wooden log", "epic log", "super log", "mega log", "hyper log", "ultra log",
	"normie fish", "golden fish", "epic fish",
	"apple", "banana", "ruby",
}

type pendingRequest struct {
	area  int
	name  string
	asked time.Time
}

// Handler answers "<prefix> i <area>" requests: it remembers the request per
// channel and projects milestone totals from the next inventory panel that
// shows up there.
type Handler struct {
	sender    Sender
	actorID   int64
	requestRE *regexp.Regexp
	log       *log.Logger

	pending map[int64]pendingRequest
}

// NewHandler builds a calculator answering "<commandPrefix> i <area>".
func NewHandler(sender Sender, commandPrefix string, actorID int64, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		sender:    sender,
		actorID:   actorID,
		requestRE: regexp.MustCompile(`^` + regexp.QuoteMeta(strings.ToLower(commandPrefix)) + `\s+i\s+(\d+)\b`),
		log:       logger,
		pending:   map[int64]pendingRequest{},
	}
}

// HandleMessage runs on the engine goroutine alongside the other listeners.
func (h *Handler) HandleMessage(m protocol.Message, now time.Time) {
	if m.AuthorID != h.actorID {
		if sub := h.requestRE.FindStringSubmatch(strings.ToLower(m.Content)); sub != nil {
			area, _ := strconv.Atoi(sub[1])
			if area > 0 {
				h.pending[m.ChannelID] = pendingRequest{area: area, name: strings.ToLower(m.Author), asked: now}
			}
		}
		return
	}

	req, ok := h.pending[m.ChannelID]
	if !ok || now.Sub(req.asked) > 2*time.Minute {
		return
	}
	if !strings.Contains(strings.ToLower(m.PanelAuthor), "inventory") {
		return
	}
	if len(m.Fields) == 0 {
		return
	}
	delete(h.pending, m.ChannelID)

	text := strings.ToLower(m.Fields[0].Value)
	inv := inventory.Counts{}
	for _, item := range materials {
		inv[item] = inventory.CountFromMarkers(item, text)
	}

	p := Project(req.area, inv)
	msg := fmt.Sprintf(
		"%s — material calculator (current area %d)\n"+
			"Assuming you dismantle all the materials and follow the trade rate\n"+
			"🪵 **[A10+]** : %d\n"+
			"🍎 **[A11+]** : %d\n"+
			"💎 **[A12+]** : %d",
		req.name, req.area, p.LogsA10, p.ApplesA11, p.RubiesA12)
	if err := h.sender.Send(m.ChannelID, msg); err != nil {
		h.log.Printf("calc send: %v", err)
	}
}
