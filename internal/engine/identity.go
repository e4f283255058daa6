package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"tradewright/internal/protocol"
)

// iconIDRE pulls the numeric participant id the simulation embeds in a panel
// author's avatar URL.
var iconIDRE = regexp.MustCompile(`avatars/(\d+)/`)

// resolveSession finds the session an actor message concerns, layered by
// confidence: the structured icon id token, then a display-name substring
// search over the message text, then the session bound to the channel.
//
// An icon token is authoritative: when it parses, the message belongs to that
// id and nobody else. Falling through would let an untracked bystander's
// panel bind to whichever session happens to share the channel.
//
// The channel fallback is only sound while a channel hosts at most one
// session. Two candidates is an ambiguity, not a choice: warn and resolve to
// none rather than guessing.
func (e *Engine) resolveSession(m protocol.Message) *Session {
	if m.PanelIcon != "" {
		if sub := iconIDRE.FindStringSubmatch(m.PanelIcon); sub != nil {
			if id, err := strconv.ParseInt(sub[1], 10, 64); err == nil {
				return e.sessions[id]
			}
		}
	}

	if len(m.Fields) > 0 || m.PanelAuthor != "" || m.Description != "" {
		blob := m.TextBlob()
		for _, s := range e.orderedSessions() {
			if s.DisplayName != "" && strings.Contains(blob, s.DisplayName) {
				return s
			}
		}
	}

	var candidates []*Session
	for _, s := range e.orderedSessions() {
		if s.ChannelID == m.ChannelID {
			candidates = append(candidates, s)
		}
	}
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	default:
		e.log.Printf("identity: %d sessions share channel %d, ignoring message", len(candidates), m.ChannelID)
		return nil
	}
}

// orderedSessions iterates in participant-id order so substring ties break
// the same way every time.
func (e *Engine) orderedSessions() []*Session {
	out := make([]*Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })
	return out
}
