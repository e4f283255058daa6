package protocol

// HELLO (client -> gateway)
type HelloFrame struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	Auth            *Auth  `json:"auth,omitempty"`
}

type Auth struct {
	Token string `json:"token,omitempty"`
}

// WELCOME (gateway -> client)
type WelcomeFrame struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id,omitempty"`
	SelfID          int64  `json:"self_id"`
	SelfName        string `json:"self_name,omitempty"`
}

// MESSAGE (gateway -> client): one delivered chat message. The gateway has
// already flattened any rich panel into named fields; plain text messages
// carry only Content.
type MessageFrame struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	Message         Message `json:"message"`
}

type Message struct {
	ID        string `json:"id,omitempty"`
	ChannelID int64  `json:"channel_id"`
	AuthorID  int64  `json:"author_id"`
	Author    string `json:"author,omitempty"`
	Content   string `json:"content,omitempty"`
	Edited    bool   `json:"edited,omitempty"`

	// Panel (embed) parts, present only for structured messages.
	PanelAuthor string   `json:"panel_author,omitempty"`
	PanelIcon   string   `json:"panel_icon,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Footer      string   `json:"footer,omitempty"`
	Fields      []Field  `json:"fields,omitempty"`
	Buttons     []Button `json:"buttons,omitempty"`
}

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Button struct {
	Label    string `json:"label"`
	Emoji    string `json:"emoji,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// SEND (client -> gateway): plain text to one channel.
type SendFrame struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ChannelID       int64  `json:"channel_id"`
	Text            string `json:"text"`
}
