package domain

// Message is one entry of the visible chat, in display order.
// The JSON shape matches what the mobile client persisted.
type Message struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

// Turn is one entry of the bounded transcript kept for model context.
type Turn struct {
	Role Role
	Text string
}

// Settings holds the per-device presentation preferences.
type Settings struct {
	Theme    Theme    `json:"theme"`
	Language Language `json:"language"`
}
