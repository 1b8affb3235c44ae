package connection

// Message is the frame written to clients.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}
