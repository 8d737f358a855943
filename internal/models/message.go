package models

// Message holds the data for one outgoing notification.
type Message struct {
	Title string // optional, prepended to the body on its own line
	Body  string
}

// SendResult holds the outcome of a send attempt. A failed attempt carries
// its cause in Error; the send call itself never fails.
type SendResult struct {
	MessageSent bool
	Truncated   bool
	Error       error
}
