package messaging

// EmailEvent is a fully rendered message waiting for delivery by the mail relay.
type EmailEvent struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	HTML    bool   `json:"html"`
}
