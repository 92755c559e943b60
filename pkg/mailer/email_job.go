package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects one of the account emails ("welcome", "cancellation");
// raw Subject/Text/HTML are used when Template is empty.
type EmailJob struct {
	To       string `json:"to"`
	Subject  string `json:"subject,omitempty"`
	Text     string `json:"text,omitempty"`
	HTML     string `json:"html,omitempty"`
	Template string `json:"template,omitempty"`
	Name     string `json:"name,omitempty"` // recipient display name for account templates
}
