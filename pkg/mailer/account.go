package mailer

import (
	"errors"
	"fmt"
)

// Account email templates. These are the only emails the API emits itself:
// a welcome note after registration and a goodbye note after account deletion.
const (
	TemplateWelcome      = "welcome"
	TemplateCancellation = "cancellation"
)

var ErrUnknownTemplate = errors.New("unknown email template")

// WelcomeJob builds the fire-and-forget welcome email job for a new account.
func WelcomeJob(email, name string) EmailJob {
	return EmailJob{To: email, Template: TemplateWelcome, Name: name}
}

// CancellationJob builds the goodbye email job sent when an account is deleted.
func CancellationJob(email, name string) EmailJob {
	return EmailJob{To: email, Template: TemplateCancellation, Name: name}
}

// RenderAccount resolves an account template into subject and text body.
func RenderAccount(template, name string) (subject, text string, err error) {
	switch template {
	case TemplateWelcome:
		return "Welcome to task manager!",
			fmt.Sprintf("Welcome %s! Let us know how you get along with the app.", name),
			nil
	case TemplateCancellation:
		return "Goodbye!",
			fmt.Sprintf("Goodbye %s. We hate to see you go! Is there anything we could have done better?", name),
			nil
	default:
		return "", "", ErrUnknownTemplate
	}
}
