package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// ReminderData feeds the reminder email template.
type ReminderData struct {
	Title        string
	ScheduledFor time.Time
	GuestSpeaker string
	Description  string
	SpaceID      string
}

const reminderSubject = "🎙️ Your Twitter Space Starts Soon!"
const confirmationSubject = "✅ Space Reminder Set!"

var reminderTmpl = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1a1a1a;">
    <h2>🎙️ {{.Title}}</h2>
    <p>Your Twitter Space starts soon!</p>
    <p><strong>Starts at:</strong> {{.ScheduledFor.Format "Mon, 02 Jan 2006 15:04 MST"}}</p>
    {{if .GuestSpeaker}}<p><strong>Guest speaker:</strong> {{.GuestSpeaker}}</p>{{end}}
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    <p><a href="https://twitter.com/i/spaces/{{.SpaceID}}">Join the Space</a></p>
  </body>
</html>
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1a1a1a;">
    <h2>Your reminder is set!</h2>
    <p>We'll notify you 30 minutes before the space starts.</p>
    <p><strong>Space:</strong> {{.Title}}</p>
    <p><strong>Scheduled for:</strong> {{.ScheduledFor.Format "Mon, 02 Jan 2006 15:04 MST"}}</p>
  </body>
</html>
`))

// ReminderMessage renders the reminder notification for a subscription.
func ReminderMessage(to string, data ReminderData) (Message, error) {
	var buf bytes.Buffer
	if err := reminderTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("failed to render reminder email: %w", err)
	}
	return Message{To: to, Subject: reminderSubject, HTML: buf.String()}, nil
}

// ConfirmationMessage renders the immediate subscribe confirmation.
func ConfirmationMessage(to string, data ReminderData) (Message, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return Message{To: to, Subject: confirmationSubject, HTML: buf.String()}, nil
}
