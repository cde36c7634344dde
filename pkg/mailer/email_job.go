package mailer

import "fmt"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Text/HTML may be provided directly, or Template with Data for one of the
// known templates.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

// Render fills Subject and Text for template-based jobs. Jobs that carry
// an explicit body are returned unchanged.
func (j *EmailJob) Render(appName string) {
	if j.Template != "welcome" || j.Text != "" {
		return
	}
	name := fmt.Sprintf("%v", j.Data["Name"])
	if j.Subject == "" {
		j.Subject = "Welcome to " + appName
	}
	j.Text = fmt.Sprintf("Hi %s,\n\nYour %s account is ready. You can now browse the catalog and place orders.\n", name, appName)
}
