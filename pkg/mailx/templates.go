package mailx

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// LinkEmail is the data behind the verification and reset emails.
type LinkEmail struct {
	To      string
	Name    string
	Link    string
	Expires time.Duration
}

func (e LinkEmail) Minutes() int { return int(e.Expires / time.Minute) }

var (
	verifyHTML = htmltemplate.Must(htmltemplate.New("verify").Parse(
		`<p>Hello {{.Name}},</p><p>Please verify your email by clicking <a href="{{.Link}}">this link</a>. The link expires in {{.Minutes}} minutes.</p>`))
	verifyText = texttemplate.Must(texttemplate.New("verify").Parse(
		"Hello {{.Name}},\n\nPlease verify your email by opening this link:\n{{.Link}}\n\nThe link expires in {{.Minutes}} minutes.\n"))

	resetHTML = htmltemplate.Must(htmltemplate.New("reset").Parse(
		`<p>Hello {{.Name}},</p><p>Reset your password by clicking <a href="{{.Link}}">this link</a>. The link expires in {{.Minutes}} minutes.</p><p>If you did not ask for this, you can ignore this email.</p>`))
	resetText = texttemplate.Must(texttemplate.New("reset").Parse(
		"Hello {{.Name}},\n\nReset your password by opening this link:\n{{.Link}}\n\nThe link expires in {{.Minutes}} minutes. If you did not ask for this, you can ignore this email.\n"))
)

// FacultyDecision is the data behind the email sent when an administrator
// reviews a faculty registration.
type FacultyDecision struct {
	To       string
	Name     string
	Approved bool
	Link     string // login page
}

func (d FacultyDecision) Outcome() string {
	if d.Approved {
		return "approved"
	}
	return "rejected"
}

var (
	decisionHTML = htmltemplate.Must(htmltemplate.New("decision").Parse(
		`<p>Hello {{.Name}},</p><p>Your faculty registration request has been {{.Outcome}}.</p>{{if .Approved}}<p>You can now <a href="{{.Link}}">log in</a>.</p>{{else}}<p>Please contact an administrator if you think this is a mistake.</p>{{end}}`))
	decisionText = texttemplate.Must(texttemplate.New("decision").Parse(
		"Hello {{.Name}},\n\nYour faculty registration request has been {{.Outcome}}.\n{{if .Approved}}\nYou can now log in at:\n{{.Link}}\n{{else}}\nPlease contact an administrator if you think this is a mistake.\n{{end}}"))
)

// FacultyDecisionEmail renders the review outcome email.
func FacultyDecisionEmail(d FacultyDecision) (Message, error) {
	var h, t bytes.Buffer
	if err := decisionHTML.Execute(&h, d); err != nil {
		return Message{}, fmt.Errorf("mailx: render decision html: %w", err)
	}
	if err := decisionText.Execute(&t, d); err != nil {
		return Message{}, fmt.Errorf("mailx: render decision text: %w", err)
	}
	return Message{
		To:      d.To,
		Subject: "Faculty registration " + d.Outcome(),
		HTML:    h.String(),
		Text:    t.String(),
	}, nil
}

// VerificationEmail renders the email sent after registration.
func VerificationEmail(e LinkEmail) (Message, error) {
	return render(e, "Verify your CapManage account", verifyHTML, verifyText)
}

// PasswordResetEmail renders the password reset email.
func PasswordResetEmail(e LinkEmail) (Message, error) {
	return render(e, "Reset your CapManage password", resetHTML, resetText)
}

func render(e LinkEmail, subject string, html *htmltemplate.Template, text *texttemplate.Template) (Message, error) {
	var h, t bytes.Buffer
	if err := html.Execute(&h, e); err != nil {
		return Message{}, fmt.Errorf("mailx: render %s html: %w", html.Name(), err)
	}
	if err := text.Execute(&t, e); err != nil {
		return Message{}, fmt.Errorf("mailx: render %s text: %w", text.Name(), err)
	}
	return Message{To: e.To, Subject: subject, HTML: h.String(), Text: t.String()}, nil
}
