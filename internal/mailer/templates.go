package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes one of the embedded templates ("registration.html", ...).
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

type credentialsData struct {
	Name     string
	Email    string
	Password string
}

// RegistrationEmail carries the generated password of a new account.
func RegistrationEmail(to, name, password string) (Message, error) {
	html, err := Render("registration.html", credentialsData{Name: name, Email: to, Password: password})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Welcome! Your Account Password", HTML: html}, nil
}

// PasswordEmail carries a reissued password.
func PasswordEmail(to, name, password string) (Message, error) {
	html, err := Render("password.html", credentialsData{Name: name, Email: to, Password: password})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Your New Account Password", HTML: html}, nil
}

type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactEmail forwards a contact-form submission to the site owner. Replies
// go to the submitter.
func ContactEmail(to string, c Contact) (Message, error) {
	html, err := Render("contact.html", c)
	if err != nil {
		return Message{}, err
	}
	subject := c.Subject
	if subject == "" {
		subject = "New contact form message"
	}
	return Message{To: to, ReplyTo: c.Email, Subject: "[Contact] " + subject, HTML: html}, nil
}
