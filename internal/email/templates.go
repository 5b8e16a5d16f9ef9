package email

import (
	"bytes"
	"embed"
	htmltpl "html/template"
	texttpl "text/template"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	resetHTML = htmltpl.Must(htmltpl.ParseFS(templatesFS, "templates/reset_password.html"))
	resetText = texttpl.Must(texttpl.ParseFS(templatesFS, "templates/reset_password.txt"))
)

const ResetSubject = "Reset your password"

// ResetVars son las variables del template de reset.
type ResetVars struct {
	Username string
	Link     string
	TTL      string
}

// RenderReset arma el mensaje de reset para to.
func RenderReset(to string, vars ResetVars) (Message, error) {
	var h, t bytes.Buffer
	if err := resetHTML.Execute(&h, vars); err != nil {
		return Message{}, err
	}
	if err := resetText.Execute(&t, vars); err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: ResetSubject, HTML: h.String(), Text: t.String()}, nil
}
