package notification

import (
	"net/url"
	"strings"
)

// Links builds the absolute URLs mailed to users.
type Links struct {
	BaseURL string
}

func (l Links) ConfirmEmail(token string) string {
	return l.build("/v1/auth/confirm", token)
}

func (l Links) ResetPassword(token string) string {
	return l.build("/v1/auth/password/reset", token)
}

func (l Links) build(path, token string) string {
	return strings.TrimRight(l.BaseURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func ConfirmationMessage(to, name, link string) Message {
	return Message{
		To:      to,
		Subject: "Confirm your bolão account",
		Body: "Hi " + name + ",\n\n" +
			"Confirm your email to start predicting:\n" + link + "\n\n" +
			"If you did not sign up, ignore this message.\n",
	}
}

func PasswordResetMessage(to, name, link string) Message {
	return Message{
		To:      to,
		Subject: "Reset your bolão password",
		Body: "Hi " + name + ",\n\n" +
			"Use the link below to choose a new password:\n" + link + "\n\n" +
			"If you did not ask for a reset, ignore this message.\n",
	}
}
