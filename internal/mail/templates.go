package mail

import (
	"fmt"
	"html"
)

// VerificationMessage builds the mail carrying the email verification link.
func VerificationMessage(appName, to, link string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Verify your %s account", appName),
		HTML:    linkBody("Please click the link below to verify your email:", link),
	}
}

// ResetMessage builds the mail carrying the password reset link.
func ResetMessage(appName, to, link string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Reset your %s account password", appName),
		HTML:    linkBody("Please click the link below to reset your password:", link),
	}
}

func linkBody(intro, link string) string {
	escaped := html.EscapeString(link)
	return fmt.Sprintf(`<p>%s</p><a href="%s">%s</a>`, intro, escaped, escaped)
}
