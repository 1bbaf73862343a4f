package mail

import "fmt"

// ForgotMessage is the reset-link email sent by the forgot-password flow.
// host is the requesting host header, used to build the link.
func ForgotMessage(to, host, token string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		Body: fmt.Sprintf("You are receiving this email because you (or someone else) "+
			"requested a password reset for your account.\n\n"+
			"Please follow this link to complete the process:\n\n"+
			"http://%s/reset/%s\n\n"+
			"If you did not request this, ignore this email and your password "+
			"will remain unchanged.\n", host, token),
	}
}

// ResetMessage is the confirmation email sent after a successful reset.
func ResetMessage(to string) Message {
	return Message{
		To:      to,
		Subject: "Your password has been changed",
		Body: fmt.Sprintf("Hello,\n\nThis is a confirmation that the password for "+
			"your account %s has just been changed.\n", to),
	}
}
