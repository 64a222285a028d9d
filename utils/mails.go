package utils

import (
	"net/smtp"
	"os"
)

func SendMail(email string, message []byte) {
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@xclusive.app"
	}
	password := os.Getenv("GOOGLE_SMTP_MDP")
	to := email

	smtpHost := "smtp.gmail.com"
	smtpPort := "587"
	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message)
	if err != nil {
		LogError(err, "Error sending email")
		return
	}

	LogInfo("Email sent to " + to)
}
