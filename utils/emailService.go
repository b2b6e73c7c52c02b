package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"codeclub/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		fmt.Println("Email not configured, skipping send:", subject)
		return nil
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: CodeClub <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B2A4A; line-height: 1.6; }
			.content h2 { color: #1B2A4A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.badge-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4C9AFF; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>CODECLUB</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 CodeClub. Keep learning.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to CodeClub! Your account is ready.</p>
		<p>Browse the course catalog, work through the chapters, and earn badges along the way.</p>
	`, name)
	SendEmail([]string{email}, "Welcome to CodeClub", getEmailTemplate("Welcome aboard!", body))
}

// 2. Badge awarded on course completion
func SendBadgeAwardedEmail(email, name, badgeName string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You completed the course and earned a new badge:</p>
		<div class="badge-box"><strong>%s</strong></div>
		<p>It is now visible on your profile.</p>
	`, name, badgeName)
	SendEmail([]string{email}, "You earned a badge!", getEmailTemplate("New badge earned", body))
}

// 3. Portfolio review decision
func SendPortfolioReviewEmail(email, name, projectTitle, decision, feedback string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your portfolio project <strong>%s</strong> has been reviewed.</p>
		<p>Decision: <strong>%s</strong></p>
		<p>%s</p>
	`, name, projectTitle, decision, feedback)
	SendEmail([]string{email}, "Portfolio review: "+projectTitle, getEmailTemplate("Portfolio reviewed", body))
}
