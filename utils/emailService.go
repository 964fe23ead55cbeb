package utils

import (
	"fingerpays/config"
	"fmt"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Fingerpays <%s>\r\n", from)
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

// getEmailTemplate wraps body content in the shared Fingerpays layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E3A8A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E3A8A; line-height: 1.6; }
			.content h2 { color: #1E3A8A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2563EB; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>Fingerpays</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				This is an automated message from Fingerpays. Please do not reply.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendOTPEmail sends a verification or password-reset OTP to the user
func SendOTPEmail(otp, email string) error {
	subject := "Your Fingerpays Verification Code"
	body := fmt.Sprintf(`
		<p>Use the code below to continue. It is valid for 5 minutes.</p>
		<div class="info-box"><strong style="font-size: 22px; letter-spacing: 4px;">%s</strong></div>
		<p>If you did not request this code, you can safely ignore this email.</p>`, otp)

	return SendEmail([]string{email}, subject, getEmailTemplate("Verification Code", body))
}

// SendRechargeReceiptEmail notifies the user that a recharge has settled
func SendRechargeReceiptEmail(email, name, orderReference string, amount float64) error {
	subject := "Wallet Recharge Successful"
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your wallet recharge has been credited.</p>
		<div class="info-box">
			<p><strong>Amount:</strong> ₹%.2f</p>
			<p><strong>Order Reference:</strong> %s</p>
		</div>
		<p>Open your dashboard to see the updated balance.</p>`, name, amount, orderReference)

	return SendEmail([]string{email}, subject, getEmailTemplate("Recharge Receipt", body))
}
