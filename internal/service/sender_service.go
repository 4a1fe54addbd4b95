package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"rentaride/internal/entities"
)

type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

// SendBookingEmail renders and sends the booking email. The actual SendGrid
// call runs in a goroutine so a slow provider never holds up the request.
func (s *SenderService) SendBookingEmail(n entities.BookingNotification) {
	subject := fmt.Sprintf("Your RentARide booking is %s - Code: %s", n.Status, n.BookingCode)
	plainTextBody := fmt.Sprintf(
		"Hello %s,\n\nYour booking at RentARide is %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Car: %s (%s)\n"+
			"Pickup: %s\n"+
			"Return: %s\n"+
			"Total Price: %d\n\n"+
			"Thank you for choosing RentARide.\n\n"+
			"RentARide. All rights reserved.",
		n.UserName, n.Status, n.BookingCode, n.CarName, n.Location,
		n.PickupDateFormatted, n.ReturnDateFormatted, n.Price,
	)
	if n.PaymentURL != "" {
		plainTextBody += fmt.Sprintf("\n\nComplete your payment here: %s", n.PaymentURL)
	}

	tmplPath := filepath.Join("internal", "templates", "booking_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("ALERT: could not parse email template (%s): %v", tmplPath, err)
	}

	htmlBody := ""
	if tmpl != nil {
		var htmlBodyBuffer bytes.Buffer
		if err := tmpl.Execute(&htmlBodyBuffer, n); err != nil {
			log.Printf("ALERT: could not execute email template for booking %s: %v", n.BookingCode, err)
		}
		htmlBody = htmlBodyBuffer.String()
	}

	go func(toEmail, userName, subject, plainBody, htmlBodyContent string) {
		if err := SendEmailWithSendGrid(toEmail, userName, subject, plainBody, htmlBodyContent); err != nil {
			log.Printf("ALERT (async): email send failed for booking %s: %v", n.BookingCode, err)
		}
	}(n.UserEmail, n.UserName, subject, plainTextBody, htmlBody)
}

func (s *SenderService) SendBookingSMS(n entities.BookingNotification) {
	if n.UserPhone == "" {
		return
	}
	smsMessage := fmt.Sprintf("RentARide: Booking %s is %s!\nPickup: %s.\nMore details in your email.",
		n.BookingCode, n.Status, n.PickupDateFormatted)

	go func(phone, body, code string) {
		if err := SendSMS(phone, body); err != nil {
			log.Printf("ALERT (async): SMS send failed for booking %s: %v", code, err)
		}
	}(n.UserPhone, smsMessage, n.BookingCode)
}

func SendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY is not set. Email will not be sent.")
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		log.Println("WARNING: SENDGRID_FROM_EMAIL is not set. Email will not be sent.")
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not set")
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "RentARide"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email via SendGrid to %s: %v", toEmailAddress, err)
		return fmt.Errorf("sending email through SendGrid failed: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Printf("Email sent to %s (Subject: %s). Status: %d", toEmailAddress, subject, response.StatusCode)
		return nil
	}

	log.Printf("Error sending email to %s via SendGrid. Status: %d, Body: %s",
		toEmailAddress, response.StatusCode, response.Body)
	return fmt.Errorf("SendGrid returned non-success status %d: %s", response.StatusCode, response.Body)
}

func SendSMS(toNumber string, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		log.Println("WARNING: Twilio credentials (SID, Token or From Number) are not set. SMS will not be sent.")
		return fmt.Errorf("twilio credentials not fully configured")
	}

	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number '%s' is not E.164 (must start with '+'). SMS may fail.", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Error sending SMS to %s via Twilio: %v", toNumber, err)
		return fmt.Errorf("sending SMS failed: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		log.Printf("SMS sent to %s. Message SID: %s", toNumber, *resp.Sid)
	}
	return nil
}
