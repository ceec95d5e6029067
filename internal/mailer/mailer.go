package mailer

import (
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

func New(host string, port int, from, password string) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password}
}

func (m *Mailer) SendListingCreated(toEmail, listingTitle string) error {
	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(m.buildListingCreated(toEmail, listingTitle))
}

func (m *Mailer) buildListingCreated(toEmail, listingTitle string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your listing is live")
	msg.SetBody("text/plain", "Your listing '"+listingTitle+"' has been published and is now visible in the catalog.")
	return msg
}
