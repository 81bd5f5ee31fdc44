// Package mail sends the transactional emails of the order flow. Send failures
// are reported to the caller, which logs and moves on; a missing confirmation
// email never blocks an order.
package mail

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/gomail.v2"
)

// OrderSummary carries the order fields the email bodies need. It is a plain
// value type so this package stays independent of the order package.
type OrderSummary struct {
	CustomerName  string
	CustomerEmail string
	Items         []Line
	Total         float64
	ShippingFee   float64
	TotalPrice    float64
}

type Line struct {
	Name  string
	Price float64
	Qty   int
}

type Sender interface {
	NotifyOwner(summary OrderSummary, subjectPrefix string) error
	ConfirmCustomer(summary OrderSummary, subject string) error
}

type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	owner    string
	shopName string
}

func NewSMTPSender(host string, port int, user, pass, owner, shopName string) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(host, port, user, pass),
		from:     user,
		owner:    owner,
		shopName: shopName,
	}
}

// NotifyOwner tells the shop owner a new order (or payment event) happened.
func (s *SMTPSender) NotifyOwner(summary OrderSummary, subjectPrefix string) error {
	name := summary.CustomerName
	if name == "" {
		name = "Ismeretlen vevő"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.owner)
	m.SetHeader("Subject", subjectPrefix+" - Vevő: "+name)
	m.SetBody("text/html", ownerBody(summary, name))
	return s.dialer.DialAndSend(m)
}

// ConfirmCustomer sends the order confirmation to the customer.
func (s *SMTPSender) ConfirmCustomer(summary OrderSummary, subject string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.shopName))
	m.SetHeader("To", summary.CustomerEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", customerBody(summary))
	return s.dialer.DialAndSend(m)
}

// hu formats amounts the way the storefront shows them (hu-HU grouping).
var hu = message.NewPrinter(language.Hungarian)

func formatFt(amount float64) string {
	return hu.Sprintf("%d", int64(amount)) + " Ft"
}

func ownerBody(summary OrderSummary, customerName string) string {
	var b strings.Builder
	b.WriteString("<h1>Új rendelés érkezett!</h1>")
	b.WriteString("<p><strong>Vevő neve:</strong> " + customerName + "</p>")
	b.WriteString("<p><strong>Végösszeg:</strong> " + formatFt(summary.TotalPrice) + "</p>")
	b.WriteString("<p>Kérjük ellenőrizze az adatbázist a részletekért!</p>")
	return b.String()
}

func customerBody(summary OrderSummary) string {
	var b strings.Builder
	b.WriteString("<h1>Köszönjük a rendelésedet, " + summary.CustomerName + "!</h1>")
	b.WriteString("<p>A rendelésed sikeresen beérkezett és feldolgozás alatt áll.</p>")
	b.WriteString("<h2>Rendelés részletei:</h2><ul>")
	for _, line := range summary.Items {
		b.WriteString(hu.Sprintf("<li>%d x %s (%d Ft/db)</li>", line.Qty, line.Name, int64(line.Price)))
	}
	b.WriteString("</ul>")
	b.WriteString("<p><strong>Szállítási díj:</strong> " + formatFt(summary.ShippingFee) + "</p>")
	b.WriteString("<h3>Végösszeg: " + formatFt(summary.TotalPrice) + "</h3>")
	b.WriteString("<p>Hamarosan értesítünk, amint a csomag útnak indul.</p>")
	return b.String()
}
