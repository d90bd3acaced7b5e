package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/fastpace/flightapi/config"
	"github.com/fastpace/flightapi/internal/kafka"
)

const reservedBody = `Hello {{.FirstName}},

Your seat on flight {{.FlightNumber}} from {{.DepartureLocation}} to {{.ArrivalLocation}} has been reserved.
Departure: {{.DepartureDate.Format "2006-01-02"}} at {{.DepartureTime}}.

FastPace Airlines
`

const bookedBody = `Hello {{.FirstName}},

Your ticket on flight {{.FlightNumber}} from {{.DepartureLocation}} to {{.ArrivalLocation}} has been booked.
Departure: {{.DepartureDate.Format "2006-01-02"}} at {{.DepartureTime}}.

FastPace Airlines
`

const confirmedBody = `Hello {{.FirstName}},

Your ticket on flight {{.FlightNumber}} is confirmed.
Booking reference: {{.BookingReference}}
From {{.DepartureLocation}} to {{.ArrivalLocation}}, departing {{.DepartureDate.Format "2006-01-02"}} at {{.DepartureTime}}.

FastPace Airlines
`

const reminderBody = `Hello {{.FirstName}},

This is a reminder for flight {{.FlightNumber}} departing {{.DepartureDate.Format "2006-01-02"}} at {{.DepartureTime}} from {{.DepartureLocation}}.
Booking reference: {{.BookingReference}}

FastPace Airlines
`

type messageSpec struct {
	subject string
	tmpl    *template.Template
}

var messages = map[string]messageSpec{
	kafka.EventTicketReserved:    {"Your Flight Plan", template.Must(template.New("reserved").Parse(reservedBody))},
	kafka.EventTicketBooked:      {"Your Flight Plan", template.Must(template.New("booked").Parse(bookedBody))},
	kafka.EventTicketConfirmed:   {"Your ticket plan", template.Must(template.New("confirmed").Parse(confirmedBody))},
	kafka.EventDepartureReminder: {"", template.Must(template.New("reminder").Parse(reminderBody))},
}

// Sender delivers notification emails over SMTP. Delivery is best
// effort: the worker logs a failed send and moves on.
type Sender struct {
	cfg  config.MailConfig
	auth smtp.Auth
}

func NewSender(cfg config.MailConfig) *Sender {
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Sender{cfg: cfg, auth: auth}
}

func (s *Sender) Send(event kafka.NotificationEvent) error {
	spec, ok := messages[event.Type]
	if !ok {
		return fmt.Errorf("unknown notification type %q", event.Type)
	}

	subject := spec.subject
	if event.Type == kafka.EventDepartureReminder {
		subject = fmt.Sprintf("Reminder Event for Flight %s", event.FlightNumber)
	}

	var body bytes.Buffer
	if err := spec.tmpl.Execute(&body, event); err != nil {
		return fmt.Errorf("render %s: %w", event.Type, err)
	}

	msg := buildMessage(s.cfg.From, event.Email, subject, body.String())
	if err := smtp.SendMail(s.cfg.Addr(), s.auth, s.cfg.From, []string{event.Email}, msg); err != nil {
		return fmt.Errorf("send %s to %s: %w", event.Type, event.Email, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(body)
	return b.Bytes()
}
