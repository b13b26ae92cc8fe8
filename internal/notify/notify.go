package notify

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"storefront/internal/client"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Kind selects which transactional message to send.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindShipped      Kind = "shipped"
	KindDelivered    Kind = "delivered"
	KindRefunded     Kind = "refunded"
)

// ErrNoRecipient is returned when the order's customer has no email on file.
var ErrNoRecipient = errors.New("no recipient address on file")

//go:embed templates/*.tmpl
var templateFS embed.FS

var subjects = map[Kind]string{
	KindConfirmation: "Order Confirmation - Order #%d",
	KindShipped:      "Your Order Has Shipped - Order #%d",
	KindDelivered:    "Your Order Has Been Delivered - Order #%d",
	KindRefunded:     "Refund Processed - Order #%d",
}

// Service renders kind-specific template pairs and hands them to the mail
// transport. Callers treat every failure as non-fatal; they log the returned
// error and move on.
type Service struct {
	mailer       client.Mailer
	siteURL      string
	supportEmail string
	text         *texttemplate.Template
	html         *htmltemplate.Template
	logger       zerolog.Logger
}

func NewService(mailer client.Mailer, siteURL, supportEmail string, logger zerolog.Logger) (*Service, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}

	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}

	return &Service{
		mailer:       mailer,
		siteURL:      siteURL,
		supportEmail: supportEmail,
		text:         text,
		html:         html,
		logger:       logger,
	}, nil
}

type templateData struct {
	Order        *model.Order
	SiteURL      string
	SupportEmail string
}

// Send renders and dispatches the message for kind. The order must have
// Customer and Items preloaded.
func (s *Service) Send(kind Kind, order *model.Order) error {
	recipient := order.Customer.Email
	if recipient == "" {
		return fmt.Errorf("order #%d: %w", order.ID, ErrNoRecipient)
	}

	data := templateData{
		Order:        order,
		SiteURL:      s.siteURL,
		SupportEmail: s.supportEmail,
	}

	var textBody bytes.Buffer
	if err := s.text.ExecuteTemplate(&textBody, string(kind)+".txt.tmpl", data); err != nil {
		return fmt.Errorf("render %s text template: %w", kind, err)
	}

	var htmlBody bytes.Buffer
	if err := s.html.ExecuteTemplate(&htmlBody, string(kind)+".html.tmpl", data); err != nil {
		return fmt.Errorf("render %s html template: %w", kind, err)
	}

	subject := fmt.Sprintf(subjects[kind], order.ID)
	if err := s.mailer.Send(recipient, subject, textBody.String(), htmlBody.String()); err != nil {
		return fmt.Errorf("send %s mail for order #%d: %w", kind, order.ID, err)
	}

	s.logger.Info().
		Uint("order_id", order.ID).
		Str("kind", string(kind)).
		Str("to", recipient).
		Msg("notification sent")
	return nil
}
