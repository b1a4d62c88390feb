// Package email renders booking invoices and receipts and hands them to a
// delivery provider.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

const DefaultPaymentInstructions = "Please make payment via Mobile Money or Bank Transfer and reply to this email with proof of payment."

// DisplayDateLayout renders dates the way customers read them, e.g. "1 June 2024".
const DisplayDateLayout = "2 January 2006"

type RendererConfig struct {
	Brand               string
	Currency            string
	PaymentInstructions string
}

// Renderer turns a booking into the subject and HTML body of a customer email.
// Every interpolated value is escaped for its HTML context.
type Renderer struct {
	cfg  RendererConfig
	tmpl *template.Template
}

func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if cfg.PaymentInstructions == "" {
		cfg.PaymentInstructions = DefaultPaymentInstructions
	}

	r := &Renderer{cfg: cfg}
	funcs := template.FuncMap{
		"money": r.money,
		"date": func(t time.Time) string {
			return t.Format(DisplayDateLayout)
		},
	}
	tmpl, err := template.New("booking.html").Funcs(funcs).ParseFS(templateFS, "templates/booking.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

func (r *Renderer) money(cents int64) string {
	return r.cfg.Currency + utils.FormatCents(cents)
}

func title(t domain.EmailType) string {
	if t == domain.EmailTypeReceipt {
		return "Receipt"
	}
	return "Invoice"
}

// Subject is "<brand> - Invoice for Booking #<ref>" or the receipt equivalent.
func (r *Renderer) Subject(t domain.EmailType, b *domain.Booking) string {
	return fmt.Sprintf("%s - %s for Booking #%s", r.cfg.Brand, title(t), b.Reference())
}

type templateData struct {
	Brand               string
	Title               string
	IsReceipt           bool
	Reference           string
	Booking             *domain.Booking
	PickupMethod        string
	DeliveryAddress     string
	Items               []domain.BookingLineItem
	PaymentInstructions string
}

func (r *Renderer) Render(t domain.EmailType, b *domain.Booking, items []domain.BookingLineItem) (string, string, error) {
	if !t.Valid() {
		return "", "", fmt.Errorf("unknown email type %q", t)
	}

	data := templateData{
		Brand:               r.cfg.Brand,
		Title:               title(t),
		IsReceipt:           t == domain.EmailTypeReceipt,
		Reference:           b.Reference(),
		Booking:             b,
		PickupMethod:        "Self Pickup",
		Items:               items,
		PaymentInstructions: r.cfg.PaymentInstructions,
	}
	if b.PickupMethod == domain.PickupMethodDelivery {
		data.PickupMethod = "Delivery"
	}
	if b.DeliveryAddress != nil {
		data.DeliveryAddress = *b.DeliveryAddress
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s email: %w", t, err)
	}
	return r.Subject(t, b), buf.String(), nil
}
