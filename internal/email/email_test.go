package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"eventrent-backend/internal/config"
	"eventrent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererConfig{Brand: "SBuild Rentals", Currency: "₵"})
	require.NoError(t, err)
	return r
}

func sampleBooking() (*domain.Booking, []domain.BookingLineItem) {
	address := "12 Ring Road, Accra"
	b := &domain.Booking{
		ID:              "3f9a1b2c-4d5e-6f70-8192-a3b4c5d6e7f8",
		CustomerName:    "Ama Mensah",
		CustomerEmail:   "ama@example.com",
		CustomerPhone:   "0201234567",
		PickupMethod:    domain.PickupMethodDelivery,
		DeliveryAddress: &address,
		PickupDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:      time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		TotalCostCents:  9000,
		Status:          domain.BookingStatusPending,
	}
	items := []domain.BookingLineItem{
		{ItemName: "Round Folding Table", Quantity: 2, DailyPriceCents: 1500, RentalDays: 3, SubtotalCents: 9000},
	}
	return b, items
}

func TestRenderer_Invoice(t *testing.T) {
	r := newRenderer(t)
	b, items := sampleBooking()

	subject, html, err := r.Render(domain.EmailTypeInvoice, b, items)
	require.NoError(t, err)

	assert.Equal(t, "SBuild Rentals - Invoice for Booking #3F9A1B2C", subject)
	assert.Contains(t, html, "#1a1a1a")
	assert.Contains(t, html, "SBuild Rentals - Invoice")
	assert.Contains(t, html, "Total Amount Due: ₵90.00")
	assert.Contains(t, html, "₵15.00")
	assert.Contains(t, html, "1 June 2024")
	assert.Contains(t, html, "5 June 2024")
	assert.Contains(t, html, "Delivery Address")
	assert.Contains(t, html, DefaultPaymentInstructions)
	assert.NotContains(t, html, "Payment Confirmed")
}

func TestRenderer_Receipt(t *testing.T) {
	r := newRenderer(t)
	b, items := sampleBooking()
	b.PickupMethod = domain.PickupMethodSelf
	b.DeliveryAddress = nil

	subject, html, err := r.Render(domain.EmailTypeReceipt, b, items)
	require.NoError(t, err)

	assert.Equal(t, "SBuild Rentals - Receipt for Booking #3F9A1B2C", subject)
	assert.Contains(t, html, "#16a34a")
	assert.Contains(t, html, "✓ Payment Confirmed - Booking Approved")
	assert.Contains(t, html, "Total Paid: ₵90.00")
	assert.Contains(t, html, "Self Pickup")
	assert.NotContains(t, html, "Delivery Address")
	assert.NotContains(t, html, "Total Amount Due")
}

func TestRenderer_EscapesCustomerInput(t *testing.T) {
	r := newRenderer(t)
	b, items := sampleBooking()
	b.CustomerName = `<script>alert("x")</script>`
	evil := `<img src=x onerror=alert(1)>`
	b.DeliveryAddress = &evil
	items[0].ItemName = "Table <b>bold</b>"

	_, html, err := r.Render(domain.EmailTypeInvoice, b, items)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img")
	assert.NotContains(t, html, "<b>bold</b>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderer_UnknownType(t *testing.T) {
	r := newRenderer(t)
	b, items := sampleBooking()
	_, _, err := r.Render("reminder", b, items)
	assert.Error(t, err)
}

func TestFunction_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		sender := &recordingSender{}
		fn := NewFunction(newRenderer(t), sender)
		b, items := sampleBooking()

		err := fn.SendBookingEmail(ctx, domain.EmailTypeInvoice, b, items)
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "ama@example.com", sender.sent[0].To)
		assert.Equal(t, "Ama Mensah", sender.sent[0].ToName)
		assert.True(t, strings.HasPrefix(sender.sent[0].Subject, "SBuild Rentals - Invoice"))
	})

	t.Run("Invalid request is not sent", func(t *testing.T) {
		sender := &recordingSender{}
		fn := NewFunction(newRenderer(t), sender)
		b, _ := sampleBooking()
		b.CustomerEmail = "nope"

		err := fn.Handle(ctx, Request{Type: "reminder", Booking: b})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "type")
		assert.Contains(t, verr.Fields, "booking.customer_email")
		assert.Empty(t, sender.sent)
	})

	t.Run("Provider failure surfaces", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("provider down")}
		fn := NewFunction(newRenderer(t), sender)
		b, items := sampleBooking()

		err := fn.SendBookingEmail(ctx, domain.EmailTypeReceipt, b, items)
		assert.EqualError(t, err, "provider down")
	})
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(config.EmailConfig{Provider: "log"})
	require.NoError(t, err)
	assert.NoError(t, s.Send(context.Background(), Message{To: "a@b.c"}))

	s, err = NewSender(config.EmailConfig{Provider: "smtp", From: "a@b.c"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	s, err = NewSender(config.EmailConfig{Provider: "mailjet", From: "a@b.c"})
	require.NoError(t, err)
	assert.IsType(t, &MailjetSender{}, s)

	s, err = NewSender(config.EmailConfig{Provider: "sendgrid", From: "a@b.c"})
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	_, err = NewSender(config.EmailConfig{Provider: "pigeon"})
	assert.Error(t, err)
}
