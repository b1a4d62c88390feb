package email

import (
	"context"
	"strings"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
)

// Request is the payload of the booking email function.
type Request struct {
	Type    domain.EmailType         `json:"type"`
	Booking *domain.Booking          `json:"booking"`
	Items   []domain.BookingLineItem `json:"items"`
}

// Response reports the outcome to the caller, who logs a failure and moves on.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (r *Request) Validate() error {
	verr := domain.NewValidationError()
	if !r.Type.Valid() {
		verr.Add("type", "must be invoice or receipt")
	}
	if r.Booking == nil {
		verr.Add("booking", "is required")
	} else {
		if r.Booking.ID == "" {
			verr.Add("booking.id", "is required")
		}
		if !strings.Contains(r.Booking.CustomerEmail, "@") {
			verr.Add("booking.customer_email", "must be a valid email address")
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Function renders a booking email and delivers it. It runs in process or
// behind the gRPC and HTTP function endpoints.
type Function struct {
	renderer *Renderer
	sender   Sender
}

func NewFunction(renderer *Renderer, sender Sender) *Function {
	return &Function{renderer: renderer, sender: sender}
}

func (f *Function) Handle(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Sending booking email", "type", req.Type, "bookingID", req.Booking.ID, "to", req.Booking.CustomerEmail)
	subject, html, err := f.renderer.Render(req.Type, req.Booking, req.Items)
	if err != nil {
		return err
	}
	return f.sender.Send(ctx, Message{
		To:      req.Booking.CustomerEmail,
		ToName:  req.Booking.CustomerName,
		Subject: subject,
		HTML:    html,
	})
}

func (f *Function) SendBookingEmail(ctx context.Context, t domain.EmailType, b *domain.Booking, items []domain.BookingLineItem) error {
	return f.Handle(ctx, Request{Type: t, Booking: b, Items: items})
}
