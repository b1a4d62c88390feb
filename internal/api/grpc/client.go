package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"eventrent-backend/internal/config"
	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/security"
)

const callerService = "storefront"

// EmailFunctionClient dispatches booking emails to a remote email function.
type EmailFunctionClient struct {
	conn   grpc.ClientConnInterface
	tokens security.TokenManager
}

func NewEmailFunctionClient(conn grpc.ClientConnInterface, tokens security.TokenManager) *EmailFunctionClient {
	return &EmailFunctionClient{conn: conn, tokens: tokens}
}

// DialEmailFunction connects to the email function at addr. Callers close the
// returned connection.
func DialEmailFunction(addr string, tokens security.TokenManager) (*EmailFunctionClient, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial email function: %w", err)
	}
	return NewEmailFunctionClient(conn, tokens), conn, nil
}

func (c *EmailFunctionClient) SendBookingEmail(ctx context.Context, t domain.EmailType, b *domain.Booking, items []domain.BookingLineItem) error {
	token, err := c.tokens.GenerateServiceToken(callerService)
	if err != nil {
		return err
	}
	in, err := MapRequestToStruct(t, b, items)
	if err != nil {
		return err
	}

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	out := new(structpb.Struct)

	logger.ExternalServiceCall("email-function", "Send", "type", t, "bookingID", b.ID)
	err = c.conn.Invoke(ctx, config.EmailFunctionMethod, in, out)
	logger.ExternalServiceResult("email-function", "Send", err, "type", t, "bookingID", b.ID)
	if err != nil {
		if status.Code(err) == codes.InvalidArgument {
			verr := domain.NewValidationError()
			verr.Add("request", status.Convert(err).Message())
			return verr
		}
		return fmt.Errorf("email function: %w", err)
	}

	if resp := MapStructToResponse(out); !resp.Success {
		return fmt.Errorf("email function: %s", resp.Error)
	}
	return nil
}
