package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/email"
)

// The email function exchanges google.protobuf.Struct messages whose shape is
// the JSON body of the HTTP function endpoint.

func MapRequestToStruct(t domain.EmailType, b *domain.Booking, items []domain.BookingLineItem) (*structpb.Struct, error) {
	data, err := json.Marshal(email.Request{Type: t, Booking: b, Items: items})
	if err != nil {
		return nil, fmt.Errorf("encode email request: %w", err)
	}
	s := &structpb.Struct{}
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("encode email request: %w", err)
	}
	return s, nil
}

func MapStructToRequest(s *structpb.Struct) (email.Request, error) {
	var req email.Request
	data, err := s.MarshalJSON()
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, err
	}
	return req, nil
}

func MapResponseToStruct(resp email.Response) *structpb.Struct {
	fields := map[string]*structpb.Value{"success": structpb.NewBoolValue(resp.Success)}
	if resp.Error != "" {
		fields["error"] = structpb.NewStringValue(resp.Error)
	}
	return &structpb.Struct{Fields: fields}
}

func MapStructToResponse(s *structpb.Struct) email.Response {
	return email.Response{
		Success: s.GetFields()["success"].GetBoolValue(),
		Error:   s.GetFields()["error"].GetStringValue(),
	}
}
