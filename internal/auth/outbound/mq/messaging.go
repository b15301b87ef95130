package mq

import (
	"context"
	"encoding/json"

	"github.com/duckhanhdev/twofa/internal/auth/usecase"
	"github.com/duckhanhdev/twofa/internal/pkg/instrument"
	"github.com/duckhanhdev/twofa/internal/pkg/messaging"
	"github.com/duckhanhdev/twofa/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) publish(ctx context.Context, name, destination string, payload any) error {
	ctx, span := m.ins.Tracer("auth.outbound.mq").Start(ctx, name)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishLoginSucceeded(ctx context.Context, msg usecase.LoginSucceededEvent) error {
	return m.publish(ctx, "PublishLoginSucceeded", event.AuthLoginSucceededDestination, event.AuthLoginSucceededMessage{
		UserID:   msg.UserID,
		Email:    msg.Email,
		DeviceID: msg.DeviceID,
		Verified: msg.Verified,
	})
}

func (m *Messaging) PublishTwoFactorEnabled(ctx context.Context, msg usecase.TwoFactorEnabledEvent) error {
	return m.publish(ctx, "PublishTwoFactorEnabled", event.AuthTwoFactorEnabledDestination, event.AuthTwoFactorEnabledMessage{
		UserID:   msg.UserID,
		Email:    msg.Email,
		DeviceID: msg.DeviceID,
	})
}

func (m *Messaging) PublishLoggedOut(ctx context.Context, msg usecase.LoggedOutEvent) error {
	return m.publish(ctx, "PublishLoggedOut", event.AuthLoggedOutDestination, event.AuthLoggedOutMessage{
		UserID:   msg.UserID,
		DeviceID: msg.DeviceID,
		Sessions: msg.Sessions,
	})
}
