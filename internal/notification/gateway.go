package notification

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Delivery is the outcome of an OTP send. A failed delivery is not an error:
// callers branch on Delivered.
type Delivery struct {
	Delivered bool
}

// DeliveryObserver receives delivery outcomes (metrics).
type DeliveryObserver interface {
	OTPDelivery(delivered bool)
}

// Gateway sends one-time codes and never lets a transport failure reach the caller.
type Gateway struct {
	notifier Notifier
	logger   *slog.Logger
	observer DeliveryObserver
}

// NewGateway builds a gateway over notifier. observer may be nil.
func NewGateway(notifier Notifier, logger *slog.Logger, observer DeliveryObserver) *Gateway {
	return &Gateway{notifier: notifier, logger: logger, observer: observer}
}

// SendOTP delivers code to phone.
func (g *Gateway) SendOTP(ctx context.Context, phone, code string) (delivery Delivery) {
	ctx, span := otel.Tracer("storefront/notification").Start(ctx, "notification.SendOTP")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			g.logger.ErrorContext(ctx, "otp delivery panicked", slog.Any("panic", r))
			span.SetStatus(codes.Error, fmt.Sprint(r))
			delivery = Delivery{Delivered: false}
		}
		span.SetAttributes(attribute.Bool("otp.delivered", delivery.Delivered))
		if g.observer != nil {
			g.observer.OTPDelivery(delivery.Delivered)
		}
	}()

	if g.notifier == nil {
		return Delivery{Delivered: false}
	}

	err := g.notifier.Send(ctx, Message{
		Kind:        KindOTP,
		Destination: phone,
		Body:        fmt.Sprintf("Your OTP verification code is %s", code),
	})
	if err != nil {
		g.logger.WarnContext(ctx, "otp delivery failed", slog.String("phone", phone), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "delivery failed")
		return Delivery{Delivered: false}
	}
	return Delivery{Delivered: true}
}
