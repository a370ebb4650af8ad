package notificator

import (
	"context"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/aurum-app/aurum/internal/models"
	"github.com/aurum-app/aurum/pkg/logger"
)

// notificationTTL is how long the push service may retain an
// undelivered message.
const notificationTTL = 3600

// WebPushSender delivers messages over the Web Push protocol using the
// configured VAPID key pair.
type WebPushSender struct {
	logger     *logger.Logger
	subscriber string
	publicKey  string
	privateKey string
}

func NewWebPushSender(logger *logger.Logger, subscriber, publicKey, privateKey string) *WebPushSender {
	return &WebPushSender{
		logger:     logger,
		subscriber: subscriber,
		publicKey:  publicKey,
		privateKey: privateKey,
	}
}

func (w *WebPushSender) Send(ctx context.Context, sub models.PushSubscription, message string) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, []byte(message), &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.Keys.P256dh,
			Auth:   sub.Keys.Auth,
		},
	}, &webpush.Options{
		Subscriber:      w.subscriber,
		VAPIDPublicKey:  w.publicKey,
		VAPIDPrivateKey: w.privateKey,
		TTL:             notificationTTL,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.StatusCode, fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
