package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

// Notifier delivers push notifications to a user's device.
type Notifier interface {
	Notify(ctx context.Context, deviceToken, title, body string, data map[string]interface{}) error
}

// NoopNotifier drops every notification. It is used when no push
// credentials are configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, string, string, string, map[string]interface{}) error {
	return nil
}

// messageSender is the part of the FCM client the notifier needs.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type fcmNotifier struct {
	client messageSender
}

// NewFCMNotifier builds a Firebase Cloud Messaging notifier from a service
// account credentials file.
func NewFCMNotifier(ctx context.Context, credentialsFile string) (Notifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &fcmNotifier{client: client}, nil
}

func (n *fcmNotifier) Notify(ctx context.Context, deviceToken, title, body string, data map[string]interface{}) error {
	if deviceToken == "" {
		return fmt.Errorf("empty device token")
	}
	message := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: stringData(data),
	}
	if _, err := n.client.Send(ctx, message); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	return nil
}

// stringData flattens notification data into the string map FCM accepts.
func stringData(data map[string]interface{}) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = fmt.Sprint(v)
	}
	return out
}
