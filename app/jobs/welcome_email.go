// Package jobs holds the background work dispatched onto the queue.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/app/services"
	"github.com/travlrgetaways/travlr/pkg/event"
	"github.com/travlrgetaways/travlr/pkg/logger"
	"github.com/travlrgetaways/travlr/pkg/mail"
	"github.com/travlrgetaways/travlr/pkg/queue"
)

const welcomeEmailJob = "welcome-email"

// WelcomeEmail greets a freshly registered user.
type WelcomeEmail struct {
	Email    string `json:"email"`
	UserName string `json:"name"`
}

func (j *WelcomeEmail) Name() string { return welcomeEmailJob }

func (j *WelcomeEmail) Handle(ctx context.Context) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nWelcome to Travlr Getaways! Your account is ready.\r\n\r\nThe Travlr team",
		j.UserName,
	)

	return mail.New().
		To(j.Email).
		Subject("Welcome to Travlr Getaways").
		Body(body).
		Send()
}

// Register wires the job decoder and the listener that dispatches it
// whenever a user registers. Call once at startup.
func Register() {
	queue.Register(welcomeEmailJob, func(payload []byte) (queue.Job, error) {
		var job WelcomeEmail
		if err := json.Unmarshal(payload, &job); err != nil {
			return nil, err
		}
		return &job, nil
	})

	event.Listen(services.EventUserRegistered, func(ctx context.Context, payload any) {
		user, ok := payload.(*models.User)
		if !ok || user.Email == "" {
			return
		}

		job := &WelcomeEmail{Email: user.Email, UserName: user.FullName()}
		// The request that fired this event may finish before the
		// dispatch lands, so detach from its cancellation.
		if err := queue.Dispatch(context.WithoutCancel(ctx), job); err != nil {
			logger.Error("jobs: dispatch welcome email failed", "error", err)
		}
	})
}
