package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/travel-buddy/internal/domain"
	"github.com/ErlanBelekov/travel-buddy/internal/metrics"
)

const otpSubject = "Your verification code"

// Result is the outcome of one dispatch attempt. A failed Result is
// never fatal to the caller.
type Result struct {
	Success bool
	Err     error
}

// OTPNotifier delivers verification codes with a bounded wait.
type OTPNotifier struct {
	sender  Sender
	timeout time.Duration
}

func NewOTPNotifier(sender Sender, timeout time.Duration) *OTPNotifier {
	return &OTPNotifier{sender: sender, timeout: timeout}
}

func (n *OTPNotifier) SendOTP(ctx context.Context, to, code string) Result {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- n.sender.Send(ctx, to, otpSubject, otpBody(code))
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("send otp: %w", ctx.Err())
	}

	switch {
	case err == nil:
		metrics.OTPNotificationsTotal.WithLabelValues("sent").Inc()
		return Result{Success: true}
	case errors.Is(err, context.DeadlineExceeded):
		metrics.OTPNotificationsTotal.WithLabelValues("timeout").Inc()
	default:
		metrics.OTPNotificationsTotal.WithLabelValues("failed").Inc()
	}
	return Result{Err: err}
}

func otpBody(code string) string {
	return fmt.Sprintf(
		`<p>Your Travel Buddy verification code is:</p><p style="font-size:24px;letter-spacing:4px"><strong>%s</strong></p><p>It expires in %d minutes.</p>`,
		code, int(domain.OTPTTL.Minutes()),
	)
}
