package mail

import (
	"context"
	"fmt"
	"time"

	"bookstore-service/internal/util"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// Config holds SMTP settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
}

// OrderConfirmation carries everything the confirmation mail needs.
type OrderConfirmation struct {
	ToEmail     string
	FullName    string
	ClaimCode   string
	OrderDate   time.Time
	TotalBooks  int
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	FinalAmount decimal.Decimal
}

// Mailer sends transactional mail over SMTP. Sends go through a circuit
// breaker so a dead SMTP host stops tying up request handlers.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewMailer creates a mailer with a circuit breaker around the SMTP dial.
func NewMailer(cfg Config) *Mailer {
	logger := util.GetLogger()

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			util.MailBreakerState.Set(breakerStateValue(to))
			logger.Info("Mail circuit breaker state changed",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.FromEmail,
		cb:     cb,
		logger: logger,
	}
}

// SendOrderConfirmation sends the order receipt with the claim code.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, oc OrderConfirmation) error {
	_, span := util.StartSpan(ctx, "Mailer.SendOrderConfirmation")
	defer span.End()

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", oc.ToEmail)
	msg.SetHeader("Subject", "Your Order Confirmation")
	msg.SetBody("text/html", confirmationBody(oc))

	_, err := m.cb.Execute(func() (interface{}, error) {
		return nil, m.dialer.DialAndSend(msg)
	})
	if err != nil {
		util.EmailSendsTotal.WithLabelValues("failure").Inc()
		return fmt.Errorf("failed to send order confirmation: %w", err)
	}

	util.EmailSendsTotal.WithLabelValues("success").Inc()
	return nil
}

func confirmationBody(oc OrderConfirmation) string {
	return fmt.Sprintf(`<html><body>
<p>Hello %s,</p>
<p>Thank you for your order placed on %s.</p>
<p>Your claim code is: <strong>%s</strong></p>
<table>
<tr><td>Total books</td><td>%d</td></tr>
<tr><td>Subtotal</td><td>%s</td></tr>
<tr><td>Discount</td><td>%s</td></tr>
<tr><td>Final amount</td><td>%s</td></tr>
</table>
<p>Present the claim code at the pickup counter to collect your order.</p>
</body></html>`,
		oc.FullName,
		oc.OrderDate.Format("2 Jan 2006 15:04"),
		oc.ClaimCode,
		oc.TotalBooks,
		oc.Subtotal.StringFixed(2),
		oc.Discount.StringFixed(2),
		oc.FinalAmount.StringFixed(2))
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
