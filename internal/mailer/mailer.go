// AngelaMos | 2026
// mailer.go

package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/carterperez-dev/cosmos-explorer/internal/config"
)

// Notifier delivers account emails. Implementations must be safe for
// concurrent use; callers treat delivery as best-effort.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, username, token string) error
	SendPasswordResetEmail(ctx context.Context, to, username, token string) error
	SendPasswordChangedEmail(ctx context.Context, to, username string) error
}

// New returns an SMTP-backed notifier when SMTP is enabled, otherwise a
// log-only notifier so development environments need no mail server.
func New(cfg config.SMTPConfig, clientURL string, logger *slog.Logger) Notifier {
	if cfg.Enabled {
		return &smtpNotifier{cfg: cfg, clientURL: clientURL}
	}
	return &logNotifier{clientURL: clientURL, logger: logger}
}

type smtpNotifier struct {
	cfg       config.SMTPConfig
	clientURL string
}

func (n *smtpNotifier) SendVerificationEmail(
	ctx context.Context,
	to, username, token string,
) error {
	link := n.clientURL + "/verify-email/" + token
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Welcome aboard. Confirm your email address to activate your "+
			"account:\n\n%s\n\n"+
			"This link expires in 24 hours. If you did not create an "+
			"account, you can ignore this message.\n",
		username, link,
	)

	return n.send(ctx, to, "Verify your email address", body)
}

func (n *smtpNotifier) SendPasswordResetEmail(
	ctx context.Context,
	to, username, token string,
) error {
	link := n.clientURL + "/reset-password/" + token
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"A password reset was requested for your account. Set a new "+
			"password here:\n\n%s\n\n"+
			"This link expires in 1 hour. If you did not request a reset, "+
			"no action is needed.\n",
		username, link,
	)

	return n.send(ctx, to, "Reset your password", body)
}

func (n *smtpNotifier) SendPasswordChangedEmail(
	ctx context.Context,
	to, username string,
) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your password was just changed. If this was not you, reset "+
			"your password immediately.\n",
		username,
	)

	return n.send(ctx, to, "Your password was changed", body)
}

func (n *smtpNotifier) send(
	ctx context.Context,
	to, subject, body string,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	err := smtp.SendMail(addr, auth, n.cfg.From, []string{to}, []byte(msg))
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}

// logNotifier writes the would-be email to the log, tokens included, so
// local flows can be exercised end to end.
type logNotifier struct {
	clientURL string
	logger    *slog.Logger
}

func (n *logNotifier) SendVerificationEmail(
	_ context.Context,
	to, username, token string,
) error {
	n.logger.Info("verification email",
		"to", to,
		"username", username,
		"link", n.clientURL+"/verify-email/"+token,
	)
	return nil
}

func (n *logNotifier) SendPasswordResetEmail(
	_ context.Context,
	to, username, token string,
) error {
	n.logger.Info("password reset email",
		"to", to,
		"username", username,
		"link", n.clientURL+"/reset-password/"+token,
	)
	return nil
}

func (n *logNotifier) SendPasswordChangedEmail(
	_ context.Context,
	to, username string,
) error {
	n.logger.Info("password changed email", "to", to, "username", username)
	return nil
}
