package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/formrelay/formrelay-api/config"
	"github.com/formrelay/formrelay-api/internal/models"
	apperrors "github.com/formrelay/formrelay-api/pkg/errors"
	"github.com/formrelay/formrelay-api/pkg/logger"
	"github.com/formrelay/formrelay-api/pkg/metrics"
)

const (
	adminNameFallback        = "Contact Form User"
	confirmationNameFallback = "Valued Customer"

	kindAdmin        = "admin"
	kindConfirmation = "confirmation"
)

type EmailService struct {
	config    *config.Config
	transport MailTransport
}

func NewEmailService(cfg *config.Config, transport MailTransport) *EmailService {
	return &EmailService{
		config:    cfg,
		transport: transport,
	}
}

// SendAdminNotification delivers the notification email to the configured
// (or overridden) recipient and returns the message ID. The send runs under
// the configured wall-clock budget; transport errors come back classified.
func (e *EmailService) SendAdminNotification(ctx context.Context, sub models.Submission, mirror *models.MirrorOutcome, overrides models.SendOverrides) (string, error) {
	start := time.Now()
	id, err := e.sendAdmin(ctx, sub, mirror, overrides)
	e.observeSend(kindAdmin, start, err)

	if err != nil {
		logger.LogError(err, "Admin notification failed",
			zap.String("error_kind", apperrors.Kind(err)),
			zap.String("from", sub.Email()))
		return "", err
	}

	logger.Info("Admin notification sent",
		zap.String("message_id", id),
		zap.String("from", sub.Email()))
	return id, nil
}

func (e *EmailService) sendAdmin(ctx context.Context, sub models.Submission, mirror *models.MirrorOutcome, overrides models.SendOverrides) (string, error) {
	recipient := overrides.RecipientEmail
	if recipient == "" {
		recipient = e.config.Email.Recipient
	}
	if recipient == "" {
		return "", apperrors.ConfigurationError("RECIPIENT_EMAIL")
	}

	sender := e.transport.Sender()
	if sender == "" {
		return "", apperrors.ConfigurationError("EMAIL_USER")
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(sub.DisplayName(adminNameFallback), sender); err != nil {
		return "", apperrors.ValidationError("from", err.Error())
	}
	if err := msg.To(recipient); err != nil {
		return "", apperrors.ValidationError("recipient", err.Error())
	}

	// Keep a copy in the authenticated mailbox unless it is the recipient.
	if e.config.Email.User != "" && !strings.EqualFold(e.config.Email.User, recipient) {
		if err := msg.Cc(e.config.Email.User); err != nil {
			logger.Warn("Skipping invalid CC address", zap.Error(err))
		}
	}

	replyTo := overrides.SenderEmail
	if replyTo == "" {
		replyTo = sub.Email()
	}
	if replyTo != "" {
		if err := msg.ReplyTo(replyTo); err != nil {
			logger.Warn("Skipping invalid reply-to address", zap.Error(err))
		}
	}

	msg.Subject(sub.SubjectLine())
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextHTML, e.adminBody(sub, mirror))

	ctx, cancel := context.WithTimeout(ctx, e.config.Email.SendTimeout)
	defer cancel()

	if err := e.transport.Send(ctx, msg); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("send exceeded %s budget: %w", e.config.Email.SendTimeout, apperrors.ErrTimeout)
		}
		return "", apperrors.ClassifySMTP(err)
	}

	return msg.GetMessageID(), nil
}

// SendConfirmation sends the thank-you email back to the submitter. It is
// strictly best effort: every failure is logged and swallowed so the
// confirmation can never change the submission outcome.
func (e *EmailService) SendConfirmation(ctx context.Context, sub models.Submission, mirror *models.MirrorOutcome, overrides models.SendOverrides) {
	start := time.Now()
	err := e.sendConfirmation(ctx, sub, mirror, overrides)
	e.observeSend(kindConfirmation, start, err)

	if err != nil {
		logger.Warn("Confirmation email failed",
			zap.String("error_kind", apperrors.Kind(err)),
			zap.String("to", sub.Email()),
			zap.Error(err))
		return
	}

	logger.Info("Confirmation email sent", zap.String("to", sub.Email()))
}

func (e *EmailService) sendConfirmation(ctx context.Context, sub models.Submission, mirror *models.MirrorOutcome, overrides models.SendOverrides) error {
	recipient := sub.Email()
	if recipient == "" {
		return apperrors.ValidationError("email", "missing submitter address")
	}

	sender := e.transport.Sender()
	if sender == "" {
		return apperrors.ConfigurationError("EMAIL_USER")
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(e.config.Email.CompanyName, sender); err != nil {
		return apperrors.ValidationError("from", err.Error())
	}
	if err := msg.To(recipient); err != nil {
		return apperrors.ValidationError("recipient", err.Error())
	}

	// Blind copy to the authenticated mailbox for an outbound audit trail.
	if e.config.Email.User != "" && !strings.EqualFold(e.config.Email.User, recipient) {
		if err := msg.Bcc(e.config.Email.User); err != nil {
			logger.Warn("Skipping invalid BCC address", zap.Error(err))
		}
	}

	if overrides.SenderEmail != "" {
		if err := msg.ReplyTo(overrides.SenderEmail); err != nil {
			logger.Warn("Skipping invalid reply-to address", zap.Error(err))
		}
	}

	msg.Subject("Thank you for contacting us")
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextHTML, e.confirmationBody(sub, mirror))

	ctx, cancel := context.WithTimeout(ctx, e.config.Email.SendTimeout)
	defer cancel()

	if err := e.transport.Send(ctx, msg); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("send exceeded %s budget: %w", e.config.Email.SendTimeout, apperrors.ErrTimeout)
		}
		return apperrors.ClassifySMTP(err)
	}
	return nil
}

// adminBody renders the notification HTML: every submitted field in sorted
// order, plus the spreadsheet link block when a mirror outcome carries one.
func (e *EmailService) adminBody(sub models.Submission, mirror *models.MirrorOutcome) string {
	var b strings.Builder
	b.WriteString("<h2>New Contact Form Submission</h2>\n<table>\n")
	for _, key := range sub.SortedKeys() {
		b.WriteString(fmt.Sprintf("<tr><td><strong>%s:</strong></td><td>%s</td></tr>\n",
			html.EscapeString(models.HeaderLabel(key)),
			html.EscapeString(models.FormatValue(sub[key]))))
	}
	b.WriteString(fmt.Sprintf("<tr><td><strong>Received:</strong></td><td>%s</td></tr>\n",
		time.Now().UTC().Format(time.RFC3339)))
	b.WriteString("</table>\n")

	if mirror != nil && mirror.SheetURL != "" {
		b.WriteString(fmt.Sprintf("<p>Google Sheet: <a href=\"%s\">%s</a></p>\n",
			html.EscapeString(mirror.SheetURL), html.EscapeString(mirror.SheetURL)))
		switch {
		case mirror.SubmissionResult == nil:
			b.WriteString("<p><em>Sheet linked for reference only (no write method configured).</em></p>\n")
		case mirror.SubmissionResult.Success:
			b.WriteString(fmt.Sprintf("<p><em>Submission recorded via %s.</em></p>\n",
				html.EscapeString(mirror.SubmissionResult.Method)))
		default:
			b.WriteString(fmt.Sprintf("<p><em>Sheet write failed: %s</em></p>\n",
				html.EscapeString(mirror.SubmissionResult.Error)))
		}
	}

	return b.String()
}

func (e *EmailService) confirmationBody(sub models.Submission, mirror *models.MirrorOutcome) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>Thank you, %s!</h2>\n",
		html.EscapeString(sub.DisplayName(confirmationNameFallback))))
	b.WriteString("<p>We have received your message and will get back to you as soon as possible.</p>\n")

	if mirror != nil && mirror.SheetURL != "" && mirror.Success {
		b.WriteString(fmt.Sprintf("<p>Your submission reference: <a href=\"%s\">view sheet</a></p>\n",
			html.EscapeString(mirror.SheetURL)))
	}

	b.WriteString(fmt.Sprintf("<p>Best regards,<br>%s<br>%s</p>\n",
		html.EscapeString(e.config.Email.TeamName),
		html.EscapeString(e.config.Email.CompanyName)))
	return b.String()
}

func (e *EmailService) observeSend(kind string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = apperrors.Kind(err)
	}
	duration := metrics.MeasureDuration(start)
	metrics.EmailSendTotal.WithLabelValues(kind, status).Inc()
	metrics.EmailSendDuration.WithLabelValues(kind, status).Observe(duration)
	logger.LogAPICall("smtp", kind, status, duration)
}
