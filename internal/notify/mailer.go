package notify

import (
	"context"
	"fmt"

	"github.com/samithkalyan/telehealth-booking/pkg/logging"
)

// BookingDetails is the slice of a booking the patient emails need.
type BookingDetails struct {
	Name      string
	Email     string
	Date      string
	Time      string
	TypeLabel string
	Reason    string
	VideoLink string
}

// BookingMailer composes and sends the patient-facing booking emails:
// confirmation on create, a generic update notice on reschedule, and a
// thank-you note on completion.
type BookingMailer struct {
	sender  EmailSender
	signoff string
	logger  *logging.Logger
}

// NewBookingMailer creates a mailer. signoff is the practitioner name used
// to close every email.
func NewBookingMailer(sender EmailSender, signoff string, logger *logging.Logger) *BookingMailer {
	if signoff == "" {
		signoff = "Dr Samith Kalyan"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingMailer{
		sender:  sender,
		signoff: signoff,
		logger:  logger,
	}
}

// SendConfirmation emails the patient their booking details and video link.
func (m *BookingMailer) SendConfirmation(ctx context.Context, b BookingDetails) error {
	if m.sender == nil || b.Email == "" {
		return fmt.Errorf("notify: no sender or recipient for confirmation")
	}
	body := fmt.Sprintf(`Hi %s,

Your booking is confirmed.

Date: %s
Time: %s
Type: %s
Video: %s

Notes: %s

— %s`, b.Name, b.Date, b.Time, b.TypeLabel, b.VideoLink, b.Reason, m.signoff)

	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your booking is confirmed.</p>
<ul>
  <li>Date: %s</li>
  <li>Time: %s</li>
  <li>Type: %s</li>
  <li>Video: <a href="%s">%s</a></li>
</ul>
<p>Notes: %s</p>
<p>— %s</p>`, b.Name, b.Date, b.Time, b.TypeLabel, b.VideoLink, b.VideoLink, b.Reason, m.signoff)

	return m.send(ctx, b, "Your telehealth booking is confirmed", body, html)
}

// SendUpdate emails the patient their new booking details after a
// reschedule or other change.
func (m *BookingMailer) SendUpdate(ctx context.Context, b BookingDetails) error {
	if m.sender == nil || b.Email == "" {
		return fmt.Errorf("notify: no sender or recipient for update")
	}
	typeLabel := b.TypeLabel
	if typeLabel == "" {
		typeLabel = "Consult"
	}
	body := fmt.Sprintf(`Hi %s,

Your booking has been updated:

Date: %s
Time: %s
Type: %s

If this time no longer works, please reply to adjust.

— %s`, b.Name, b.Date, b.Time, typeLabel, m.signoff)

	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your booking has been updated:</p>
<ul>
  <li>Date: %s</li>
  <li>Time: %s</li>
  <li>Type: %s</li>
</ul>
<p>If this time no longer works, please reply to adjust.</p>
<p>— %s</p>`, b.Name, b.Date, b.Time, typeLabel, m.signoff)

	return m.send(ctx, b, "Updated booking details", body, html)
}

// SendCompletion thanks the patient after a completed consult.
func (m *BookingMailer) SendCompletion(ctx context.Context, b BookingDetails) error {
	if m.sender == nil || b.Email == "" {
		return fmt.Errorf("notify: no sender or recipient for completion")
	}
	body := fmt.Sprintf(`Hi %s,

Thank you for your consult today. I hope you had a good experience.

If you have any further questions or need follow-up care, please reply to this email and I will assist.

— %s`, b.Name, m.signoff)

	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Thank you for your consult today. I hope you had a good experience.</p>
<p>If you have any further questions or need follow-up care, please reply to this email and I will assist.</p>
<p>— %s</p>`, b.Name, m.signoff)

	return m.send(ctx, b, "Thank you for your consult today", body, html)
}

func (m *BookingMailer) send(ctx context.Context, b BookingDetails, subject, body, html string) error {
	err := m.sender.Send(ctx, EmailMessage{
		To:      b.Email,
		ToName:  b.Name,
		Subject: subject,
		Body:    body,
		HTML:    html,
	})
	if err != nil {
		m.logger.Error("booking email failed", "error", err, "to", b.Email, "subject", subject)
		return err
	}
	return nil
}
