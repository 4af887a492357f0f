package orchestrators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"growfitness/internal/adapters/email"
	"growfitness/internal/adapters/whatsapp"
	"growfitness/internal/domain/invoice"
	"growfitness/internal/domain/kid"
	"growfitness/internal/domain/outbox"
	"growfitness/internal/domain/request"
	"growfitness/internal/domain/session"
	"growfitness/internal/domain/user"
)

// Notifications is the set of messages sent on state transitions.
// Implementations never fail the caller: delivery problems are logged and queued.
type Notifications interface {
	SendFreeSessionConfirmation(ctx context.Context, r request.FreeSessionRequest)
	SendSessionChange(ctx context.Context, s session.Session, changes string)
	SendRescheduleDecision(ctx context.Context, r request.RescheduleRequest)
	SendInvoiceUpdate(ctx context.Context, inv invoice.Invoice)
	SendPasswordReset(ctx context.Context, u user.User, resetURL string, ttl time.Duration)
}

// NotifierUserLookup resolves notification recipients.
type NotifierUserLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]user.User, error)
}

// NotifierKidLookup resolves the kids of a session.
type NotifierKidLookup interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]kid.Kid, error)
}

// OutboxWriter queues failed deliveries.
type OutboxWriter interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// mdRenderer converts notification bodies to HTML.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// EmailPayload is the outbox payload for a queued email.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// WhatsAppPayload is the outbox payload for a queued WhatsApp message.
type WhatsAppPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// Notifier sends email and WhatsApp messages, queueing failures in the outbox.
type Notifier struct {
	Email      email.Sender
	WhatsApp   whatsapp.Sender
	Outbox     OutboxWriter
	Users      NotifierUserLookup
	Kids       NotifierKidLookup
	From       string
	GenerateID func() string
	Now        func() time.Time
}

var _ Notifications = (*Notifier)(nil)

// SendFreeSessionConfirmation tells the requesting family their trial is booked.
func (n *Notifier) SendFreeSessionConfirmation(ctx context.Context, r request.FreeSessionRequest) {
	msg := fmt.Sprintf("Hello %s, your free session request for %s has been confirmed!", r.ParentName, r.KidName)
	n.deliver(ctx, r.Email, r.Phone, "Free Session Confirmation", msg)
}

// SendSessionChange notifies every parent whose kid is booked on s.
// PRE: s carries its current kid list
func (n *Notifier) SendSessionChange(ctx context.Context, s session.Session, changes string) {
	ids := s.KidIDs()
	if len(ids) == 0 {
		return
	}
	kids, err := n.Kids.GetByIDs(ctx, ids)
	if err != nil {
		slog.Error("notification_failed", "kind", "session_change", "session_id", s.ID, "error", err)
		return
	}
	parentIDs := make([]string, 0, len(kids))
	seen := make(map[string]bool)
	for _, id := range ids {
		k, ok := kids[id]
		if !ok || k.ParentID == "" || seen[k.ParentID] {
			continue
		}
		seen[k.ParentID] = true
		parentIDs = append(parentIDs, k.ParentID)
	}
	if len(parentIDs) == 0 {
		return
	}
	parents, err := n.Users.GetByIDs(ctx, parentIDs)
	if err != nil {
		slog.Error("notification_failed", "kind", "session_change", "session_id", s.ID, "error", err)
		return
	}
	msg := "Your session has been updated: " + changes
	for _, pid := range parentIDs {
		p, ok := parents[pid]
		if !ok {
			continue
		}
		n.deliver(ctx, p.Email, p.Phone, "Session Update", msg)
	}
}

// SendRescheduleDecision tells the requester whether their session moved.
func (n *Notifier) SendRescheduleDecision(ctx context.Context, r request.RescheduleRequest) {
	requester, err := n.Users.GetByID(ctx, r.RequestedBy)
	if err != nil {
		slog.Error("notification_failed", "kind", "reschedule_decision", "request_id", r.ID, "error", err)
		return
	}
	msg := "Your reschedule request has been denied."
	if r.Status == request.StatusApproved {
		msg = "Your reschedule request has been approved. New time: " + r.NewDateTime.Format("2006-01-02 15:04")
	}
	n.deliver(ctx, requester.Email, requester.Phone, "Reschedule Request", msg)
}

// SendInvoiceUpdate notifies the parent on a parent invoice.
func (n *Notifier) SendInvoiceUpdate(ctx context.Context, inv invoice.Invoice) {
	if inv.Type != invoice.TypeParentInvoice || inv.ParentID == "" {
		return
	}
	parent, err := n.Users.GetByID(ctx, inv.ParentID)
	if err != nil {
		slog.Error("notification_failed", "kind", "invoice_update", "invoice_id", inv.ID, "error", err)
		return
	}
	msg := "Your invoice status has been updated to: " + inv.Status
	n.deliver(ctx, parent.Email, parent.Phone, "Invoice Update", msg)
}

// SendPasswordReset emails the reset link. WhatsApp is not used for reset links.
func (n *Notifier) SendPasswordReset(ctx context.Context, u user.User, resetURL string, ttl time.Duration) {
	hours := int(ttl / time.Hour)
	if hours < 1 {
		hours = 1
	}
	plural := "s"
	if hours == 1 {
		plural = ""
	}
	body := fmt.Sprintf(`Hello %s,

You requested to reset your password for your Grow Fitness account.

Click the link below to reset your password:
%s

This link will expire in %d hour%s.

If you did not request this password reset, please ignore this email. Your password will remain unchanged.

For security reasons, please do not share this link with anyone.

Best regards,
Grow Fitness Team`, u.DisplayName(), resetURL, hours, plural)
	n.sendEmail(ctx, u.Email, "Reset Your Password", body)
}

func (n *Notifier) deliver(ctx context.Context, to, phone, subject, msg string) {
	if to != "" {
		n.sendEmail(ctx, to, subject, msg)
	}
	if phone != "" {
		n.sendWhatsApp(ctx, phone, msg)
	}
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) {
	p := EmailPayload{To: to, Subject: subject, Body: body}
	if _, err := SendEmailPayload(ctx, n.Email, n.From, p); err != nil {
		slog.Warn("notification_failed", "channel", outbox.ActionTypeEmail, "subject", subject, "error", err)
		n.enqueue(ctx, outbox.ActionTypeEmail, p)
	}
}

func (n *Notifier) sendWhatsApp(ctx context.Context, phone, body string) {
	p := WhatsAppPayload{To: phone, Body: body}
	if _, err := n.WhatsApp.Send(ctx, whatsapp.Message{To: p.To, Body: p.Body}); err != nil {
		slog.Warn("notification_failed", "channel", outbox.ActionTypeWhatsApp, "error", err)
		n.enqueue(ctx, outbox.ActionTypeWhatsApp, p)
	}
}

func (n *Notifier) enqueue(ctx context.Context, actionType string, payload any) {
	if n.Outbox == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		slog.Error("outbox_enqueue_failed", "action_type", actionType, "error", err)
		return
	}
	e := outbox.Entry{
		ID:         n.GenerateID(),
		ActionType: actionType,
		Payload:    string(raw),
		Status:     outbox.StatusPending,
		CreatedAt:  n.Now(),
	}
	if err := e.Validate(); err != nil {
		slog.Error("outbox_enqueue_failed", "action_type", actionType, "error", err)
		return
	}
	if err := n.Outbox.Save(ctx, e); err != nil {
		slog.Error("outbox_enqueue_failed", "action_type", actionType, "error", err)
		return
	}
	slog.Info("outbox_enqueued", "entry_id", e.ID, "action_type", actionType)
}

// RenderMarkdown converts a markdown body to HTML.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendEmailPayload renders p and sends it through sender.
// PRE: p.To is non-empty
// POST: Returns the provider message id
func SendEmailPayload(ctx context.Context, sender email.Sender, from string, p EmailPayload) (string, error) {
	html, err := RenderMarkdown(p.Body)
	if err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	res, err := sender.Send(ctx, email.SendRequest{
		To:      []string{strings.TrimSpace(p.To)},
		From:    from,
		Subject: p.Subject,
		HTML:    html,
		Text:    p.Body,
	})
	if err != nil {
		return "", err
	}
	return res.MessageID, nil
}
