package usecases

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/ports"
	"github.com/samirrijal/busticket/internal/pkg/logging"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Contact validation messages, shown to the user as is.
const (
	MsgContactRequired = "Nombre, email y mensaje son requeridos"
	MsgContactEmail    = "Email inválido"
)

// ContactService accepts contact-form messages.
type ContactService struct {
	publisher ports.EventPublisher
	now       clock
}

// NewContactService creates a new ContactService. publisher may be nil.
func NewContactService(publisher ports.EventPublisher) *ContactService {
	return &ContactService{publisher: publisher, now: time.Now}
}

// WithClock replaces the time source used for tickets and timestamps.
func (s *ContactService) WithClock(now func() time.Time) *ContactService {
	s.now = now
	return s
}

// Submit validates msg and issues a support ticket for it.
func (s *ContactService) Submit(ctx context.Context, msg domain.ContactMessage) (*domain.ContactReceipt, error) {
	if strings.TrimSpace(msg.Nombre) == "" || strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Mensaje) == "" {
		return nil, &domain.ValidationError{Msg: MsgContactRequired}
	}
	if !emailPattern.MatchString(msg.Email) {
		return nil, &domain.ValidationError{Msg: MsgContactEmail}
	}

	now := s.now()
	suffix, err := ticketSuffix()
	if err != nil {
		return nil, fmt.Errorf("generate ticket: %w", err)
	}
	msg.CreatedAt = now.UTC()
	receipt := &domain.ContactReceipt{
		Ticket:  "TKT-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix,
		Message: msg,
	}

	logging.FromContext(ctx).Info("contact message received", "ticket", receipt.Ticket, "asunto", msg.Asunto)

	if s.publisher != nil {
		publishEvent(ctx, "contact.received", func() error {
			return s.publisher.PublishContactReceived(ctx, &domain.ContactReceived{
				ID:      newEventID(),
				Ticket:  receipt.Ticket,
				Message: msg,
			})
		})
	}
	return receipt, nil
}

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func ticketSuffix() (string, error) {
	b := make([]byte, 9)
	max := big.NewInt(int64(len(base36)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = base36[n.Int64()]
	}
	return string(b), nil
}
