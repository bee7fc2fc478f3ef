package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nhle/followup/internal/host"
	"github.com/nhle/followup/internal/model"
)

// Outcome tells the caller how a workflow run ended.
type Outcome int

const (
	// OutcomeSent means the message was sent.
	OutcomeSent Outcome = iota
	// OutcomeSendUnavailable means everything before the send succeeded
	// but the host cannot send; the user must press Send manually.
	OutcomeSendUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	case OutcomeSendUnavailable:
		return "send_unavailable"
	default:
		return "unknown"
	}
}

// FlagMethod records which API applied the follow-up flag.
type FlagMethod int

const (
	FlagNone FlagMethod = iota
	FlagREST
	FlagEWS
)

func (f FlagMethod) String() string {
	switch f {
	case FlagREST:
		return "rest"
	case FlagEWS:
		return "ews"
	default:
		return "none"
	}
}

// Result is the successful outcome of SetFlagAndSend or SendOnly.
type Result struct {
	Outcome    Outcome
	FlagMethod FlagMethod
}

// RESTPatcher sets the follow-up flag through the REST API.
type RESTPatcher interface {
	PatchFlag(
		ctx context.Context,
		baseURL string,
		restID string,
		token string,
		dates model.FlagDates,
	) error
}

// LegacyPatcher sets the follow-up flag through EWS.
type LegacyPatcher interface {
	UpdateItemFlag(ctx context.Context, itemID string, dates model.FlagDates) error
}

// Service flags and sends the message currently being composed.
// Host calls run strictly one after another and are never retried; the
// only second attempt is the single EWS update after a failed REST patch.
type Service struct {
	mailbox host.Mailbox
	rest    RESTPatcher
	legacy  LegacyPatcher
	logger  *slog.Logger
}

// New creates a workflow service.
func New(
	mailbox host.Mailbox,
	rest RESTPatcher,
	legacy LegacyPatcher,
	logger *slog.Logger,
) *Service {
	return &Service{
		mailbox: mailbox,
		rest:    rest,
		legacy:  legacy,
		logger:  logger,
	}
}

// SetFlagAndSend saves the draft, flags it with the given range and sends
// it. Save, token and double patch failures are returned as errors;
// host.ErrSendUnavailable is reported as OutcomeSendUnavailable.
func (s *Service) SetFlagAndSend(
	ctx context.Context, r model.ReminderRange,
) (Result, error) {
	log := s.logger.With("attempt", uuid.NewString())
	dates := r.UTC().FlagDates()

	itemID, err := s.mailbox.SaveDraft(ctx)
	if err != nil {
		log.Error("saving draft failed", "error", err)
		return Result{}, fmt.Errorf("saving draft: %w", err)
	}

	token, err := s.mailbox.CallbackToken(ctx)
	if err != nil {
		log.Error("getting REST token failed", "error", err)
		return Result{}, fmt.Errorf("getting REST token: %w", err)
	}

	method, err := s.setFlag(ctx, log, itemID, token, dates)
	if err != nil {
		return Result{}, err
	}
	log.Info("follow-up flag set",
		"method", method.String(),
		"start", dates.StartDate,
		"due", dates.DueDate,
	)

	outcome, err := s.send(ctx, log)
	if err != nil {
		return Result{FlagMethod: method}, err
	}
	return Result{Outcome: outcome, FlagMethod: method}, nil
}

// SendOnly sends the message without touching its flag.
func (s *Service) SendOnly(ctx context.Context) (Result, error) {
	log := s.logger.With("attempt", uuid.NewString())

	outcome, err := s.send(ctx, log)
	if err != nil {
		return Result{}, err
	}
	return Result{Outcome: outcome}, nil
}

// setFlag tries REST first and, on any REST error, EWS exactly once.
func (s *Service) setFlag(
	ctx context.Context,
	log *slog.Logger,
	itemID string,
	token string,
	dates model.FlagDates,
) (FlagMethod, error) {
	restID := s.mailbox.ConvertToRestID(itemID)

	restErr := s.rest.PatchFlag(ctx, s.mailbox.RestURL(), restID, token, dates)
	if restErr == nil {
		return FlagREST, nil
	}
	log.Warn("REST flag update failed, falling back to EWS", "error", restErr)

	if err := s.legacy.UpdateItemFlag(ctx, itemID, dates); err != nil {
		log.Error("EWS flag update failed", "error", err, "rest_error", restErr)
		return FlagNone, fmt.Errorf("setting follow-up flag: %w", err)
	}
	return FlagEWS, nil
}

func (s *Service) send(ctx context.Context, log *slog.Logger) (Outcome, error) {
	err := s.mailbox.Send(ctx)
	switch {
	case err == nil:
		log.Info("message sent")
		return OutcomeSent, nil
	case errors.Is(err, host.ErrSendUnavailable):
		log.Info("send unavailable, user must send manually")
		return OutcomeSendUnavailable, nil
	default:
		log.Error("sending failed", "error", err)
		return OutcomeSent, fmt.Errorf("sending message: %w", err)
	}
}
