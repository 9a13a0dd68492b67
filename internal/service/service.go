package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"mergington/internal/dto"
	"mergington/internal/repo"
	"mergington/pkg/validator"
)

type Service interface {
	GetAllActivities(ctx *ginext.Context)
	Signup(ctx *ginext.Context)
	Unregister(ctx *ginext.Context)
}

// Publisher is the slice of the rabbit client the service needs. A nil
// Publisher disables enrollment notifications.
type Publisher interface {
	Publish(message []byte) error
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	pub  Publisher
}

func NewService(repo repo.Repository, logger *zerolog.Logger, pub Publisher) Service {
	return &service{
		repo: repo,
		log:  logger,
		pub:  pub,
	}
}

func (s *service) GetAllActivities(ctx *ginext.Context) {
	activities, err := s.repo.GetAllActivities(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get activities from DB")
		dto.InternalServerError(ctx)
		return
	}

	resp := make(map[string]dto.ActivityDetail, len(activities))
	for _, a := range activities {
		participants, err := s.repo.GetParticipantsByActivityID(ctx.Request.Context(), int64(a.ID))
		if err != nil {
			s.log.Error().Err(err).Str("activity", a.Name).Msg("failed to get participants")
			dto.InternalServerError(ctx)
			return
		}

		emails := make([]string, 0, len(participants))
		for _, p := range participants {
			emails = append(emails, p.Email)
		}

		resp[a.Name] = dto.ActivityDetail{
			Description:     a.Description,
			Schedule:        a.Schedule,
			MaxParticipants: a.MaxParticipants,
			Participants:    emails,
		}
	}

	ctx.JSON(200, resp)
}

func (s *service) Signup(ctx *ginext.Context) {
	activityName := ctx.Param("activity_name")

	var req dto.EnrollRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid query parameters")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	if err := s.repo.SignupTx(ctx.Request.Context(), activityName, req.Email); err != nil {
		switch err {
		case repo.ErrActivityNotFound:
			dto.ActivityNotFoundError(ctx)
			return
		case repo.ErrAlreadySignedUp:
			dto.ConflictError(ctx, dto.DetailAlreadySignedUp)
			return
		case repo.ErrActivityFull:
			dto.ConflictError(ctx, dto.DetailActivityFull)
			return
		default:
			s.log.Error().Err(err).Msg("failed to sign up participant")
			dto.InternalServerError(ctx)
			return
		}
	}

	s.log.Info().
		Str("activity", activityName).
		Str("email", req.Email).
		Msg("participant signed up successfully")

	s.publishEnrollment(activityName, req.Email, dto.ActionSignup)

	dto.SuccessMessage(ctx, fmt.Sprintf("Signed up %s for %s", req.Email, activityName))
}

func (s *service) Unregister(ctx *ginext.Context) {
	activityName := ctx.Param("activity_name")

	var req dto.EnrollRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		dto.BadRequestError(ctx, "Invalid query parameters")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadRequestError(ctx, fmt.Sprintf("%v", verr))
		return
	}

	if err := s.repo.UnregisterTx(ctx.Request.Context(), activityName, req.Email); err != nil {
		switch err {
		case repo.ErrActivityNotFound:
			dto.ActivityNotFoundError(ctx)
			return
		case repo.ErrNotSignedUp:
			dto.ConflictError(ctx, dto.DetailNotSignedUp)
			return
		default:
			s.log.Error().Err(err).Msg("failed to unregister participant")
			dto.InternalServerError(ctx)
			return
		}
	}

	s.log.Info().
		Str("activity", activityName).
		Str("email", req.Email).
		Msg("participant unregistered successfully")

	s.publishEnrollment(activityName, req.Email, dto.ActionUnregister)

	dto.SuccessMessage(ctx, fmt.Sprintf("Unregistered %s from %s", req.Email, activityName))
}

// publishEnrollment sends a notification event; failures are logged and never
// surfaced to the HTTP caller.
func (s *service) publishEnrollment(activityName, email, action string) {
	if s.pub == nil {
		return
	}

	msg := dto.EnrollmentMessage{
		Activity:   activityName,
		Email:      email,
		Action:     action,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal enrollment message")
		return
	}
	if err := s.pub.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish enrollment message to RabbitMQ")
	}
}
