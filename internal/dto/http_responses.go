package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"
)

const (
	DetailActivityNotFound = "Activity not found"
	DetailAlreadySignedUp  = "Student is already signed up"
	DetailActivityFull     = "Activity is full"
	DetailNotSignedUp      = "Student is not signed up for this activity"
	DetailInternalError    = "Service is currently unavailable. Please try again later."
)

// EnrollRequest carries the student identifier for signup and unregister
// calls. The email is taken from the query string and is not validated
// beyond being present.
type EnrollRequest struct {
	Email string `form:"email" validate:"required"`
}

// ActivityDetail is one entry of the GET /activities response map, keyed by
// activity name.
type ActivityDetail struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// EnrollmentMessage is published to RabbitMQ after a successful roster
// mutation and consumed by the notification worker.
type EnrollmentMessage struct {
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	ActionSignup     = "signup"
	ActionUnregister = "unregister"
)

func ActivityNotFoundError(c *ginext.Context) {
	c.JSON(404, ErrorResponse{Detail: DetailActivityNotFound})
}

func ConflictError(c *ginext.Context, detail string) {
	c.JSON(400, ErrorResponse{Detail: detail})
}

func BadRequestError(c *ginext.Context, detail string) {
	c.JSON(400, ErrorResponse{Detail: detail})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, ErrorResponse{Detail: DetailInternalError})
}

func SuccessMessage(c *ginext.Context, message string) {
	c.JSON(200, MessageResponse{Message: message})
}
