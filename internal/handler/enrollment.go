package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

const dateLayout = "2006-01-02"

type EnrollmentKeeper interface {
	GetEnrollment(ctx context.Context, userID uint64) (*model.Enrollment, error)
	SaveEnrollment(ctx context.Context, userID uint64, in service.EnrollmentInput) (*model.Enrollment, error)
}

// EnrollmentHandler serves /v1/enrollments.
type EnrollmentHandler struct {
	Enrollments EnrollmentKeeper
	Timeout     time.Duration
}

func NewEnrollmentHandler(enrollments EnrollmentKeeper, timeout time.Duration) *EnrollmentHandler {
	return &EnrollmentHandler{Enrollments: enrollments, Timeout: timeout}
}

func (h *EnrollmentHandler) GetEnrollment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	e, err := h.Enrollments.GetEnrollment(ctx, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newEnrollmentResponse(e))
}

// SaveEnrollment handles POST /v1/enrollments.  Birthday is either a
// date ("2006-01-02") or an RFC 3339 timestamp.
func (h *EnrollmentHandler) SaveEnrollment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, err)
	}
	var body struct {
		Name     string `json:"name"`
		CPF      string `json:"cpf"`
		Birthday string `json:"birthday"`
		Phone    string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, &service.InvalidDataError{Field: "body"})
	}
	birthday, err := parseBirthday(body.Birthday)
	if err != nil {
		return fail(c, &service.InvalidDataError{Field: "birthday"})
	}
	ctx, cancel := requestContext(c, h.Timeout)
	defer cancel()

	e, err := h.Enrollments.SaveEnrollment(ctx, userID, service.EnrollmentInput{
		Name:     body.Name,
		CPF:      body.CPF,
		Birthday: birthday,
		Phone:    body.Phone,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, newEnrollmentResponse(e))
}

func parseBirthday(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
