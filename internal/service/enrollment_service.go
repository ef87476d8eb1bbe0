package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/event-hotel-booking/internal/model"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
)

type EnrollmentService struct {
	enrollments EnrollmentRepository
}

func NewEnrollmentService(enrollments EnrollmentRepository) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments}
}

// EnrollmentInput carries the editable enrollment fields.
type EnrollmentInput struct {
	Name     string
	CPF      string
	Birthday time.Time
	Phone    string
}

func (s *EnrollmentService) GetEnrollment(ctx context.Context, userID uint64) (*model.Enrollment, error) {
	e, err := s.enrollments.FindEnrollmentByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// SaveEnrollment creates the caller's enrollment or overwrites its
// fields when one already exists.
func (s *EnrollmentService) SaveEnrollment(ctx context.Context, userID uint64, in EnrollmentInput) (*model.Enrollment, error) {
	if userID == 0 {
		return nil, invalidData("userId")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidData("name")
	}
	cpf := strings.TrimSpace(in.CPF)
	if len(cpf) != 11 || strings.Trim(cpf, "0123456789") != "" {
		return nil, invalidData("cpf")
	}
	if in.Birthday.IsZero() {
		return nil, invalidData("birthday")
	}
	e := &model.Enrollment{
		UserID:   userID,
		Name:     name,
		CPF:      cpf,
		Birthday: in.Birthday.UTC(),
		Phone:    strings.TrimSpace(in.Phone),
	}
	if err := s.enrollments.UpsertEnrollment(ctx, e); err != nil {
		// cpf is unique across enrollments.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalidData("cpf")
		}
		return nil, fmt.Errorf("save enrollment: %w", err)
	}
	return e, nil
}
