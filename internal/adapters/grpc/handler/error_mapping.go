package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/staffing-workflow/internal/core/assignment"
	"github.com/ogurasousui/staffing-workflow/internal/core/employee"
	"github.com/ogurasousui/staffing-workflow/internal/core/escalation"
	"github.com/ogurasousui/staffing-workflow/internal/core/notification"
	"github.com/ogurasousui/staffing-workflow/internal/core/project"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidName),
		errors.Is(err, employee.ErrInvalidSkill),
		errors.Is(err, project.ErrInvalidID),
		errors.Is(err, project.ErrInvalidName),
		errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, project.ErrInvalidRequiredSkill),
		errors.Is(err, project.ErrInvalidActor),
		errors.Is(err, assignment.ErrInvalidID),
		errors.Is(err, assignment.ErrInvalidStatus),
		errors.Is(err, assignment.ErrInvalidActor),
		errors.Is(err, escalation.ErrInvalidActor),
		errors.Is(err, escalation.ErrInvalidDecision),
		errors.Is(err, notification.ErrInvalidUserID),
		errors.Is(err, notification.ErrInvalidTitle):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, assignment.ErrAssignmentNotFound),
		errors.Is(err, escalation.ErrTaskNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, project.ErrUnauthorized), errors.Is(err, escalation.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, project.ErrIllegalTransition),
		errors.Is(err, assignment.ErrIllegalTransition),
		errors.Is(err, assignment.ErrValidationFailed),
		errors.Is(err, assignment.ErrAlreadyAssigned),
		errors.Is(err, escalation.ErrIllegalState),
		errors.Is(err, escalation.ErrNotApproved),
		errors.Is(err, escalation.ErrTaskCompleted):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
