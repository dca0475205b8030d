package service

import (
	"context"
	"errors"
	"strings"

	"github.com/okian/devtrack/internal/adapters/mailer"
	"github.com/okian/devtrack/internal/adapters/repository"
	"github.com/okian/devtrack/internal/domain/apperr"
	"github.com/okian/devtrack/internal/domain/export"
	"github.com/okian/devtrack/pkg/logger"
	"github.com/okian/devtrack/pkg/metrics"
)

// Export kinds, used as metric labels.
const (
	ExportAssessments = "assessments"
	ExportPlayers     = "players"
)

// Confirmation messages returned after a successful export.
const (
	AssessmentsExportedMessage = "Export successful. An email with the assessment data has been sent."
	PlayersExportedMessage     = "Export successful. An email with the player history data has been sent."
)

const (
	assessmentsBody = "Please find attached the export of all player development assessments."
	playersBody     = "Please find attached the export of all player history and assessments."
)

// ExportInput names the recipient of an export.
type ExportInput struct {
	RecipientEmail string `json:"recipientEmail" validate:"required,email"`
}

// ExportAssessments emails every assessment as a workbook to the recipient.
func (s *Service) ExportAssessments(ctx context.Context, in ExportInput) error {
	const op = "service.export_assessments"

	if err := s.prepareExport(ctx, op, &in); err != nil {
		return s.exportFailed(ExportAssessments, err)
	}
	rows, err := s.store.ListAssessments(ctx, repository.Filter{})
	if err != nil {
		return s.exportFailed(ExportAssessments, apperr.Wrap(op, err))
	}
	if len(rows) == 0 {
		return s.exportFailed(ExportAssessments, apperr.Newf(op, apperr.ErrNotFound, "no assessments found to export"))
	}

	day := s.now()
	err = s.deliver(ctx, op, in.RecipientEmail, []export.Table{export.AssessmentRows(rows)},
		export.AssessmentsSubject(day), assessmentsBody, export.AssessmentsFilename(day))
	if err != nil {
		return s.exportFailed(ExportAssessments, err)
	}
	metrics.RecordExport(ExportAssessments, "sent")
	s.logger.Info(ctx, "assessments exported", logger.Int("rows", len(rows)))
	return nil
}

// ExportPlayers emails the player overview and detailed history workbook.
func (s *Service) ExportPlayers(ctx context.Context, in ExportInput) error {
	const op = "service.export_players"

	if err := s.prepareExport(ctx, op, &in); err != nil {
		return s.exportFailed(ExportPlayers, err)
	}
	players, err := s.processedPlayers(ctx)
	if err != nil {
		return s.exportFailed(ExportPlayers, apperr.Wrap(op, err))
	}
	if len(players) == 0 {
		return s.exportFailed(ExportPlayers, apperr.Newf(op, apperr.ErrNotFound, "no players found to export"))
	}

	day := s.now()
	tables := []export.Table{export.PlayerOverviewRows(players), export.HistoryRows(players)}
	err = s.deliver(ctx, op, in.RecipientEmail, tables,
		export.PlayerHistorySubject(day), playersBody, export.PlayerHistoryFilename(day))
	if err != nil {
		return s.exportFailed(ExportPlayers, err)
	}
	metrics.RecordExport(ExportPlayers, "sent")
	s.logger.Info(ctx, "players exported", logger.Int("players", len(players)))
	return nil
}

// prepareExport checks the caller, the recipient and that email is configured.
func (s *Service) prepareExport(ctx context.Context, op string, in *ExportInput) error {
	if _, err := requireApproved(ctx, op); err != nil {
		return err
	}
	in.RecipientEmail = strings.TrimSpace(in.RecipientEmail)
	if err := checkStruct(*in).Err(); err != nil {
		return apperr.Wrap(op, err)
	}
	if c, ok := s.mailer.(interface{ Configured() bool }); ok && !c.Configured() {
		s.logger.Error(ctx, "export requested but the email API key is not set")
		return apperr.WrapKind(op, apperr.ErrExternal, mailer.ErrNotConfigured)
	}
	return nil
}

// deliver renders the workbook and emails it. Causes are logged; callers
// only see whether generation or delivery failed.
func (s *Service) deliver(ctx context.Context, op, to string, tables []export.Table, subject, body, filename string) error {
	data, err := s.generator.Generate(ctx, tables)
	if err != nil {
		s.logger.Error(ctx, "workbook generation failed", logger.Error(err))
		return apperr.WrapKind(op, apperr.ErrExternal, errors.New("failed to generate the export file"))
	}
	err = s.mailer.Send(ctx, mailer.Message{
		To:      to,
		Subject: subject,
		Body:    body,
		Attachment: &mailer.Attachment{
			Filename:    filename,
			ContentType: mailer.XLSXContentType,
			Content:     data,
		},
	})
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		return apperr.WrapKind(op, apperr.ErrExternal, mailer.ErrNotConfigured)
	case err != nil:
		s.logger.Error(ctx, "export email failed", logger.Error(err), logger.String("filename", filename))
		return apperr.WrapKind(op, apperr.ErrExternal, mailer.ErrSendFailed)
	}
	return nil
}

func (s *Service) exportFailed(kind string, err error) error {
	outcome := "failed"
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		outcome = "empty"
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrForbidden), errors.Is(err, apperr.ErrUnauthenticated):
		outcome = "rejected"
	}
	metrics.RecordExport(kind, outcome)
	return err
}
