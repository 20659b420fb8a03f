package registrations

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"registration-backend/internal/attachments"
	"registration-backend/internal/shared/storage/object"
	"registration-backend/internal/shared/telemetry"
)

// Service orchestrates the submission workflow: validate, create the stub
// record, upload attachments under the record's namespace, then patch the
// record with file metadata. A failed required upload rolls the stub back.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// SubmitResult is returned to the applicant on success.
type SubmitResult struct {
	RegistrationID string `json:"registrationId"`
	SubmittedAt    string `json:"submittedAt"`
}

// Submit runs one submission to a terminal state. Returned errors are either
// *ValidationError (reject, nothing persisted), *UpstreamError (storage-layer
// failure) or ErrNotFound wrapped cases from cleanup paths.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	reg, violations := in.validate()
	if len(violations) > 0 {
		return SubmitResult{}, &ValidationError{Violations: violations}
	}

	// The stub record is created first so uploaded file keys can be
	// namespaced by its identifier.
	id, err := s.Repo.Create(ctx, reg)
	if err != nil {
		return SubmitResult{}, &UpstreamError{Op: "create registration", Err: err}
	}

	if idCardViolations := attachments.Validate(attachments.FieldIDCard, fileMeta(in.Files[attachments.FieldIDCard])); len(idCardViolations) > 0 {
		s.cleanup(ctx, id, nil)
		return SubmitResult{}, &ValidationError{Violations: idCardViolations}
	}

	idCard := in.Files[attachments.FieldIDCard]
	uploaded, err := s.Store.Upload(ctx, s.folder(id, attachments.FieldIDCard), object.FileInput{
		OriginalName: idCard.OriginalName,
		MimeType:     idCard.MimeType,
		Size:         idCard.Size,
		Content:      idCard.Content,
	})
	if err != nil {
		s.cleanup(ctx, id, nil)
		return SubmitResult{}, &UpstreamError{Op: "upload idCard", Err: err}
	}

	files := map[string]object.UploadedFile{attachments.FieldIDCard: uploaded}
	s.uploadOptional(ctx, id, in.Files, files)

	if err := s.Repo.Update(ctx, id, map[string]any{"files": files}); err != nil {
		// The record exists and its attachments are stored; losing the file
		// references now is fatal for this submission.
		return SubmitResult{}, &UpstreamError{Op: "attach file metadata", Err: err}
	}

	created, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return SubmitResult{}, &UpstreamError{Op: "read back registration", Err: err}
	}
	return SubmitResult{RegistrationID: id, SubmittedAt: created.SubmittedAt}, nil
}

// uploadOptional uploads the optional attachments concurrently. A violation
// or upload failure on an optional file never aborts the submission; the file
// is logged and recorded absent.
func (s *Service) uploadOptional(ctx context.Context, id string, ins map[string]*UploadInput, files map[string]object.UploadedFile) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, field := range attachments.Fields() {
		if field == attachments.FieldIDCard {
			continue
		}
		in := ins[field]
		if in == nil {
			continue
		}
		if violations := attachments.Validate(field, fileMeta(in)); len(violations) > 0 {
			telemetry.Warn("submission.optional_file.invalid", map[string]any{
				"registration_id": id,
				"field":           field,
				"violations":      strings.Join(violations, "; "),
			})
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			uploaded, err := s.Store.Upload(ctx, s.folder(id, field), object.FileInput{
				OriginalName: in.OriginalName,
				MimeType:     in.MimeType,
				Size:         in.Size,
				Content:      in.Content,
			})
			if err != nil {
				telemetry.Warn("submission.optional_file.upload_failed", map[string]any{
					"registration_id": id,
					"field":           field,
					"err":             err.Error(),
				})
				return
			}
			mu.Lock()
			files[field] = uploaded
			mu.Unlock()
		}()
	}
	wg.Wait()
}

// Delete removes a registration and best-effort releases its attachments.
// Attachment-store failures never block the record deletion.
func (s *Service) Delete(ctx context.Context, id string) error {
	reg, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if keys := reg.AttachmentKeys(); len(keys) > 0 {
		if err := object.DeleteMany(ctx, s.Store, keys); err != nil {
			telemetry.Warn("registration.attachments.delete_failed", map[string]any{
				"registration_id": id,
				"err":             err.Error(),
			})
		}
	}
	return nil
}

// CheckEmail reports whether any registration already uses the address. It is
// advisory only; submissions with a duplicate email are still accepted.
func (s *Service) CheckEmail(ctx context.Context, email string) (bool, error) {
	regs, err := s.Repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, err
	}
	return len(regs) > 0, nil
}

// cleanup compensates a failed submission: the stub record and any uploaded
// attachments are removed best-effort. Cleanup failures are logged, never
// surfaced, so they cannot mask the original error.
func (s *Service) cleanup(ctx context.Context, id string, keys []string) {
	if err := s.Repo.Delete(ctx, id); err != nil {
		telemetry.Warn("submission.cleanup.record_failed", map[string]any{
			"registration_id": id,
			"err":             err.Error(),
		})
	}
	if len(keys) > 0 {
		if err := object.DeleteMany(ctx, s.Store, keys); err != nil {
			telemetry.Warn("submission.cleanup.attachments_failed", map[string]any{
				"registration_id": id,
				"err":             err.Error(),
			})
		}
	}
}

func (s *Service) folder(id, field string) string {
	return fmt.Sprintf("registrations/%s/%s", id, field)
}

func fileMeta(in *UploadInput) *attachments.File {
	if in == nil {
		return nil
	}
	return &attachments.File{
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		Size:         in.Size,
	}
}
