package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/care-portal-api/internal/model"
	"github.com/jwalitptl/care-portal-api/internal/repository"
	"github.com/jwalitptl/care-portal-api/internal/service/audit"
	"github.com/jwalitptl/care-portal-api/internal/service/event"
	"github.com/jwalitptl/care-portal-api/internal/service/stats"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
	"github.com/jwalitptl/care-portal-api/pkg/logger"
	"github.com/jwalitptl/care-portal-api/pkg/metrics"
	"github.com/jwalitptl/care-portal-api/pkg/validator"
)

// ApplicationServicer is the review workflow used by the HTTP layer
type ApplicationServicer interface {
	Submit(ctx context.Context, req *model.SubmitApplicationRequest, applicantID *uuid.UUID) (*model.ProviderApplication, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error)
	List(ctx context.Context, filter *model.ApplicationFilter) ([]*model.ProviderApplication, int, error)
	Review(ctx context.Context, id uuid.UUID, req *model.ReviewApplicationRequest, reviewerID uuid.UUID) (*model.ProviderApplication, error)
	ApproveAndProvision(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID) (*model.ProviderProfile, error)
	Resubmit(ctx context.Context, id uuid.UUID, req *model.ResubmitApplicationRequest, session *model.Session) (*model.ProviderApplication, error)
	Stats(ctx context.Context) (*model.ApplicationStats, error)
}

// ProfileInvalidator drops cached profiles after a role change
type ProfileInvalidator interface {
	Invalidate(id uuid.UUID)
}

type Deps struct {
	Applications repository.ApplicationRepository
	Providers    repository.ProviderProfileRepository
	Profiles     repository.ProfileRepository
	Tx           repository.Transactor
	Auditor      *audit.Service
	Events       event.Emitter
	Cache        ProfileInvalidator
	Validator    validator.Validator
	Metrics      *metrics.Metrics
	Logger       *logger.Logger
}

type Service struct {
	apps      repository.ApplicationRepository
	providers repository.ProviderProfileRepository
	profiles  repository.ProfileRepository
	tx        repository.Transactor
	auditor   *audit.Service
	events    event.Emitter
	cache     ProfileInvalidator
	validator validator.Validator
	metrics   *metrics.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(d Deps) *Service {
	if d.Validator == nil {
		d.Validator = validator.New()
	}
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewNop()
	}
	return &Service{
		apps:      d.Applications,
		providers: d.Providers,
		profiles:  d.Profiles,
		tx:        d.Tx,
		auditor:   d.Auditor,
		events:    d.Events,
		cache:     d.Cache,
		validator: d.Validator,
		metrics:   d.Metrics,
		logger:    d.Logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Submit validates and stores a new pending application. Nothing is written
// when validation fails.
func (s *Service) Submit(ctx context.Context, req *model.SubmitApplicationRequest, applicantID *uuid.UUID) (*model.ProviderApplication, error) {
	if req == nil {
		return nil, apperrors.Validation("application is required")
	}
	req.ProviderType = strings.ToLower(strings.TrimSpace(req.ProviderType))
	req.ContactPerson = strings.TrimSpace(req.ContactPerson)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.LicenseDocumentURL = strings.TrimSpace(req.LicenseDocumentURL)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	app := &model.ProviderApplication{
		ID:                 uuid.New(),
		ApplicantUserID:    applicantID,
		ProviderType:       model.ProviderType(req.ProviderType),
		ContactPerson:      req.ContactPerson,
		Email:              req.Email,
		Phone:              req.Phone,
		OrganizationName:   optional(req.OrganizationName),
		LicenseNumber:      optional(req.LicenseNumber),
		LicenseDocumentURL: optional(req.LicenseDocumentURL),
		Specialization:     optional(req.Specialization),
		ServicesOffered:    trimAll(req.ServicesOffered),
		Status:             model.ApplicationPending,
		SubmittedAt:        s.now(),
	}

	actor := uuid.Nil
	if applicantID != nil {
		actor = *applicantID
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.apps.Create(ctx, app); err != nil {
			return err
		}
		if err := s.auditor.Log(ctx, actor, model.AuditActionSubmit, model.AuditEntityApplication, app.ID, &audit.LogOptions{
			Metadata: map[string]interface{}{"provider_type": app.ProviderType},
		}); err != nil {
			return err
		}
		return s.events.Emit(ctx, model.EventApplicationSubmitted, s.eventFor(app, actor, ""))
	})
	if err != nil {
		s.logger.Error(err, "Failed to submit application", "application_id", app.ID.String())
		return nil, apperrors.Infrastructure("submit application", err)
	}
	return app, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.ProviderApplication, error) {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return nil, s.lookupError("application", err)
	}
	return app, nil
}

func (s *Service) List(ctx context.Context, filter *model.ApplicationFilter) ([]*model.ProviderApplication, int, error) {
	if filter == nil {
		filter = &model.ApplicationFilter{}
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.Validationf("unknown status %q", filter.Status)
	}
	if filter.ProviderType != "" && !filter.ProviderType.Valid() {
		return nil, 0, apperrors.Validationf("unknown provider type %q", filter.ProviderType)
	}
	filter.Pagination = filter.Pagination.Normalize()

	apps, total, err := s.apps.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Infrastructure("list applications", err)
	}
	return apps, total, nil
}

// Review applies an admin decision. Approvals are routed through
// ApproveAndProvision so a provider profile is always created with them.
func (s *Service) Review(ctx context.Context, id uuid.UUID, req *model.ReviewApplicationRequest, reviewerID uuid.UUID) (*model.ProviderApplication, error) {
	if req == nil {
		return nil, apperrors.Validation("decision is required")
	}
	decision := model.ReviewDecision(strings.TrimSpace(req.Decision))
	status, ok := decision.Status()
	if !ok {
		return nil, apperrors.Validationf("unknown decision %q", req.Decision)
	}
	feedback := strings.TrimSpace(req.Feedback)
	if status == model.ApplicationRejected && feedback == "" {
		return nil, apperrors.Validation("feedback is required when rejecting an application")
	}

	if status == model.ApplicationApproved {
		if _, err := s.approveAndProvision(ctx, id, reviewerID, true); err != nil {
			return nil, err
		}
		return s.Get(ctx, id)
	}

	var app *model.ProviderApplication
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.apps.GetForUpdate(ctx, id)
		if err != nil {
			return s.lookupError("application", err)
		}
		if !app.Status.Reviewable() {
			return apperrors.Statef("application is already %s", app.Status)
		}

		previous := app.Status
		s.markReviewed(app, status, reviewerID)
		if status == model.ApplicationRejected {
			app.RejectionReason = &feedback
		}
		app.Feedback = optional(feedback)

		if err := s.apps.Update(ctx, app); err != nil {
			return err
		}
		if err := s.auditor.Log(ctx, reviewerID, model.AuditActionReview, model.AuditEntityApplication, app.ID, &audit.LogOptions{
			Changes: map[string]interface{}{"from": previous, "to": app.Status, "feedback": feedback},
		}); err != nil {
			return err
		}
		return s.events.Emit(ctx, model.EventApplicationReviewed, s.eventFor(app, reviewerID, feedback))
	})
	if err != nil {
		return nil, s.wrap("review application", err)
	}

	s.metrics.ReviewDecisions.WithLabelValues(string(decision)).Inc()
	s.logger.Info("Application reviewed",
		"application_id", app.ID.String(),
		"decision", string(decision),
		"reviewer_id", reviewerID.String())
	return app, nil
}

// ApproveAndProvision approves the application and creates its provider
// profile in one transaction. Calling it again for the same application
// returns the existing profile without writing anything. An application that
// is already approved but has no profile gets one.
func (s *Service) ApproveAndProvision(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID) (*model.ProviderProfile, error) {
	return s.approveAndProvision(ctx, id, reviewerID, false)
}

// approveAndProvision with reviewable set refuses applications that are no
// longer pending or needs_revision, which is what an approved review decision
// requires.
func (s *Service) approveAndProvision(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID, reviewable bool) (*model.ProviderProfile, error) {
	var (
		profile  *model.ProviderProfile
		created  bool
		ownerID  uuid.UUID
		provType model.ProviderType
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		app, err := s.apps.GetForUpdate(ctx, id)
		if err != nil {
			return s.lookupError("application", err)
		}
		if reviewable && !app.Status.Reviewable() {
			return apperrors.Statef("application is already %s", app.Status)
		}

		existing, err := s.providers.GetByApplicationID(ctx, app.ID)
		switch {
		case err == nil:
			profile = existing
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if app.Status == model.ApplicationRejected {
			return apperrors.State("application was rejected and cannot be approved")
		}
		role, ok := app.ProviderType.Role()
		if !ok {
			return apperrors.Validationf("unknown provider type %q", app.ProviderType)
		}

		owner, err := s.resolveApplicant(ctx, app)
		if err != nil {
			return err
		}
		if other, err := s.providers.GetByUserID(ctx, owner.ID); err == nil {
			return apperrors.Statef("applicant already has provider profile %s", other.ID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		previous := app.Status
		if app.Status != model.ApplicationApproved {
			s.markReviewed(app, model.ApplicationApproved, reviewerID)
			if err := s.apps.Update(ctx, app); err != nil {
				return err
			}
			if err := s.auditor.Log(ctx, reviewerID, model.AuditActionReview, model.AuditEntityApplication, app.ID, &audit.LogOptions{
				Changes: map[string]interface{}{"from": previous, "to": app.Status},
			}); err != nil {
				return err
			}
			if err := s.events.Emit(ctx, model.EventApplicationReviewed, s.eventFor(app, reviewerID, "")); err != nil {
				return err
			}
		}

		profile = model.NewProviderProfile(app, owner.ID)
		if err := s.providers.Create(ctx, profile); err != nil {
			return err
		}
		if owner.Role != role {
			if err := s.profiles.UpdateRole(ctx, owner.ID, role); err != nil {
				return err
			}
		}
		if err := s.auditor.Log(ctx, reviewerID, model.AuditActionProvision, model.AuditEntityProviderProfile, profile.ID, &audit.LogOptions{
			Metadata: map[string]interface{}{"application_id": app.ID, "user_id": owner.ID, "role": role},
		}); err != nil {
			return err
		}
		if err := s.events.Emit(ctx, model.EventProviderProvisioned, s.eventFor(app, reviewerID, "")); err != nil {
			return err
		}

		created = true
		ownerID = owner.ID
		provType = app.ProviderType
		return nil
	})
	if err != nil {
		return nil, s.wrap("approve application", err)
	}

	if created {
		if s.cache != nil {
			s.cache.Invalidate(ownerID)
		}
		s.metrics.ReviewDecisions.WithLabelValues(string(model.DecisionApprove)).Inc()
		s.metrics.ProvidersProvisioned.WithLabelValues(string(provType)).Inc()
		s.logger.Info("Provider provisioned",
			"application_id", id.String(),
			"provider_profile_id", profile.ID.String(),
			"reviewer_id", reviewerID.String())
	}
	return profile, nil
}

// Resubmit moves a needs_revision application back to pending with corrected
// fields. Only the applicant or an admin may resubmit.
func (s *Service) Resubmit(ctx context.Context, id uuid.UUID, req *model.ResubmitApplicationRequest, session *model.Session) (*model.ProviderApplication, error) {
	if !session.Authenticated() {
		return nil, apperrors.Unauthorized(nil)
	}
	if req == nil {
		req = &model.ResubmitApplicationRequest{}
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	actor := session.ActorID()
	isAdmin := session.Profile != nil && session.Profile.Role == model.RoleAdmin

	var app *model.ProviderApplication
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.apps.GetForUpdate(ctx, id)
		if err != nil {
			return s.lookupError("application", err)
		}
		owns := app.ApplicantUserID != nil && *app.ApplicantUserID == actor
		if !owns && !isAdmin {
			return apperrors.Forbidden("only the applicant may resubmit this application")
		}
		if app.Status != model.ApplicationNeedsRevision {
			return apperrors.Statef("application is %s, only applications needing revision can be resubmitted", app.Status)
		}

		applyRevision(app, req)
		app.Status = model.ApplicationPending
		app.ReviewedAt = nil
		app.ReviewerID = nil
		app.SubmittedAt = s.now()

		if err := s.apps.Update(ctx, app); err != nil {
			return err
		}
		if err := s.auditor.Log(ctx, actor, model.AuditActionResubmit, model.AuditEntityApplication, app.ID, &audit.LogOptions{
			Changes: req,
		}); err != nil {
			return err
		}
		return s.events.Emit(ctx, model.EventApplicationResubmitted, s.eventFor(app, actor, ""))
	})
	if err != nil {
		return nil, s.wrap("resubmit application", err)
	}
	return app, nil
}

func applyRevision(app *model.ProviderApplication, req *model.ResubmitApplicationRequest) {
	if v := strings.TrimSpace(req.ContactPerson); v != "" {
		app.ContactPerson = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		app.Email = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		app.Phone = v
	}
	if v := optional(req.OrganizationName); v != nil {
		app.OrganizationName = v
	}
	if v := optional(req.LicenseNumber); v != nil {
		app.LicenseNumber = v
	}
	if v := optional(req.LicenseDocumentURL); v != nil {
		app.LicenseDocumentURL = v
	}
	if v := optional(req.Specialization); v != nil {
		app.Specialization = v
	}
	if services := trimAll(req.ServicesOffered); len(services) > 0 {
		app.ServicesOffered = services
	}
}

// Stats loads every application and provider profile and aggregates them
func (s *Service) Stats(ctx context.Context) (*model.ApplicationStats, error) {
	apps, err := s.apps.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Infrastructure("load applications", err)
	}
	profiles, err := s.providers.List(ctx, nil)
	if err != nil {
		return nil, apperrors.Infrastructure("load provider profiles", err)
	}
	out := stats.Aggregate(apps, profiles)
	return &out, nil
}

func (s *Service) markReviewed(app *model.ProviderApplication, status model.ApplicationStatus, reviewerID uuid.UUID) {
	now := s.now()
	app.Status = status
	app.ReviewedAt = &now
	if reviewerID != uuid.Nil {
		app.ReviewerID = &reviewerID
	} else {
		app.ReviewerID = nil
	}
}

// resolveApplicant finds the account that will own the provider profile:
// the submitting user when known, otherwise the account with the
// application's email.
func (s *Service) resolveApplicant(ctx context.Context, app *model.ProviderApplication) (*model.Profile, error) {
	var (
		owner *model.Profile
		err   error
	)
	if app.ApplicantUserID != nil {
		owner, err = s.profiles.Get(ctx, *app.ApplicantUserID)
	} else {
		owner, err = s.profiles.GetByEmail(ctx, app.Email)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Validationf("no account found for applicant %s; the applicant must register before approval", app.Email)
	}
	if err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *Service) eventFor(app *model.ProviderApplication, actor uuid.UUID, feedback string) model.ApplicationEvent {
	return model.ApplicationEvent{
		ApplicationID: app.ID,
		ProviderType:  app.ProviderType,
		Status:        app.Status,
		ContactPerson: app.ContactPerson,
		Email:         app.Email,
		Feedback:      feedback,
		ActorID:       actor,
		OccurredAt:    s.now(),
	}
}

func (s *Service) lookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Infrastructure(fmt.Sprintf("load %s", resource), err)
}

// wrap keeps taxonomy errors and classifies everything else as infrastructure
func (s *Service) wrap(op string, err error) error {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr
	}
	s.logger.Error(err, "Application workflow failed", "operation", op)
	return apperrors.Infrastructure(op, err)
}
