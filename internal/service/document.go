package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mickael234/projet-psah-sub003/internal/access"
	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/events"
	"github.com/mickael234/projet-psah-sub003/internal/repo"
	"github.com/mickael234/projet-psah-sub003/internal/storage"
	"github.com/mickael234/projet-psah-sub003/internal/transition"
)

// Upload is a document file streamed from the client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// DocumentFilter narrows a document listing. Nil fields do not filter.
type DocumentFilter struct {
	PersonnelID *int64
	Verified    *bool
}

// DocumentService manages driver documents and their validation.
type DocumentService struct {
	docs   repo.DocumentRepo
	store  storage.Store
	notify notifier
}

// NewDocumentService constructs a DocumentService. store may be nil when
// uploads are disabled.
func NewDocumentService(docs repo.DocumentRepo, store storage.Store, pub events.Publisher) *DocumentService {
	return &DocumentService{docs: docs, store: store, notify: newNotifier(pub)}
}

// Create records a document whose file is already hosted at d.URL.
func (s *DocumentService) Create(ctx context.Context, actor domain.Actor, d domain.DriverDocument) (domain.DriverDocument, error) {
	d.URL = strings.TrimSpace(d.URL)
	if d.URL == "" {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Create: %w: url is required", domain.ErrValidation)
	}
	d, err := s.prepare(actor, d)
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Create: %w", err)
	}

	out, err := s.docs.Create(ctx, d)
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Create: %w", err)
	}
	return out, nil
}

// Upload stores the file first and records the document under the returned URL.
func (s *DocumentService) Upload(ctx context.Context, actor domain.Actor, d domain.DriverDocument, f Upload) (domain.DriverDocument, error) {
	if s.store == nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Upload: %w: uploads are disabled", domain.ErrValidation)
	}
	if f.Body == nil || strings.TrimSpace(f.Filename) == "" {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Upload: %w: file is required", domain.ErrValidation)
	}
	d, err := s.prepare(actor, d)
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Upload: %w", err)
	}

	folder := fmt.Sprintf("documents/%d", d.PersonnelID)
	url, err := s.store.Put(ctx, folder, f.Filename, f.ContentType, f.Body)
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Upload: %w", err)
	}
	d.URL = url

	out, err := s.docs.Create(ctx, d)
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Upload: %w", err)
	}
	return out, nil
}

func (s *DocumentService) prepare(actor domain.Actor, d domain.DriverDocument) (domain.DriverDocument, error) {
	t, err := domain.ParseDocumentType(string(d.DocumentType))
	if err != nil {
		return d, err
	}
	d.DocumentType = t
	if d.ExpirationDate.IsZero() {
		return d, fmt.Errorf("%w: expiration_date is required", domain.ErrValidation)
	}
	if err := access.Authorize(actor, access.DocumentCreate, access.Resource{}); err != nil {
		return d, err
	}
	d.PersonnelID = subjectPersonnel(actor, d.PersonnelID)
	d.Verified = false
	return d, nil
}

// List returns every document (optionally filtered) for roles that may see
// all of them, and only the actor's own documents otherwise.
func (s *DocumentService) List(ctx context.Context, actor domain.Actor, f DocumentFilter, p domain.PaginationParams) (domain.Page[domain.DriverDocument], error) {
	var (
		items []domain.DriverDocument
		total int64
		err   error
	)
	switch {
	case access.Can(actor.Role, access.DocumentListAny) && f.PersonnelID != nil:
		items, total, err = s.docs.ListByPersonnelPaged(ctx, *f.PersonnelID, p)
	case access.Can(actor.Role, access.DocumentListAny):
		items, total, err = s.docs.ListAllPaged(ctx, f.Verified, p)
	case access.Can(actor.Role, access.DocumentListOwn):
		items, total, err = s.docs.ListByPersonnelPaged(ctx, actor.ID, p)
	default:
		err = access.Authorize(actor, access.DocumentListOwn, access.Resource{})
	}
	if err != nil {
		return domain.Page[domain.DriverDocument]{}, fmt.Errorf("service.DocumentService.List: %w", err)
	}
	return domain.NewPage(items, p, total), nil
}

// Validate records a verification decision. The owner of a document can never
// validate it; re-validation overwrites the previous outcome.
func (s *DocumentService) Validate(ctx context.Context, actor domain.Actor, id int64, isValid bool) (domain.DriverDocument, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Validate: %w", err)
	}
	if err := access.Authorize(actor, access.DocumentValidate, access.Resource{PersonnelID: doc.PersonnelID}); err != nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Validate: %w", err)
	}

	out, err := s.docs.SetVerification(ctx, doc.ID, transition.ValidateDocument(doc, isValid), actor.ID)
	if err != nil {
		return domain.DriverDocument{}, fmt.Errorf("service.DocumentService.Validate: %w", err)
	}
	s.notify.emit(ctx, events.DocumentValidated, out.ID, actor, map[string]bool{"verified": out.Verified})
	return out, nil
}
