package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/service"
)

// uploadMemory is how much of a multipart form is kept in memory before
// spilling to temporary files.
const uploadMemory = 8 << 20

type createDocumentBody struct {
	DocumentType   string             `json:"document_type"`
	URL            string             `json:"url"`
	ExpirationDate openapi_types.Date `json:"expiration_date"`
	// PersonnelID is honoured for administrators only.
	PersonnelID *int64 `json:"personnel_id,omitempty"`
}

type validationBody struct {
	IsValid *bool `json:"is_valid"`
}

// CreateDocument handles POST /documents for files hosted elsewhere.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body createDocumentBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.documents.Create(r.Context(), actor, domain.DriverDocument{
		PersonnelID:    deref(body.PersonnelID),
		DocumentType:   domain.DocumentType(body.DocumentType),
		URL:            body.URL,
		ExpirationDate: body.ExpirationDate.Time,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// UploadDocument handles POST /documents/upload (multipart/form-data).
// Fields: file, document_type, expiration_date (YYYY-MM-DD), personnel_id.
func (s *Server) UploadDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: expected a multipart form: %v", domain.ErrValidation, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: file is required", domain.ErrValidation))
		return
	}
	defer file.Close()

	doc, err := documentFromForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.documents.Upload(r.Context(), actor, doc, service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func documentFromForm(r *http.Request) (domain.DriverDocument, error) {
	d := domain.DriverDocument{DocumentType: domain.DocumentType(strings.TrimSpace(r.FormValue("document_type")))}

	if v := strings.TrimSpace(r.FormValue("expiration_date")); v != "" {
		t, err := time.Parse(openapi_types.DateFormat, v)
		if err != nil {
			return d, fmt.Errorf("%w: expiration_date must be YYYY-MM-DD", domain.ErrValidation)
		}
		d.ExpirationDate = t
	}
	if v := strings.TrimSpace(r.FormValue("personnel_id")); v != "" {
		pid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return d, fmt.Errorf("%w: personnel_id must be an integer", domain.ErrValidation)
		}
		d.PersonnelID = pid
	}
	return d, nil
}

// ListDocuments handles GET /documents.
// Optional filters: ?personnel_id= and ?verified= (fleet managers and admins).
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var f service.DocumentFilter
	if err := queryParam(r, "personnel_id", &f.PersonnelID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := queryParam(r, "verified", &f.Verified); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := pageParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.documents.List(r.Context(), actor, f, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ValidateDocument handles PATCH /documents/{id}/validation.
func (s *Server) ValidateDocument(w http.ResponseWriter, r *http.Request) {
	actor, id, err := s.actorAndID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body validationBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.IsValid == nil {
		s.writeError(w, r, fmt.Errorf("%w: is_valid is required", domain.ErrValidation))
		return
	}

	out, err := s.documents.Validate(r.Context(), actor, id, *body.IsValid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
