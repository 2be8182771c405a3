package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/mickael234/projet-psah-sub003/internal/domain"
	"github.com/mickael234/projet-psah-sub003/internal/middleware"
)

// pathID binds the {id} path segment as a positive int64.
func pathID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id: %v", domain.ErrValidation, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: id must be positive", domain.ErrValidation)
	}
	return id, nil
}

// queryParam binds an optional form-style query parameter into dest.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("%w: invalid %s: %v", domain.ErrValidation, name, err)
	}
	return nil
}

// pageParams reads ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func pageParams(r *http.Request) (domain.PaginationParams, error) {
	var page, limit *int
	if err := queryParam(r, "page", &page); err != nil {
		return domain.PaginationParams{}, err
	}
	if err := queryParam(r, "limit", &limit); err != nil {
		return domain.PaginationParams{}, err
	}
	return domain.NewPaginationParams(page, limit), nil
}

var errEmptyBody = fmt.Errorf("%w: request body is required", domain.ErrValidation)

// decodeJSON reads a single JSON object into dst. Unknown fields are
// rejected so typos in field names surface as 400 instead of being ignored.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return errEmptyBody
		default:
			return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrValidation, err)
		}
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty.
func decodeOptionalJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := decodeJSON(r, dst)
	if errors.Is(err, errEmptyBody) {
		return nil
	}
	return err
}

// actor resolves the caller of an authenticated request. The principal comes
// from the bearer token; the actor is looked up fresh on every call.
func (s *Server) actor(r *http.Request) (domain.Actor, error) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		return domain.Actor{}, fmt.Errorf("%w: no authenticated principal", domain.ErrUnauthorized)
	}
	a, err := s.actors.Resolve(r.Context(), p)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("handler.actor: %w", err)
	}
	return a, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
