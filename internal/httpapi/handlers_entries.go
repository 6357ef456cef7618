package httpapi

import (
	"net/http"

	"matchTracker/internal/registry"
	"matchTracker/internal/validate"
)

type idResponse struct {
	ID int64 `json:"id"`
}

type rowsAffectedResponse struct {
	RowsAffected int64 `json:"rows_affected"`
}

// decodeValid decodes the body into req and runs struct validation.
func decodeValid(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := decodeJSON(w, r, req); err != nil {
		writeError(w, r, err)
		return false
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	var req validate.TableRequest
	if !decodeValid(w, r, &req) {
		return
	}
	td, err := registry.Resolve(req.TableName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := s.deps.Entries.List(r.Context(), td)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// resolveEntry validates the table and key shared by get and delete.
func resolveEntry(req validate.EntryRequest) (registry.TableDescriptor, any, error) {
	td, err := registry.Resolve(req.TableName)
	if err != nil {
		return registry.TableDescriptor{}, nil, err
	}
	id, err := validate.ID("id", req.ID)
	if err != nil {
		return registry.TableDescriptor{}, nil, err
	}
	return td, id, nil
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	var req validate.EntryRequest
	if !decodeValid(w, r, &req) {
		return
	}
	td, id, err := resolveEntry(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := s.deps.Entries.Get(r.Context(), td, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) insertEntry(w http.ResponseWriter, r *http.Request) {
	var req validate.InsertRequest
	if !decodeValid(w, r, &req) {
		return
	}
	td, err := registry.Resolve(req.TableName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	values, err := validate.InsertPayload(td, req.Entry)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := s.deps.Entries.Insert(r.Context(), td, values)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req validate.UpdateRequest
	if !decodeValid(w, r, &req) {
		return
	}
	td, err := registry.Resolve(req.TableName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := validate.ID("id", req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	values, err := validate.UpdatePayload(td, req.UpdateColms)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := s.deps.Entries.Update(r.Context(), td, id, values)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsAffectedResponse{RowsAffected: n})
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	var req validate.EntryRequest
	if !decodeValid(w, r, &req) {
		return
	}
	td, id, err := resolveEntry(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n, err := s.deps.Entries.Delete(r.Context(), td, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rowsAffectedResponse{RowsAffected: n})
}
