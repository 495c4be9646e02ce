package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-configstatus/internal/metadata"
)

// MetadataRequest is the body of PUT /metadata/{namespace}/{item}.
type MetadataRequest struct {
	Value         string         `json:"value"`
	Configuration map[string]any `json:"configuration"`
}

func metadataKey(r *http.Request) metadata.Key {
	return metadata.NewKey(chi.URLParam(r, "namespace"), chi.URLParam(r, "item"))
}

// handleListMetadata lists metadata, optionally filtered by ?item= and
// ?namespace=.
func (s *Server) handleListMetadata(w http.ResponseWriter, r *http.Request) {
	var preds []metadata.Predicate
	if item := r.URL.Query().Get("item"); item != "" {
		preds = append(preds, metadata.OfItem(item))
	}
	if ns := r.URL.Query().Get("namespace"); ns != "" {
		preds = append(preds, metadata.HasNamespace(ns))
	}

	entries, err := s.metadata.Find(r.Context(), metadata.All(preds...))
	if err != nil {
		s.writeDomainError(w, err, "failed to list metadata")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"metadata": entries, "count": len(entries)})
}

// handleGetMetadata returns a single entry.
func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	key := metadataKey(r)
	if err := key.Validate(); err != nil {
		s.writeDomainError(w, err, "invalid key")
		return
	}

	m, err := s.metadata.Get(r.Context(), key)
	if err != nil {
		s.writeDomainError(w, err, "failed to get metadata")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handlePutMetadata creates or replaces an entry. It answers 201 for a new
// entry and 200 for a replacement.
func (s *Server) handlePutMetadata(w http.ResponseWriter, r *http.Request) {
	var req MetadataRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	m, err := metadata.New(metadataKey(r), req.Value, req.Configuration)
	if err != nil {
		s.writeDomainError(w, err, "invalid metadata")
		return
	}

	_, existed, err := s.metadata.Put(r.Context(), m)
	if err != nil {
		s.writeDomainError(w, err, "failed to store metadata")
		return
	}

	stored, err := s.metadata.Get(r.Context(), m.Key)
	if err != nil {
		s.writeDomainError(w, err, "failed to read stored metadata")
		return
	}

	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, stored)
}

// handleDeleteMetadata removes a single entry and returns it.
func (s *Server) handleDeleteMetadata(w http.ResponseWriter, r *http.Request) {
	key := metadataKey(r)
	if err := key.Validate(); err != nil {
		s.writeDomainError(w, err, "invalid key")
		return
	}

	removed, err := s.metadata.Remove(r.Context(), key)
	if err != nil {
		s.writeDomainError(w, err, "failed to remove metadata")
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

// handleDeleteItemMetadata removes every namespace attached to an item.
func (s *Server) handleDeleteItemMetadata(w http.ResponseWriter, r *http.Request) {
	item := chi.URLParam(r, "item")

	removed, err := s.metadata.RemoveItemMetadata(r.Context(), item)
	if err != nil {
		s.writeDomainError(w, err, "failed to remove item metadata")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed, "count": len(removed)})
}
