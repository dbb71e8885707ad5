package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tablemap/tablemap/core"
	"github.com/tablemap/tablemap/index"
	"github.com/tablemap/tablemap/search"
)

// resultPayload is one search hit on the wire.
type resultPayload struct {
	Id            core.ID  `json:"id"`
	ObjectType    string   `json:"object_type"`
	ObjectName    string   `json:"object_name"`
	ParentTable   string   `json:"parent_table,omitempty"`
	QualifiedName string   `json:"qualified_name"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags,omitempty"`
	Score         float32  `json:"score"`
	Distance      float32  `json:"distance"`
}

// searchPayload is the body of a successful search response.
type searchPayload struct {
	Status   string          `json:"status"`
	Query    string          `json:"query"`
	Count    int             `json:"count"`
	Reranked bool            `json:"reranked"`
	Results  []resultPayload `json:"results"`
	Message  string          `json:"message,omitempty"`
}

// errorPayload is the body of every error response.
type errorPayload struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	opts := search.Options{Rerank: true}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			s.writeError(w, http.StatusBadRequest, "invalid_query", "limit must be a positive integer")
			return
		}
		opts.Limit = limit
	}
	if v := r.URL.Query().Get("rerank"); v != "" {
		rerank, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid_query", "rerank must be a boolean")
			return
		}
		opts.Rerank = rerank
	}

	resp, err := s.searcher.Search(r.Context(), query, opts)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			s.writeError(w, http.StatusBadRequest, "invalid_query", "query parameter q is required")
		case errors.Is(err, search.ErrEmbeddingFailed):
			s.writeError(w, http.StatusBadGateway, "embedding_failure", err.Error())
		default:
			s.logger.Error("search failed", "err", err)
			s.writeError(w, http.StatusInternalServerError, "internal", "search failed")
		}
		return
	}

	payload := searchPayload{
		Status:   string(resp.Status),
		Query:    query,
		Count:    len(resp.Results),
		Reranked: resp.Reranked,
		Results:  make([]resultPayload, len(resp.Results)),
	}
	for i, result := range resp.Results {
		item := result.Item
		payload.Results[i] = resultPayload{
			Id:            item.Id,
			ObjectType:    item.ObjectType.String(),
			ObjectName:    item.ObjectName,
			ParentTable:   item.ParentTableName,
			QualifiedName: item.QualifiedName(),
			Description:   item.Description,
			Tags:          item.Tags,
			Score:         result.Score,
			Distance:      result.Distance,
		}
	}

	switch resp.Status {
	case search.StatusUnavailable:
		payload.Message = "index has not been loaded yet"
		s.writeJSON(w, http.StatusServiceUnavailable, payload)
	case search.StatusEmptyIndex:
		payload.Message = "no catalog items are indexed"
		s.writeJSON(w, http.StatusOK, payload)
	default:
		s.writeJSON(w, http.StatusOK, payload)
	}
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.indexService.Reload(r.Context()); err != nil {
		s.logger.Error("index reload failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "reload_failed", err.Error())
		return
	}

	gen := s.indexService.Active()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "reloaded",
		"items":         gen.Len(),
		"model_version": gen.ModelVersion(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	indexInfo := map[string]any{
		"state": s.indexService.State().String(),
	}
	if gen := s.indexService.Active(); gen != nil {
		indexInfo["items"] = gen.Len()
		indexInfo["model_version"] = gen.ModelVersion()
		indexInfo["dimension"] = gen.Dimension()
	}

	status := http.StatusOK
	if s.indexService.State() != index.StateReady {
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, map[string]any{
		"status": statusWord(status),
		"index":  indexInfo,
	})
}

func statusWord(httpStatus int) string {
	if httpStatus == http.StatusOK {
		return "ok"
	}
	return "unavailable"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	var payload errorPayload
	payload.Error.Kind = kind
	payload.Error.Message = message
	s.writeJSON(w, status, payload)
}
