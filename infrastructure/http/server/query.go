package server

import (
	"blog-bus/domain"
	"log/slog"
	"net/http"
)

// PostReader is the read side of the materialized view.
type PostReader interface {
	All() map[domain.ID]domain.Post
	ByID(id domain.ID) (domain.Post, bool)
}

type QueryHandler struct {
	log   *slog.Logger
	posts PostReader
}

func NewQueryHandler(log *slog.Logger, posts PostReader) *QueryHandler {
	return &QueryHandler{log: log, posts: posts}
}

// ListPosts serves the whole projection keyed by post id.
func (h *QueryHandler) ListPosts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.posts.All())
}

func (h *QueryHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(r.PathValue("id"))
	post, ok := h.posts.ByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}
