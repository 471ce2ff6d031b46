package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
)

// parsePageParams reads page and pageSize query parameters. Unparseable
// values silently fall back to the defaults.
func parsePageParams(r *http.Request) store.PageParams {
	params := store.DefaultPageParams()
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		params.Page = page
	}
	if pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil {
		params.PageSize = pageSize
	}
	return params.Normalize()
}

// handleListBlogs returns a page of blogs as a bare array.
func (s *Server) handleListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := s.blogService.ListBlogs(r.Context(), parsePageParams(r))
	if err != nil {
		s.logger.Error("Failed to list blogs", "error", err)
		response.Message(w, http.StatusInternalServerError, errorMessage(err), s.logger)
		return
	}

	if blogs == nil {
		blogs = []*domain.Blog{}
	}
	response.JSON(w, http.StatusOK, blogs, s.logger)
}

// handleGetBlog returns a single blog document. Fetching counts as a read.
// Errors answer 200 with a message body.
func (s *Server) handleGetBlog(w http.ResponseWriter, r *http.Request) {
	blogID := chi.URLParam(r, "id")

	blog, err := s.blogService.GetBlog(r.Context(), blogID)
	if err != nil {
		response.Message(w, http.StatusOK, errorMessage(err), s.logger)
		return
	}

	response.JSON(w, http.StatusOK, blog, s.logger)
}

// handleCreateBlog creates a draft blog owned by the authenticated user.
func (s *Server) handleCreateBlog(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBlogRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Message(w, http.StatusInternalServerError, "Invalid request body", s.logger)
		return
	}

	blog, err := s.blogService.CreateBlog(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.Message(w, http.StatusInternalServerError, errorMessage(err), s.logger)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"message": "Blog created",
		"data":    map[string]any{"blog": blog},
	}, s.logger)
}

// handleEditBlog applies a partial update to a blog. A missing blog answers
// 404; every other failure, ownership included, answers 500.
func (s *Server) handleEditBlog(w http.ResponseWriter, r *http.Request) {
	blogID := chi.URLParam(r, "id")

	var req service.UpdateBlogRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Message(w, http.StatusInternalServerError, "Invalid request body", s.logger)
		return
	}

	blog, err := s.blogService.EditBlog(r.Context(), blogID, getUserID(r.Context()), req)
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrNotFound) {
			response.Message(w, http.StatusNotFound, "Blog not found", s.logger)
			return
		}
		response.Message(w, http.StatusInternalServerError, errorMessage(err), s.logger)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"message": "Blog Updated successfully",
		"data":    map[string]any{"updatedBlog": blog},
	}, s.logger)
}

// handleDeleteBlog removes a blog owned by the authenticated user.
func (s *Server) handleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	blogID := chi.URLParam(r, "id")

	err := s.blogService.DeleteBlog(r.Context(), blogID, getUserID(r.Context()))
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrForbidden) {
			response.ErrorJSON(w, http.StatusForbidden, errorMessage(err), s.logger)
			return
		}
		response.ErrorJSON(w, http.StatusNotFound, errorMessage(err), s.logger)
		return
	}

	response.Message(w, http.StatusOK, "Blog deleted successfully.", s.logger)
}

// handleUpdateBlogState transitions a blog's state. Success answers with
// the bare updated document; errors answer 200 with a message body.
func (s *Server) handleUpdateBlogState(w http.ResponseWriter, r *http.Request) {
	blogID := chi.URLParam(r, "id")

	var req struct {
		State string `json:"state"`
	}
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Message(w, http.StatusOK, "Invalid request body", s.logger)
		return
	}

	blog, err := s.blogService.UpdateBlogState(r.Context(), blogID, getUserID(r.Context()), domain.BlogState(req.State))
	if err != nil {
		response.Message(w, http.StatusOK, errorMessage(err), s.logger)
		return
	}

	response.JSON(w, http.StatusOK, blog, s.logger)
}
