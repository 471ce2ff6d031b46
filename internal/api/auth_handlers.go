package api

import (
	"encoding/json/v2"
	"errors"
	"net/http"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// errorMessage extracts the client-facing message from a domain error.
func errorMessage(err error) string {
	var derr *domainerrors.Error
	if errors.As(err, &derr) {
		return derr.Message
	}
	return err.Error()
}

// handleSignUp registers a new user account.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body", s.logger)
		return
	}

	summary, err := s.authService.SignUp(r.Context(), req)
	if err != nil {
		response.Message(w, http.StatusBadRequest, errorMessage(err), s.logger)
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"data":    summary,
	}, s.logger)
}

// handleSignIn authenticates a user and issues an access token.
// Every failure answers 401, whatever its cause.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req service.SignInRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.Message(w, http.StatusUnauthorized, "Invalid request body", s.logger)
		return
	}

	user, token, err := s.authService.SignIn(r.Context(), req)
	if err != nil {
		response.Message(w, http.StatusUnauthorized, errorMessage(err), s.logger)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"message": "Logged in successfully",
		"user":    user.Summary(),
		"token":   token,
	}, s.logger)
}

// handleListUserBlogs returns every blog owned by the authenticated user.
func (s *Server) handleListUserBlogs(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r.Context())

	blogs, err := s.blogService.ListUserBlogs(r.Context(), userID)
	if err != nil {
		s.logger.Error("Failed to list user blogs", "error", err, "user_id", userID)
		response.ErrorJSON(w, http.StatusInternalServerError, errorMessage(err), s.logger)
		return
	}

	if blogs == nil {
		blogs = []*domain.Blog{}
	}
	response.JSON(w, http.StatusOK, blogs, s.logger)
}
