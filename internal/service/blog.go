package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/id"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// BlogService handles blog creation, reading, editing, and deletion.
type BlogService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBlogService creates a new blog service.
func NewBlogService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *BlogService {
	return &BlogService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateBlogRequest contains the data for a new blog post.
type CreateBlogRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
}

// UpdateBlogRequest contains partial updates for an existing blog post.
// Nil fields are left unchanged.
type UpdateBlogRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Body        *string   `json:"body"`
	Tags        *[]string `json:"tags"`
}

// CreateBlog creates a draft blog post owned by the given author.
func (s *BlogService) CreateBlog(ctx context.Context, authorID string, req CreateBlogRequest) (*domain.Blog, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	blogID, err := id.Generate("blog")
	if err != nil {
		return nil, fmt.Errorf("generate blog ID: %w", err)
	}

	blog := &domain.Blog{
		Record: domain.Record{
			ID: blogID,
		},
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		Tags:        req.Tags,
		AuthorID:    authorID,
		ReadCount:   0,
		State:       domain.BlogStateDraft,
	}
	blog.InitTimestamps()

	if err := s.store.CreateBlog(ctx, blog); err != nil {
		return nil, domainerrors.StoreFailure(err)
	}

	if s.logger != nil {
		s.logger.Info("Blog created", "blog_id", blogID, "author_id", authorID)
	}

	return blog, nil
}

// ListBlogs returns a page of blogs.
func (s *BlogService) ListBlogs(ctx context.Context, params store.PageParams) ([]*domain.Blog, error) {
	blogs, err := s.store.ListBlogs(ctx, params)
	if err != nil {
		return nil, domainerrors.StoreFailure(err)
	}
	return blogs, nil
}

// ListUserBlogs returns every blog owned by the given user.
func (s *BlogService) ListUserBlogs(ctx context.Context, userID string) ([]*domain.Blog, error) {
	blogs, err := s.store.ListBlogsByAuthor(ctx, userID)
	if err != nil {
		return nil, domainerrors.StoreFailure(err)
	}
	return blogs, nil
}

// GetBlog fetches a single blog. Every successful fetch counts as a read
// and bumps the blog's read count before it is returned.
func (s *BlogService) GetBlog(ctx context.Context, blogID string) (*domain.Blog, error) {
	blog, err := s.store.GetBlogIncrementingReads(ctx, blogID)
	if err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, domainerrors.NotFound("Blog not found")
		}
		return nil, domainerrors.StoreFailure(err)
	}
	return blog, nil
}

// EditBlog applies a partial update to a blog owned by the requester.
// Editing the body also counts as a read, so a body change bumps the read
// count alongside the content.
func (s *BlogService) EditBlog(ctx context.Context, blogID, requesterID string, req UpdateBlogRequest) (*domain.Blog, error) {
	blog, err := s.store.GetBlog(ctx, blogID)
	if err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, domainerrors.NotFound("Blog not found")
		}
		return nil, domainerrors.StoreFailure(err)
	}

	if !blog.IsAuthor(requesterID) {
		return nil, domainerrors.Forbidden("You are not authorized to edit this blog")
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Description != nil {
		blog.Description = *req.Description
	}
	if req.Body != nil {
		blog.Body = *req.Body
		blog.ReadCount++
	}
	if req.Tags != nil {
		blog.Tags = *req.Tags
	}
	blog.Touch()

	if err := s.store.UpdateBlog(ctx, blog); err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, domainerrors.NotFound("Blog not found")
		}
		return nil, domainerrors.StoreFailure(err)
	}

	if s.logger != nil {
		s.logger.Info("Blog updated", "blog_id", blogID, "author_id", requesterID)
	}

	return blog, nil
}

// DeleteBlog removes a blog owned by the requester.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID, requesterID string) error {
	blog, err := s.store.GetBlog(ctx, blogID)
	if err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return domainerrors.NotFound("Blog not found")
		}
		return domainerrors.StoreFailure(err)
	}

	if !blog.IsAuthor(requesterID) {
		return domainerrors.Forbidden("Forbidden. You are not the owner of this blog.")
	}

	// The ownership check above and the delete below are separate store
	// calls, so the conditional delete re-checks ownership and collapses
	// "gone" and "not yours" into one answer.
	if err := s.store.DeleteBlogByAuthor(ctx, blogID, requesterID); err != nil {
		if errors.Is(err, store.ErrBlogNotFoundOrNotOwned) {
			return domainerrors.NotFoundOrForbidden("Blog not found or you are not authorized to delete this blog")
		}
		return domainerrors.StoreFailure(err)
	}

	if s.logger != nil {
		s.logger.Info("Blog deleted", "blog_id", blogID, "author_id", requesterID)
	}

	return nil
}

// UpdateBlogState transitions a blog to the given state. Only "published"
// is accepted as a target. Any authenticated user may publish any blog;
// ownership is not checked here.
func (s *BlogService) UpdateBlogState(ctx context.Context, blogID, requesterID string, state domain.BlogState) (*domain.Blog, error) {
	if state != domain.BlogStatePublished {
		return nil, domainerrors.InvalidState("Invalid state")
	}

	blog, err := s.store.GetBlog(ctx, blogID)
	if err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, domainerrors.NotFound("Blog not found")
		}
		return nil, domainerrors.StoreFailure(err)
	}

	blog.State = state
	blog.Touch()

	if err := s.store.UpdateBlog(ctx, blog); err != nil {
		if errors.Is(err, store.ErrBlogNotFound) {
			return nil, domainerrors.NotFound("Blog not found")
		}
		return nil, domainerrors.StoreFailure(err)
	}

	if s.logger != nil {
		s.logger.Info("Blog state updated",
			"blog_id", blogID,
			"state", string(state),
			"requested_by", requesterID,
		)
	}

	return blog, nil
}
