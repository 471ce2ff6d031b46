package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

const (
	blogPrefix      = "blog:"
	blogAuthorIndex = "idx:blogs:author:"
)

var (
	// ErrBlogNotFound is returned when a blog doesn't exist.
	ErrBlogNotFound = errors.New("blog not found")
	// ErrBlogNotFoundOrNotOwned is returned by the conditional delete when
	// the blog is missing or belongs to someone else; callers cannot tell
	// the two cases apart.
	ErrBlogNotFoundOrNotOwned = errors.New("blog not found or not owned")
)

// blogKey generates the primary key for a blog.
func blogKey(id string) []byte {
	return []byte(blogPrefix + id)
}

// blogAuthorKey generates the author index key for a blog. The index is
// multi-valued: one key per (author, blog) pair.
func blogAuthorKey(authorID, blogID string) []byte {
	return []byte(blogAuthorIndex + authorID + ":" + blogID)
}

// CreateBlog stores a new blog and its author index entry.
func (s *Store) CreateBlog(ctx context.Context, blog *domain.Blog) error {
	data, err := marshalDoc(blog)
	if err != nil {
		return fmt.Errorf("failed to marshal blog: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(blogKey(blog.ID), data); err != nil {
			return err
		}
		return txn.Set(blogAuthorKey(blog.AuthorID, blog.ID), nil)
	})
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	s.logger.Info("Blog created", "blogID", blog.ID, "authorID", blog.AuthorID)
	return nil
}

// GetBlog retrieves a blog by ID without touching its read count.
func (s *Store) GetBlog(ctx context.Context, id string) (*domain.Blog, error) {
	var blog domain.Blog
	err := s.get(blogKey(id), &blog)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return &blog, nil
}

// GetBlogIncrementingReads retrieves a blog and bumps its read count in the
// same transaction, so concurrent readers never lose an increment.
func (s *Store) GetBlogIncrementingReads(ctx context.Context, id string) (*domain.Blog, error) {
	var blog domain.Blog
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(blogKey(id))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return unmarshalDoc(val, &blog)
		}); err != nil {
			return err
		}

		blog.ReadCount++
		data, err := marshalDoc(&blog)
		if err != nil {
			return err
		}
		return txn.Set(blogKey(id), data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog: %w", err)
	}
	return &blog, nil
}

// UpdateBlog replaces a stored blog document. The caller is expected to have
// fetched the current document first; the last write wins.
func (s *Store) UpdateBlog(ctx context.Context, blog *domain.Blog) error {
	data, err := marshalDoc(blog)
	if err != nil {
		return fmt.Errorf("failed to marshal blog: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(blogKey(blog.ID)); err != nil {
			return err
		}
		return txn.Set(blogKey(blog.ID), data)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrBlogNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	return nil
}

// DeleteBlogByAuthor deletes a blog only if it exists and belongs to the
// given author. A missing blog and a foreign blog produce the same error.
func (s *Store) DeleteBlogByAuthor(ctx context.Context, id, authorID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(blogKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBlogNotFoundOrNotOwned
		}
		if err != nil {
			return err
		}

		var blog domain.Blog
		if err := item.Value(func(val []byte) error {
			return unmarshalDoc(val, &blog)
		}); err != nil {
			return err
		}
		if !blog.IsAuthor(authorID) {
			return ErrBlogNotFoundOrNotOwned
		}

		if err := txn.Delete(blogKey(id)); err != nil {
			return err
		}
		return txn.Delete(blogAuthorKey(blog.AuthorID, id))
	})
	if err != nil {
		if errors.Is(err, ErrBlogNotFoundOrNotOwned) {
			return err
		}
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	s.logger.Info("Blog deleted", "blogID", id, "authorID", authorID)
	return nil
}

// ListBlogs returns a page of blogs in the store's natural key order.
func (s *Store) ListBlogs(ctx context.Context, params PageParams) ([]*domain.Blog, error) {
	params = params.Normalize()
	offset := params.Offset()

	var blogs []*domain.Blog
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(blogPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		skipped := 0
		for it.Rewind(); it.Valid(); it.Next() {
			if len(blogs) >= params.PageSize {
				break
			}
			if skipped < offset {
				skipped++
				continue
			}

			var blog domain.Blog
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalDoc(val, &blog)
			}); err != nil {
				return err
			}
			blogs = append(blogs, &blog)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	return blogs, nil
}

// ListBlogsByAuthor returns all blogs for an author via the author index.
func (s *Store) ListBlogsByAuthor(ctx context.Context, authorID string) ([]*domain.Blog, error) {
	prefix := []byte(blogAuthorIndex + authorID + ":")

	var blogs []*domain.Blog
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			blogID := strings.TrimPrefix(key, string(prefix))

			item, err := txn.Get(blogKey(blogID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue // index entry outlived the document
			}
			if err != nil {
				return err
			}

			var blog domain.Blog
			if err := item.Value(func(val []byte) error {
				return unmarshalDoc(val, &blog)
			}); err != nil {
				return err
			}
			blogs = append(blogs, &blog)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs by author: %w", err)
	}
	return blogs, nil
}
