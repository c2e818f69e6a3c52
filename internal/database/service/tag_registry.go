package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
)

// TagRegistry replaces the tag set of a post atomically.
type TagRegistry interface {
	// SetTags runs in its own transaction. Applied names come back in slug order.
	SetTags(ctx context.Context, postID uint, names []string) ([]string, error)
	// SetTagsTx joins the caller's transaction. The caller commits or rolls back.
	SetTagsTx(ctx context.Context, tx *gorm.DB, postID uint, names []string) ([]string, error)
}

// TagName is one requested tag after normalization.
type TagName struct {
	Nome string
	Slug string
}

// NormalizeTagNames trims names, drops empty ones and collapses names that
// differ only by case. The first spelling wins; input order is kept.
func NormalizeTagNames(names []string) []TagName {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(names))
	out := make([]TagName, 0, len(names))

	for _, name := range names {
		nome := strings.TrimSpace(name)
		if nome == "" {
			continue
		}
		slug := fold.String(nome)
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, TagName{Nome: nome, Slug: slug})
	}
	return out
}

type tagRegistry struct {
	tx      database.Transactor
	tagRepo repository.TagRepository
	logger  *slog.Logger
}

// NewTagRegistry creates a new tag registry instance
func NewTagRegistry(tx database.Transactor, tagRepo repository.TagRepository, logger *slog.Logger) TagRegistry {
	return &tagRegistry{
		tx:      tx,
		tagRepo: tagRepo,
		logger:  logger,
	}
}

func (r *tagRegistry) SetTags(ctx context.Context, postID uint, names []string) ([]string, error) {
	var applied []string
	err := r.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		applied, err = r.SetTagsTx(ctx, tx, postID, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

func (r *tagRegistry) SetTagsTx(ctx context.Context, tx *gorm.DB, postID uint, names []string) ([]string, error) {
	repo := r.tagRepo.WithTx(tx)

	if err := repo.ClearPost(ctx, postID); err != nil {
		r.logger.Error("❌ [TagRegistry] Failed to clear post tags", "post_id", postID, "error", err)
		return nil, err
	}

	// Resolve in slug order so concurrent writers lock new tag rows in the same order.
	wanted := NormalizeTagNames(names)
	slices.SortFunc(wanted, func(a, b TagName) int { return strings.Compare(a.Slug, b.Slug) })
	applied := make([]string, 0, len(wanted))

	for _, name := range wanted {
		tag, err := r.resolve(ctx, repo, name)
		if err != nil {
			r.logger.Error("❌ [TagRegistry] Failed to resolve tag",
				"post_id", postID,
				"tag", name.Nome,
				"error", err,
			)
			return nil, err
		}

		if err := repo.Associate(ctx, postID, tag.ID); err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return nil, ErrPostNotFound
			}
			r.logger.Error("❌ [TagRegistry] Failed to link tag",
				"post_id", postID,
				"tag_id", tag.ID,
				"error", err,
			)
			return nil, err
		}

		applied = append(applied, tag.Nome)
	}

	r.logger.Debug("🏷️ [TagRegistry] Tags applied", "post_id", postID, "tags", applied)
	return applied, nil
}

// resolve finds the tag by slug or creates it. When a concurrent writer
// creates the same tag first, the insert is a no-op and the row is read back.
func (r *tagRegistry) resolve(ctx context.Context, repo repository.TagRepository, name TagName) (*models.Tag, error) {
	tag, err := repo.FindBySlug(ctx, name.Slug)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, repository.ErrTagNotFound) {
		return nil, err
	}

	tag = &models.Tag{Nome: name.Nome, Slug: name.Slug}
	created, err := repo.CreateIfAbsent(ctx, tag)
	if err != nil {
		return nil, err
	}
	if created {
		return tag, nil
	}

	tag, err = repo.FindBySlug(ctx, name.Slug)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, fmt.Errorf("%w: tag %q missing after insert conflict", ErrStorage, name.Nome)
		}
		return nil, err
	}
	return tag, nil
}
