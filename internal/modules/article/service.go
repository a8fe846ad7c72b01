package article

import (
	"context"
	"errors"

	"conduit/internal/domain"
	"conduit/internal/pkg/slug"
	"conduit/internal/repository"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Service assembles article responses out of storage lookups. Derived fields
// (favorited flag, favorites count, tag list, author profile) are re-read from
// storage on every call, never cached.
type Service struct {
	articles  ArticleRepository
	tags      TagRepository
	favorites FavoriteRepository
	users     UserRepository
}

func NewService(
	articles ArticleRepository,
	tags TagRepository,
	favorites FavoriteRepository,
	users UserRepository,
) *Service {
	return &Service{
		articles:  articles,
		tags:      tags,
		favorites: favorites,
		users:     users,
	}
}

// List returns articles matching the filter plus the total count. Authors are
// fetched in one bulk query and joined by ID; an article whose author is gone
// keeps its row and gets an empty profile. The favorited flag and favorites
// count are not computed in the list variant and stay false/0.
func (s *Service) List(ctx context.Context, f repository.ArticleFilter) (*MultipleArticlesResponse, error) {
	articles, total, err := s.articles.GetMany(ctx, f)
	if err != nil {
		return nil, err
	}

	authors, tagNames, err := s.bulkAuthorsAndTags(ctx, articles)
	if err != nil {
		return nil, err
	}

	out := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		out = append(out, toArticleResponse(a, tagNames[a.ID], profileFor(authors, a.AuthorID), false, 0))
	}

	return &MultipleArticlesResponse{Articles: out, ArticlesCount: total}, nil
}

// Feed returns the newest articles by authors the user follows. The
// favorited-ID set and the per-author count map do not depend on each other,
// so both bulk lookups run concurrently.
func (s *Service) Feed(ctx context.Context, userID int64, limit, offset int) (*MultipleArticlesResponse, error) {
	articles, err := s.articles.GetByFollowees(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	articleIDs := make([]int64, 0, len(articles))
	authorIDs := make([]int64, 0, len(articles))
	for i := range articles {
		articleIDs = append(articleIDs, articles[i].ID)
		authorIDs = append(authorIDs, articles[i].AuthorID)
	}

	var (
		favoritedIDs []int64
		counts       map[int64]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favoritedIDs, err = s.favorites.FavoritedArticleIDs(gctx, userID, articleIDs)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.favorites.CountByAuthors(gctx, authorIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	favorited := make(map[int64]bool, len(favoritedIDs))
	for _, id := range favoritedIDs {
		favorited[id] = true
	}

	authors, tagNames, err := s.bulkAuthorsAndTags(ctx, articles)
	if err != nil {
		return nil, err
	}

	out := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		out = append(out, toArticleResponse(
			a,
			tagNames[a.ID],
			profileFor(authors, a.AuthorID),
			favorited[a.ID],
			counts[a.AuthorID], // zero when absent from the bulk map
		))
	}

	return &MultipleArticlesResponse{Articles: out, ArticlesCount: int64(len(out))}, nil
}

// Create persists a new article, resolves its tag list to identities, links
// the tags, and assembles the full detail response. The slug is derived from
// the title at creation time.
func (s *Service) Create(ctx context.Context, authorID int64, req CreateArticleRequest, currentUserID int64) (*SingleArticleResponse, error) {
	if req.Title == "" {
		return nil, ErrInvalidRequest
	}

	a := &domain.Article{
		Slug:        slug.Make(req.Title),
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		AuthorID:    authorID,
	}
	if err := s.articles.Create(ctx, a); err != nil {
		return nil, err
	}
	if a.ID == 0 {
		// Insert did not materialize an identity; treat as an empty result.
		return nil, ErrNotFound
	}

	tags, err := s.resolveTags(ctx, req.TagList)
	if err != nil {
		return nil, err
	}
	tagIDs := make([]int64, 0, len(tags))
	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagIDs = append(tagIDs, t.ID)
		tagNames = append(tagNames, t.Name)
	}
	if err := s.tags.LinkArticle(ctx, a.ID, tagIDs); err != nil {
		return nil, err
	}

	return s.assembleDetail(ctx, a, currentUserID, tagNames)
}

// GetBySlug returns the detail view, or ErrNotFound when no article carries
// the slug. Dependent lookups are only issued once the article is resolved.
func (s *Service) GetBySlug(ctx context.Context, articleSlug string, userID int64) (*SingleArticleResponse, error) {
	a, err := s.getBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, a, userID, nil)
}

// Update applies a partial patch: fields absent from the patch keep their
// stored value. The slug is recomputed from the resulting title even when the
// title is unchanged, so slug and title never drift apart.
func (s *Service) Update(ctx context.Context, articleSlug string, userID int64, req UpdateArticleRequest) (*SingleArticleResponse, error) {
	a, err := s.getBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Body != nil {
		a.Body = *req.Body
	}
	a.Slug = slug.Make(a.Title)

	if err := s.articles.Update(ctx, a); err != nil {
		return nil, err
	}

	return s.assembleDetail(ctx, a, userID, nil)
}

// Delete removes the article. No content is returned.
func (s *Service) Delete(ctx context.Context, articleSlug string) error {
	return s.articles.DeleteBySlug(ctx, articleSlug)
}

// Favorite records the user's favorite and responds with the pre-insert count
// plus one. The count is deliberately not re-read after the insert — one round
// trip fewer, at the cost of drift when the same article is favorited
// concurrently.
func (s *Service) Favorite(ctx context.Context, userID int64, articleSlug string) (*SingleArticleResponse, error) {
	a, err := s.getBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}

	count, err := s.favorites.CountByAuthor(ctx, a.AuthorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.favorites.Add(ctx, userID, a.ID); err != nil {
		return nil, err
	}

	tags, err := s.tags.NamesForArticle(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	author, err := s.authorProfile(ctx, a.AuthorID)
	if err != nil {
		return nil, err
	}

	resp := toArticleResponse(a, tags, author, true, count+1)
	return &SingleArticleResponse{Article: resp}, nil
}

// Unfavorite removes the user's favorite. The response always reports
// favorited=false with a zero count, regardless of other users' favorites.
func (s *Service) Unfavorite(ctx context.Context, userID int64, articleSlug string) (*SingleArticleResponse, error) {
	a, err := s.getBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}

	if err := s.favorites.Remove(ctx, userID, a.ID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tags, err := s.tags.NamesForArticle(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	author, err := s.authorProfile(ctx, a.AuthorID)
	if err != nil {
		return nil, err
	}

	resp := toArticleResponse(a, tags, author, false, 0)
	return &SingleArticleResponse{Article: resp}, nil
}

// resolveTags maps requested tag names onto Tag rows, reusing existing rows by
// name and inserting only genuinely new names. The result carries no ordering
// guarantee.
func (s *Service) resolveTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	existing, err := s.tags.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		have[t.Name] = true
	}

	var missing []string
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !have[name] && !seen[name] {
			missing = append(missing, name)
			seen[name] = true
		}
	}

	inserted, err := s.tags.InsertAndGet(ctx, missing)
	if err != nil {
		return nil, err
	}

	return append(existing, inserted...), nil
}

func (s *Service) getBySlug(ctx context.Context, articleSlug string) (*domain.Article, error) {
	a, err := s.articles.GetBySlug(ctx, articleSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// assembleDetail merges the dependent lookups for one article: tag list,
// author profile, favorited flag for the current user, and the author's
// favorites count. A nil tagNames means "fetch from storage".
func (s *Service) assembleDetail(ctx context.Context, a *domain.Article, userID int64, tagNames []string) (*SingleArticleResponse, error) {
	if tagNames == nil {
		var err error
		tagNames, err = s.tags.NamesForArticle(ctx, a.ID)
		if err != nil {
			return nil, err
		}
	}

	favorited := false
	if userID > 0 {
		var err error
		favorited, err = s.favorites.Exists(ctx, userID, a.ID)
		if err != nil {
			return nil, err
		}
	}

	count, err := s.favorites.CountByAuthor(ctx, a.AuthorID)
	if err != nil {
		return nil, err
	}

	author, err := s.authorProfile(ctx, a.AuthorID)
	if err != nil {
		return nil, err
	}

	resp := toArticleResponse(a, tagNames, author, favorited, count)
	return &SingleArticleResponse{Article: resp}, nil
}

// authorProfile projects the author. A missing author degrades to an empty
// profile instead of failing the whole response. The following flag is not
// wired into article aggregation and stays false.
func (s *Service) authorProfile(ctx context.Context, authorID int64) (domain.Profile, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, nil
		}
		return domain.Profile{}, err
	}
	return domain.ProfileOf(author), nil
}

func (s *Service) bulkAuthorsAndTags(ctx context.Context, articles []domain.Article) (map[int64]domain.User, map[int64][]string, error) {
	articleIDs := make([]int64, 0, len(articles))
	authorIDs := make([]int64, 0, len(articles))
	for i := range articles {
		articleIDs = append(articleIDs, articles[i].ID)
		authorIDs = append(authorIDs, articles[i].AuthorID)
	}

	authors, err := s.users.GetMany(ctx, authorIDs)
	if err != nil {
		return nil, nil, err
	}
	tagNames, err := s.tags.NamesForArticles(ctx, articleIDs)
	if err != nil {
		return nil, nil, err
	}
	return authors, tagNames, nil
}

func profileFor(authors map[int64]domain.User, authorID int64) domain.Profile {
	if author, ok := authors[authorID]; ok {
		return domain.ProfileOf(&author)
	}
	// Author row is gone; keep the article and substitute an empty profile.
	return domain.Profile{}
}
