// Package posts содержит бизнес-логику постов: ленту с постраничной разбивкой,
// просмотр с ограничением доступа к премиальному контенту, редактирование,
// права на снятие с публикации и удаление, лайки, комментарии, серии и поиск.
package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/premium-blog/internal/cache"
	"github.com/magabrotheeeer/premium-blog/internal/lib/fileext"
	"github.com/magabrotheeeer/premium-blog/internal/lib/forbidden"
	"github.com/magabrotheeeer/premium-blog/internal/lib/paginate"
	"github.com/magabrotheeeer/premium-blog/internal/lib/sl"
	"github.com/magabrotheeeer/premium-blog/internal/metrics"
	"github.com/magabrotheeeer/premium-blog/internal/models"
	"github.com/magabrotheeeer/premium-blog/internal/storage/repository"
)

var (
	ErrNotFound             = errors.New("post not found")
	ErrSeriesNotFound       = errors.New("series not found")
	ErrForbidden            = errors.New("action is not allowed")
	ErrSubscriptionRequired = errors.New("active subscription required")
	ErrForbiddenWord        = errors.New("text contains forbidden word")
	ErrInvalidPrice         = errors.New("price must not be negative")
	ErrEmptyComment         = errors.New("comment text is empty")
	ErrInvalidPage          = errors.New("invalid page")
)

// postCacheTTL — время жизни поста в кеше.
const postCacheTTL = 5 * time.Minute

// Repository описывает хранилище постов, серий, лайков и комментариев.
type Repository interface {
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	UpdatePost(ctx context.Context, post models.Post) (*models.Post, error)
	SetPostPublic(ctx context.Context, id int64, public bool) error
	DeletePost(ctx context.Context, id int64) error
	CountPublicPosts(ctx context.Context) (int, error)
	ListPublicPosts(ctx context.Context, limit, offset int) ([]*models.Post, error)
	IncrementViews(ctx context.Context, id int64) (int64, error)
	SearchPosts(ctx context.Context, query string) ([]*models.Post, error)
	ListPostsBySeries(ctx context.Context, seriesID int64) ([]*models.Post, error)
	CreateSeries(ctx context.Context, series models.Series) (*models.Series, error)
	GetSeries(ctx context.Context, id int64) (*models.Series, error)
	LikePost(ctx context.Context, userUID string, postID int64) (int64, error)
	UnlikePost(ctx context.Context, userUID string, postID int64) (int64, error)
	AddComment(ctx context.Context, c models.Comment) (*models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]*models.Comment, error)
}

// AccessRepository даёт сведения о пользователях и их подписках для проверки прав.
type AccessRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Cache — кеш карточек постов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// ListItem — элемент ленты: пост и расширение прикреплённого файла.
type ListItem struct {
	*models.Post
	Extension string `json:"extension"`
}

// ListResult — страница ленты.
type ListResult struct {
	Items []ListItem    `json:"items"`
	Page  paginate.Page `json:"page"`
}

// Service реализует операции над постами.
type Service struct {
	repo      Repository
	access    AccessRepository
	cache     Cache
	paginator paginate.Paginator
	log       *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New создаёт сервис постов. c может быть nil, тогда посты читаются напрямую из БД.
func New(repo Repository, access AccessRepository, c Cache, log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		access:    access,
		cache:     c,
		paginator: paginate.Default,
		log:       log,
		metrics:   m,
		now:       time.Now,
	}
}

func mapNotFound(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// List возвращает страницу опубликованных постов, новые первыми.
func (s *Service) List(ctx context.Context, rawPage string) (*ListResult, error) {
	const op = "posts.List"
	number, err := paginate.ParsePage(rawPage)
	if err != nil {
		return nil, ErrInvalidPage
	}
	count, err := s.repo.CountPublicPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	page, err := s.paginator.Page(number, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPage, err)
	}

	items := make([]ListItem, 0, page.Limit)
	if page.Limit > 0 {
		list, err := s.repo.ListPublicPosts(ctx, page.Limit, page.Offset)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, p := range list {
			items = append(items, ListItem{Post: p, Extension: fileext.ForList(p.File)})
		}
	}
	return &ListResult{Items: items, Page: page}, nil
}

func (s *Service) loadPost(ctx context.Context, id int64) (*models.Post, error) {
	const op = "posts.loadPost"
	if s.cache != nil {
		var cached models.Post
		found, err := s.cache.Get(ctx, cache.PostKey(id), &cached)
		if err != nil {
			s.log.Warn("post cache read failed", slog.String("op", op), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, mapNotFound(op, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.PostKey(id), post, postCacheTTL); err != nil {
			s.log.Warn("post cache write failed", slog.String("op", op), sl.Err(err))
		}
	}
	return post, nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cache.PostKey(id)); err != nil {
		s.log.Warn("post cache invalidate failed", slog.Int64("post_id", id), sl.Err(err))
	}
}

// CanView сообщает, может ли viewerUID видеть пост. Пустой viewerUID означает анонимного читателя.
// Премиальный пост доступен автору и владельцу действующей подписки.
func (s *Service) CanView(ctx context.Context, post *models.Post, viewerUID string) (bool, error) {
	const op = "posts.CanView"
	if !post.Premium || (viewerUID != "" && viewerUID == post.AuthorUID) {
		return true, nil
	}
	if viewerUID == "" {
		return false, nil
	}
	sub, err := s.access.GetSubscriptionByUser(ctx, viewerUID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return sub.IsValid(s.now()), nil
}

// Detail возвращает пост и учитывает просмотр. Снятый с публикации пост виден только автору.
// Для премиального поста без доступа возвращается ErrSubscriptionRequired.
func (s *Service) Detail(ctx context.Context, id int64, viewerUID string) (*models.Post, error) {
	const op = "posts.Detail"
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.Public && (viewerUID == "" || post.AuthorUID != viewerUID) {
		return nil, ErrNotFound
	}
	ok, err := s.CanView(ctx, post, viewerUID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSubscriptionRequired
	}

	views, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return nil, mapNotFound(op, err)
	}
	post.ViewCount = views
	s.metrics.PostViewed()
	return post, nil
}

func checkText(in models.PostInput) error {
	for _, text := range []string{in.Title, in.Description} {
		if word, found := forbidden.Find(text); found {
			return fmt.Errorf("%w: %s", ErrForbiddenWord, word)
		}
	}
	if in.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (s *Service) checkSeries(ctx context.Context, op string, seriesID *int64) error {
	if seriesID == nil {
		return nil
	}
	_, err := s.repo.GetSeries(ctx, *seriesID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSeriesNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Create публикует новый пост от имени authorUID.
func (s *Service) Create(ctx context.Context, authorUID string, in models.PostInput) (*models.Post, error) {
	const op = "posts.Create"
	if err := checkText(in); err != nil {
		return nil, err
	}
	if err := s.checkSeries(ctx, op, in.SeriesID); err != nil {
		return nil, err
	}
	post, err := s.repo.CreatePost(ctx, models.Post{
		Title:         in.Title,
		Description:   in.Description,
		File:          in.File,
		AuthorUID:     authorUID,
		Public:        true,
		Premium:       in.Premium,
		Price:         in.Price,
		SequenceOrder: in.SequenceOrder,
		SeriesID:      in.SeriesID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("post created", slog.String("op", op), slog.Int64("post_id", post.ID))
	return post, nil
}

// Update изменяет пост. Редактировать может только автор.
func (s *Service) Update(ctx context.Context, actorUID string, id int64, in models.PostInput) (*models.Post, error) {
	const op = "posts.Update"
	current, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, mapNotFound(op, err)
	}
	if current.AuthorUID != actorUID {
		return nil, ErrForbidden
	}
	if err := checkText(in); err != nil {
		return nil, err
	}
	if err := s.checkSeries(ctx, op, in.SeriesID); err != nil {
		return nil, err
	}
	current.Title = in.Title
	current.Description = in.Description
	current.File = in.File
	current.Premium = in.Premium
	current.Price = in.Price
	current.SequenceOrder = in.SequenceOrder
	current.SeriesID = in.SeriesID

	updated, err := s.repo.UpdatePost(ctx, *current)
	if err != nil {
		return nil, mapNotFound(op, err)
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// authorize проверяет, что actorUID автор поста или обладает правом perm.
func (s *Service) authorize(ctx context.Context, op, actorUID string, id int64, perm models.Permission) error {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return mapNotFound(op, err)
	}
	if post.AuthorUID == actorUID {
		return nil
	}
	actor, err := s.access.GetUser(ctx, actorUID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !actor.HasPerm(perm) {
		return ErrForbidden
	}
	return nil
}

// Unpublish снимает пост с публикации. Доступно автору и пользователю с правом снятия.
func (s *Service) Unpublish(ctx context.Context, actorUID string, id int64) error {
	const op = "posts.Unpublish"
	if err := s.authorize(ctx, op, actorUID, id, models.PermUnpublishPost); err != nil {
		return err
	}
	if err := s.repo.SetPostPublic(ctx, id, false); err != nil {
		return mapNotFound(op, err)
	}
	s.invalidate(ctx, id)
	return nil
}

// Delete удаляет пост. Доступно автору и пользователю с правом удаления любых постов.
func (s *Service) Delete(ctx context.Context, actorUID string, id int64) error {
	const op = "posts.Delete"
	if err := s.authorize(ctx, op, actorUID, id, models.PermDeleteAnyPost); err != nil {
		return err
	}
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return mapNotFound(op, err)
	}
	s.invalidate(ctx, id)
	s.log.Info("post deleted", slog.String("op", op), slog.Int64("post_id", id), slog.String("actor", actorUID))
	return nil
}

// Like ставит лайк и возвращает новое число лайков. Повторный лайк ничего не меняет.
func (s *Service) Like(ctx context.Context, userUID string, id int64) (int64, error) {
	const op = "posts.Like"
	if _, err := s.repo.GetPost(ctx, id); err != nil {
		return 0, mapNotFound(op, err)
	}
	n, err := s.repo.LikePost(ctx, userUID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	return n, nil
}

// Unlike снимает лайк и возвращает новое число лайков.
func (s *Service) Unlike(ctx context.Context, userUID string, id int64) (int64, error) {
	const op = "posts.Unlike"
	if _, err := s.repo.GetPost(ctx, id); err != nil {
		return 0, mapNotFound(op, err)
	}
	n, err := s.repo.UnlikePost(ctx, userUID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	return n, nil
}

// Comment добавляет комментарий к посту.
func (s *Service) Comment(ctx context.Context, userUID string, id int64, text string) (*models.Comment, error) {
	const op = "posts.Comment"
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.repo.GetPost(ctx, id); err != nil {
		return nil, mapNotFound(op, err)
	}
	c, err := s.repo.AddComment(ctx, models.Comment{UserUID: userUID, PostID: id, Text: text})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Comments возвращает комментарии поста в порядке добавления.
func (s *Service) Comments(ctx context.Context, id int64) ([]*models.Comment, error) {
	const op = "posts.Comments"
	if _, err := s.repo.GetPost(ctx, id); err != nil {
		return nil, mapNotFound(op, err)
	}
	list, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if list == nil {
		list = []*models.Comment{}
	}
	return list, nil
}

// Search ищет опубликованные посты по подстроке в заголовке или тексте. Пустой запрос даёт пустой результат.
func (s *Service) Search(ctx context.Context, query string) ([]*models.Post, error) {
	const op = "posts.Search"
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Post{}, nil
	}
	list, err := s.repo.SearchPosts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if list == nil {
		list = []*models.Post{}
	}
	return list, nil
}

// CreateSeries создаёт серию постов автора authorUID.
func (s *Service) CreateSeries(ctx context.Context, authorUID string, in models.SeriesInput) (*models.Series, error) {
	const op = "posts.CreateSeries"
	if word, found := forbidden.Find(in.Title + " " + in.Description); found {
		return nil, fmt.Errorf("%w: %s", ErrForbiddenWord, word)
	}
	series, err := s.repo.CreateSeries(ctx, models.Series{
		Title:       in.Title,
		Description: in.Description,
		AuthorUID:   authorUID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return series, nil
}

// SeriesPosts возвращает опубликованные посты серии в порядке глав.
func (s *Service) SeriesPosts(ctx context.Context, seriesID int64) ([]*models.Post, error) {
	const op = "posts.SeriesPosts"
	if err := s.checkSeries(ctx, op, &seriesID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListPostsBySeries(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]*models.Post, 0, len(list))
	for _, p := range list {
		if p.Public {
			result = append(result, p)
		}
	}
	return result, nil
}
