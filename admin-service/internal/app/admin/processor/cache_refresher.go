package processor

import (
	"context"
	"time"

	"brocante/admin-service/internal/app/admin/repository"
	"brocante/admin-service/internal/app/admin/util"
	"brocante/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CacheRefresher периодически прогревает Redis кеши списков каталога,
// чтобы после инвалидации админкой списки не ждали первого запроса.
type CacheRefresher struct {
	categoryRepo    repository.CategoryRepository
	subcategoryRepo repository.SubcategoryRepository
	cache           util.ListCache
	cacheTTL        time.Duration
	schedule        string
	cron            *cron.Cron
}

func NewCacheRefresher(
	categoryRepo repository.CategoryRepository,
	subcategoryRepo repository.SubcategoryRepository,
	cache util.ListCache,
	cacheTTL time.Duration,
	schedule string,
) *CacheRefresher {
	return &CacheRefresher{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		cache:           cache,
		cacheTTL:        cacheTTL,
		schedule:        schedule,
		cron:            cron.New(),
	}
}

// Start запускает расписание и сразу делает первый прогрев
func (r *CacheRefresher) Start() error {
	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		return err
	}
	r.cron.Start()
	go r.refresh()

	logger.Info().Str("schedule", r.schedule).Msg("cache refresher started")
	return nil
}

// Stop останавливает расписание и дожидается текущего прогрева
func (r *CacheRefresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("cache refresher stopped")
}

func (r *CacheRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	categories, err := r.categoryRepo.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("cache refresh: failed to load categories")
	} else if err := r.cache.SetCategories(ctx, categories, r.cacheTTL); err != nil {
		logger.Error().Err(err).Msg("cache refresh: failed to store categories")
	}

	subcategories, err := r.subcategoryRepo.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("cache refresh: failed to load subcategories")
	} else if err := r.cache.SetSubcategories(ctx, subcategories, r.cacheTTL); err != nil {
		logger.Error().Err(err).Msg("cache refresh: failed to store subcategories")
	}

	logger.Debug().
		Int("categories", len(categories)).
		Int("subcategories", len(subcategories)).
		Msg("catalog caches refreshed")
}
