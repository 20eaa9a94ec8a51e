package usecase

import (
	"context"

	"mesa-admin/internal/core/domain"
	"mesa-admin/internal/listservice"
)

// ConversionUseCase lists recorded conversions.
type ConversionUseCase struct {
	list *listservice.Service[domain.Conversion]
}

// NewConversionUseCase builds the conversions service.
func NewConversionUseCase(deps Deps) *ConversionUseCase {
	deps = deps.withDefaults()
	return &ConversionUseCase{
		list: listservice.New[domain.Conversion](deps.Client, deps.Caches.Named(cacheConversions), listservice.Config{
			Name:          cacheConversions,
			Endpoint:      "/api/conversions",
			CacheDuration: deps.TTL.List,
			Logger:        deps.Logger,
			Metrics:       deps.Metrics,
		}),
	}
}

// List returns one page of conversions. Filters such as from, to and
// campaign_id pass through opts.Filters.
func (u *ConversionUseCase) List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult[domain.Conversion], error) {
	return u.list.Fetch(ctx, opts)
}

// All walks every page matching opts, limit items at a time.
func (u *ConversionUseCase) All(ctx context.Context, opts domain.ListOptions, limit int) ([]domain.Conversion, error) {
	if limit <= 0 {
		limit = 100
	}
	opts.Limit = limit
	opts.SkipCache = true
	var all []domain.Conversion
	for page := 1; ; page++ {
		opts.Page = page
		res, err := u.list.Fetch(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if len(res.Items) == 0 || page >= res.Pagination.TotalPages {
			return all, nil
		}
	}
}
