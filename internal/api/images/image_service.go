package images

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tripwise/go-trip-planner/app/observability/metrics"
	"github.com/tripwise/go-trip-planner/config"
	"github.com/tripwise/go-trip-planner/internal/types"
)

// decorateConcurrency bounds the image lookup fan-out per plan.
const decorateConcurrency = 8

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service looks up decorative stock photos for plan entities. Lookups
// degrade to an empty URL on any failure; a plan render never fails
// because an image is missing.
type Service interface {
	// ImageFor returns an image URL for the query, or "" when no image is
	// available. Results (including misses) are cached for the process
	// lifetime keyed by the exact query string, so a repeated query never
	// issues a second upstream call.
	ImageFor(ctx context.Context, query string) (string, error)
	// DecoratePlan replaces the placeholder image URLs on every hotel and
	// activity of an accepted plan. Lookups run concurrently and each
	// failure leaves that entity's placeholder in place.
	DecoratePlan(ctx context.Context, plan *types.TripPlan)
}

// ServiceImpl is a Pexels search client with a session-scoped cache.
type ServiceImpl struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiKey     string
	baseURL    string
	perPage    int
	cache      *cache.Cache
	flight     singleflight.Group
}

func NewImageService(cfg config.Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.Images.Timeout},
		apiKey:     os.Getenv("PEXELS_API_KEY"),
		baseURL:    cfg.Images.BaseURL,
		perPage:    cfg.Images.PerPage,
		// Append-only for the session: entries are never evicted.
		cache: cache.New(cache.NoExpiration, 0),
	}
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Large  string `json:"large"`
			Medium string `json:"medium"`
		} `json:"src"`
	} `json:"photos"`
}

func (s *ServiceImpl) ImageFor(ctx context.Context, query string) (string, error) {
	ctx, span := otel.Tracer("ImageService").Start(ctx, "ImageFor")
	defer span.End()
	span.SetAttributes(attribute.String("image.query", query))

	// Missing credential degrades every lookup, it never fails the render.
	if s.apiKey == "" {
		return "", nil
	}

	if m := metrics.Get(); m != nil {
		m.ImageLookupsTotal.Add(ctx, 1)
	}

	if cached, found := s.cache.Get(query); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		if m := metrics.Get(); m != nil {
			m.ImageCacheHitsTotal.Add(ctx, 1)
		}
		return cached.(string), nil
	}

	// Concurrent lookups for the same query collapse onto one upstream
	// call; the check-then-set around the cache is not atomic on its own.
	v, err, _ := s.flight.Do(query, func() (interface{}, error) {
		// A coalesced caller may arrive after the winner already cached.
		if cached, found := s.cache.Get(query); found {
			return cached.(string), nil
		}
		imageURL, err := s.search(ctx, query)
		if err != nil {
			// Cache the miss too: at most one upstream call per query per
			// session, even when the first one failed.
			s.cache.Set(query, "", cache.NoExpiration)
			return "", err
		}
		s.cache.Set(query, imageURL, cache.NoExpiration)
		return imageURL, nil
	})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return v.(string), nil
}

func (s *ServiceImpl) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprintf("%d", s.perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image search request: %w", err)
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image search returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode image search response: %w", err)
	}
	if len(result.Photos) == 0 {
		return "", nil
	}
	if result.Photos[0].Src.Large != "" {
		return result.Photos[0].Src.Large, nil
	}
	return result.Photos[0].Src.Medium, nil
}

func (s *ServiceImpl) DecoratePlan(ctx context.Context, plan *types.TripPlan) {
	ctx, span := otel.Tracer("ImageService").Start(ctx, "DecoratePlan")
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(decorateConcurrency)

	// Each task writes to its own slot, so the join needs no locking and
	// completion order does not matter.
	for i := range plan.Hotels {
		g.Go(func() error {
			query := fmt.Sprintf("%s hotel %s", plan.Hotels[i].Name, plan.Destination)
			imageURL, err := s.ImageFor(ctx, query)
			if err != nil {
				s.logger.WarnContext(ctx, "Hotel image lookup failed", slog.String("query", query), slog.Any("error", err))
				return nil
			}
			if imageURL != "" {
				plan.Hotels[i].ImageURL = imageURL
			}
			return nil
		})
	}
	for d := range plan.Itinerary.DailyPlans {
		for a := range plan.Itinerary.DailyPlans[d].Activities {
			g.Go(func() error {
				activity := &plan.Itinerary.DailyPlans[d].Activities[a]
				query := fmt.Sprintf("%s %s", activity.PlaceName, plan.Destination)
				imageURL, err := s.ImageFor(ctx, query)
				if err != nil {
					s.logger.WarnContext(ctx, "Activity image lookup failed", slog.String("query", query), slog.Any("error", err))
					return nil
				}
				if imageURL != "" {
					activity.PlaceImageURL = imageURL
				}
				return nil
			})
		}
	}

	// Tasks never return an error; Wait is purely a join.
	_ = g.Wait()
	span.SetAttributes(attribute.Int("plan.hotels", len(plan.Hotels)))
}
