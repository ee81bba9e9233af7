package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	jobsListCacheKey     = "list"
	jobsGenerationKey    = "jobs:generation"
	jobsCacheInvalidates = "jobs:v*"
)

type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// CachedJobRepository serves collection reads from the cache. Entries are
// keyed by a generation counter that every write bumps, so a fill that
// started before a write lands under a generation no reader asks for.
// Single-listing reads always hit the backend.
type CachedJobRepository struct {
	next   job.Repository
	cache  JSONCache
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewCachedJobRepository(next job.Repository, cache JSONCache, ttl time.Duration, logger logrus.FieldLogger) *CachedJobRepository {
	return &CachedJobRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func JobsSearchCacheKey(f job.SearchFilter) string {
	n := f.Normalize()
	in := struct {
		Tags     string `json:"tags"`
		Location string `json:"location"`
		Title    string `json:"title"`
	}{
		Tags:     n.Tags,
		Location: strings.ToLower(n.Location),
		Title:    strings.ToLower(n.Title),
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "search:" + hex.EncodeToString(sum[:])
}

func JobsCreatorCacheKey(profileID uuid.UUID) string {
	return "creator:" + profileID.String()
}

func versionedKey(gen int64, key string) string {
	return fmt.Sprintf("jobs:v%d:%s", gen, key)
}

func (r *CachedJobRepository) List(ctx context.Context) ([]job.Listing, error) {
	return r.cached(ctx, jobsListCacheKey, func() ([]job.Listing, error) {
		return r.next.List(ctx)
	})
}

func (r *CachedJobRepository) ListByCreator(ctx context.Context, profileID uuid.UUID) ([]job.Listing, error) {
	return r.cached(ctx, JobsCreatorCacheKey(profileID), func() ([]job.Listing, error) {
		return r.next.ListByCreator(ctx, profileID)
	})
}

func (r *CachedJobRepository) Search(ctx context.Context, f job.SearchFilter) ([]job.Listing, error) {
	return r.cached(ctx, JobsSearchCacheKey(f), func() ([]job.Listing, error) {
		return r.next.Search(ctx, f)
	})
}

func (r *CachedJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedJobRepository) Create(ctx context.Context, in job.NewListing) (job.Listing, error) {
	l, err := r.next.Create(ctx, in)
	if err != nil {
		return job.Listing{}, err
	}
	r.invalidate(ctx)
	return l, nil
}

func (r *CachedJobRepository) UpdateLikes(ctx context.Context, id uuid.UUID, likes []uuid.UUID) error {
	if err := r.next.UpdateLikes(ctx, id, likes); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedJobRepository) UpdateApplicants(ctx context.Context, id uuid.UUID, applicants []uuid.UUID) error {
	if err := r.next.UpdateApplicants(ctx, id, applicants); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedJobRepository) DeleteOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (int64, error) {
	n, err := r.next.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.invalidate(ctx)
	}
	return n, nil
}

func (r *CachedJobRepository) cached(ctx context.Context, name string, load func() ([]job.Listing, error)) ([]job.Listing, error) {
	key := versionedKey(r.generation(ctx), name)
	if r.cache != nil {
		var hit []job.Listing
		ok, err := r.cache.GetJSON(ctx, key, &hit)
		if err == nil && ok {
			r.debug("cache hit", key)
			return hit, nil
		}
		r.debug("cache miss", key)
	}

	out, err := load()
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, key, out, r.ttl); err != nil && r.logger != nil {
			r.logger.WithError(err).WithField("key", key).Warn("cache set failed")
		}
	}
	return out, nil
}

func (r *CachedJobRepository) generation(ctx context.Context) int64 {
	if r.cache == nil {
		return 0
	}
	var gen int64
	if _, err := r.cache.GetJSON(ctx, jobsGenerationKey, &gen); err != nil && r.logger != nil {
		r.logger.WithError(err).Warn("cache generation read failed")
	}
	return gen
}

func (r *CachedJobRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if _, err := r.cache.Incr(ctx, jobsGenerationKey); err != nil && r.logger != nil {
		r.logger.WithError(err).Warn("cache generation bump failed")
	}
	if err := r.cache.DeleteByPattern(ctx, jobsCacheInvalidates); err != nil && r.logger != nil {
		r.logger.WithError(err).Warn("cache invalidation failed")
	}
}

func (r *CachedJobRepository) debug(msg, key string) {
	if r.logger != nil {
		r.logger.WithField("key", key).Debug(msg)
	}
}
