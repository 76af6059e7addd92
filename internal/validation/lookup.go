package validation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"
)

// lookupWait lets every id of one Load call join the same batch.
const lookupWait = time.Millisecond

type storedKey struct {
	Tenant string
	ID     string
}

type stored[T Entity] struct {
	entity T
	found  bool
}

type lookupsKey struct{}

// lookups holds one loader per entity type for the lifetime of a request.
type lookups struct {
	mu      sync.Mutex
	loaders map[string]any
}

// WithLookups returns a context in which Load reads each tenant/id pair from
// the store at most once. Scope it to a single request: entities read
// earlier are returned as they were.
func WithLookups(ctx context.Context) context.Context {
	return context.WithValue(ctx, lookupsKey{}, &lookups{loaders: make(map[string]any)})
}

func loaderFor[T Entity](ctx context.Context, finder Finder[T]) *dataloader.Loader[storedKey, stored[T]] {
	l, ok := ctx.Value(lookupsKey{}).(*lookups)
	if !ok {
		return nil
	}
	var zero T
	scope := fmt.Sprintf("%T", zero)

	l.mu.Lock()
	defer l.mu.Unlock()
	if loader, ok := l.loaders[scope].(*dataloader.Loader[storedKey, stored[T]]); ok {
		return loader
	}
	loader := dataloader.NewBatchedLoader(newStoredBatchFn(finder),
		dataloader.WithWait[storedKey, stored[T]](lookupWait),
	)
	l.loaders[scope] = loader
	return loader
}

func newStoredBatchFn[T Entity](finder Finder[T]) dataloader.BatchFunc[storedKey, stored[T]] {
	return func(ctx context.Context, keys []storedKey) []*dataloader.Result[stored[T]] {
		byTenant, tenants := groupKeys(keys)
		found := make(map[storedKey]T, len(keys))
		for _, tenant := range tenants {
			items, err := finder.FindByIDs(ctx, tenant, byTenant[tenant], false)
			if err != nil {
				return errorResults[stored[T]](len(keys), fmt.Errorf("find by ids: %w", err))
			}
			for _, it := range items {
				found[storedKey{Tenant: tenant, ID: it.Identity()}] = it
			}
		}

		results := make([]*dataloader.Result[stored[T]], len(keys))
		for i, k := range keys {
			e, ok := found[k]
			results[i] = &dataloader.Result[stored[T]]{Data: stored[T]{entity: e, found: ok}}
		}
		return results
	}
}

func groupKeys(keys []storedKey) (map[string][]string, []string) {
	byTenant := make(map[string][]string)
	var tenants []string
	for _, k := range keys {
		if _, ok := byTenant[k.Tenant]; !ok {
			tenants = append(tenants, k.Tenant)
		}
		byTenant[k.Tenant] = append(byTenant[k.Tenant], k.ID)
	}
	return byTenant, tenants
}

func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// Load fetches the stored, non-deleted versions of entities keyed by id,
// querying once per tenant. Under WithLookups ids already read in this
// request are served without another query.
func Load[T Entity](ctx context.Context, finder Finder[T], entities []T) (map[string]T, error) {
	keys := make([]storedKey, 0, len(entities))
	for _, e := range entities {
		if e.Identity() != "" {
			keys = append(keys, storedKey{Tenant: e.Tenant(), ID: e.Identity()})
		}
	}
	out := make(map[string]T, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	loader := loaderFor(ctx, finder)
	if loader == nil {
		for _, r := range newStoredBatchFn(finder)(ctx, keys) {
			if r.Error != nil {
				return nil, r.Error
			}
			if r.Data.found {
				out[r.Data.entity.Identity()] = r.Data.entity
			}
		}
		return out, nil
	}

	data, errs := loader.LoadMany(ctx, keys)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for _, d := range data {
		if d.found {
			out[d.entity.Identity()] = d.entity
		}
	}
	return out, nil
}
