package validation

import (
	"context"
	"fmt"

	"github.com/heartmarshall/health-registry/internal/domain"
)

// Orders of the standard validators. Referential and domain validators use
// OrderDomain and above.
const (
	OrderNullID = iota + 1
	OrderIsDeleted
	OrderUnique
	OrderNonExistent
	OrderRowVersion
	OrderDomain
)

// Finder loads stored entities by id.
type Finder[T Entity] interface {
	FindByIDs(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]T, error)
}

type ops []Operation

func (o ops) Applies(op Operation) bool {
	for _, x := range o {
		if x == op {
			return true
		}
	}
	return false
}

// NullID rejects entities without an id.
type NullID[T Entity] struct{ ops }

// NewNullID creates a NullID validator for updates and deletes.
func NewNullID[T Entity]() *NullID[T] { return &NullID[T]{ops{OpUpdate, OpDelete}} }

func (*NullID[T]) Name() string { return "null_id" }
func (*NullID[T]) Order() int   { return OrderNullID }

func (*NullID[T]) Validate(_ context.Context, req domain.BulkRequest[T]) (ErrorMap[T], error) {
	errs := make(ErrorMap[T])
	for _, e := range req.Entities {
		if e.Identity() == "" {
			errs.Add(e, domain.NewError(domain.CodeNullID, "Id cannot be null", domain.Recoverable, nil))
		}
	}
	return errs, nil
}

// IsDeleted rejects entities submitted with isDeleted=true outside of delete.
type IsDeleted[T Entity] struct{ ops }

// NewIsDeleted creates an IsDeleted validator for creates and updates.
func NewIsDeleted[T Entity]() *IsDeleted[T] { return &IsDeleted[T]{ops{OpCreate, OpUpdate}} }

func (*IsDeleted[T]) Name() string { return "is_deleted" }
func (*IsDeleted[T]) Order() int   { return OrderIsDeleted }

func (*IsDeleted[T]) Validate(_ context.Context, req domain.BulkRequest[T]) (ErrorMap[T], error) {
	errs := make(ErrorMap[T])
	for _, e := range req.Entities {
		if e.Deleted() {
			errs.Add(e, domain.NewError(domain.CodeIsDeleted, "Is deleted is true", domain.Recoverable, nil))
		}
	}
	return errs, nil
}

// UniqueEntity rejects repeated ids within one request. The first occurrence passes.
type UniqueEntity[T Entity] struct{ ops }

// NewUniqueEntity creates a UniqueEntity validator for updates and deletes.
func NewUniqueEntity[T Entity]() *UniqueEntity[T] { return &UniqueEntity[T]{ops{OpUpdate, OpDelete}} }

func (*UniqueEntity[T]) Name() string { return "unique_entity" }
func (*UniqueEntity[T]) Order() int   { return OrderUnique }

func (*UniqueEntity[T]) Validate(_ context.Context, req domain.BulkRequest[T]) (ErrorMap[T], error) {
	errs := make(ErrorMap[T])
	seen := make(map[string]struct{}, len(req.Entities))
	for _, e := range req.Entities {
		id := e.Identity()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			errs.Add(e, domain.NewError(domain.CodeDuplicateEntity,
				fmt.Sprintf("Duplicate entity with id %s", id), domain.NonRecoverable, nil))
			continue
		}
		seen[id] = struct{}{}
	}
	return errs, nil
}

// NonExistent rejects entities whose id is not in the store.
type NonExistent[T Entity] struct {
	ops
	finder Finder[T]
}

// NewNonExistent creates a NonExistent validator for updates and deletes.
func NewNonExistent[T Entity](finder Finder[T]) *NonExistent[T] {
	return &NonExistent[T]{ops: ops{OpUpdate, OpDelete}, finder: finder}
}

func (*NonExistent[T]) Name() string { return "non_existent" }
func (*NonExistent[T]) Order() int   { return OrderNonExistent }

func (v *NonExistent[T]) Validate(ctx context.Context, req domain.BulkRequest[T]) (ErrorMap[T], error) {
	stored, err := Load(ctx, v.finder, req.Entities)
	if err != nil {
		return nil, err
	}
	errs := make(ErrorMap[T])
	for _, e := range req.Entities {
		if _, ok := stored[e.Identity()]; !ok {
			errs.Add(e, domain.NewError(domain.CodeNonExistentEntity,
				fmt.Sprintf("Entity with id %s does not exist", e.Identity()), domain.NonRecoverable, nil))
		}
	}
	return errs, nil
}

// RowVersion rejects entities whose rowVersion differs from the stored one.
type RowVersion[T Entity] struct {
	ops
	finder Finder[T]
}

// NewRowVersion creates a RowVersion validator for updates and deletes.
func NewRowVersion[T Entity](finder Finder[T]) *RowVersion[T] {
	return &RowVersion[T]{ops: ops{OpUpdate, OpDelete}, finder: finder}
}

func (*RowVersion[T]) Name() string { return "row_version" }
func (*RowVersion[T]) Order() int   { return OrderRowVersion }

func (v *RowVersion[T]) Validate(ctx context.Context, req domain.BulkRequest[T]) (ErrorMap[T], error) {
	stored, err := Load(ctx, v.finder, req.Entities)
	if err != nil {
		return nil, err
	}
	errs := make(ErrorMap[T])
	for _, e := range req.Entities {
		s, ok := stored[e.Identity()]
		if !ok {
			continue
		}
		if s.Version() != e.Version() {
			errs.Add(e, domain.NewError(domain.CodeRowVersion,
				fmt.Sprintf("Mismatched row version for id %s: stored %d, got %d", e.Identity(), s.Version(), e.Version()),
				domain.NonRecoverable, nil))
		}
	}
	return errs, nil
}

// Standard returns the shared validators for an entity type in chain order.
func Standard[T Entity](finder Finder[T]) []Validator[T] {
	return []Validator[T]{
		NewNullID[T](),
		NewIsDeleted[T](),
		NewUniqueEntity[T](),
		NewNonExistent(finder),
		NewRowVersion(finder),
	}
}
