// Package validation runs ordered, per-operation validator chains over bulk
// requests and accumulates per-item errors.
package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/heartmarshall/health-registry/internal/domain"
)

// Entity is an entity usable as a map key: always a pointer type.
type Entity interface {
	comparable
	domain.Entity
}

// Operation is the bulk operation a validator is registered for.
type Operation int

const (
	OpCreate Operation = iota + 1
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// ErrorMap holds the new errors a single validator found, keyed by entity.
type ErrorMap[T Entity] map[T][]domain.Error

// Add appends an error for e.
func (m ErrorMap[T]) Add(e T, err domain.Error) {
	m[e] = append(m[e], err)
}

// Details is the accumulated ErrorDetails per entity for one pipeline pass.
type Details[T Entity] map[T]*domain.ErrorDetails

// Ordered returns the details of the entities in order, skipping clean ones.
func (d Details[T]) Ordered(order []T) []*domain.ErrorDetails {
	out := make([]*domain.ErrorDetails, 0, len(d))
	for _, e := range order {
		if det, ok := d[e]; ok {
			out = append(out, det)
		}
	}
	return out
}

// Validator checks one business rule. It returns errors for the offending
// entities and only fails for infrastructure problems.
type Validator[T Entity] interface {
	Name() string
	Order() int
	Applies(op Operation) bool
	Validate(ctx context.Context, req domain.BulkRequest[T]) (ErrorMap[T], error)
}

// For returns a predicate selecting validators registered for op.
func For[T Entity](op Operation) func(Validator[T]) bool {
	return func(v Validator[T]) bool { return v.Applies(op) }
}

// Validate runs the applicable validators in ascending order. An entity
// flagged by one validator is not shown to the next ones. In single-item
// mode any error is returned as a CustomError whose code joins the distinct
// error codes with ":".
func Validate[T Entity](
	ctx context.Context,
	validators []Validator[T],
	applicable func(Validator[T]) bool,
	req domain.BulkRequest[T],
	isBulk bool,
) ([]T, Details[T], error) {
	chain := slices.Clone(validators)
	slices.SortStableFunc(chain, func(a, b Validator[T]) int { return a.Order() - b.Order() })

	details := make(Details[T])
	for _, v := range chain {
		if applicable != nil && !applicable(v) {
			continue
		}
		pending := clean(req.Entities)
		if len(pending) == 0 {
			break
		}
		found, err := v.Validate(ctx, domain.BulkRequest[T]{RequestInfo: req.RequestInfo, Entities: pending})
		if err != nil {
			return nil, details, fmt.Errorf("validate %s: %w", v.Name(), err)
		}
		details.merge(req.RequestInfo, found)
	}

	if len(details) > 0 && !isBulk {
		return nil, details, composite(details.Ordered(req.Entities))
	}
	return clean(req.Entities), details, nil
}

func (d Details[T]) merge(info domain.RequestInfo, found ErrorMap[T]) {
	for e, errs := range found {
		if len(errs) == 0 {
			continue
		}
		e.SetErrored(true)
		det, ok := d[e]
		if !ok {
			det = &domain.ErrorDetails{APIDetails: apiDetails(info, e)}
			d[e] = det
		}
		det.Errors = append(det.Errors, errs...)
	}
}

func clean[T Entity](entities []T) []T {
	out := make([]T, 0, len(entities))
	for _, e := range entities {
		if !e.Errored() {
			out = append(out, e)
		}
	}
	return out
}

// apiDetails builds the request that reproduces a single failing item.
func apiDetails[T Entity](info domain.RequestInfo, e T) *domain.APIDetails {
	return &domain.APIDetails{
		URL:         info.APIID,
		Method:      "POST",
		ContentType: "application/json",
		RequestBody: domain.BulkRequest[T]{RequestInfo: info, Entities: []T{e}},
	}
}

func composite(details []*domain.ErrorDetails) error {
	var codes []string
	seen := make(map[string]struct{})
	for _, d := range details {
		for _, c := range d.Codes() {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			codes = append(codes, c)
		}
	}
	return domain.NewCustomError(strings.Join(codes, ":"), dump(details))
}

func dump(details []*domain.ErrorDetails) string {
	b, err := json.Marshal(details)
	if err != nil {
		return fmt.Sprintf("%v", details)
	}
	return string(b)
}
