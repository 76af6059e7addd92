package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/health-registry/internal/domain"
)

// ErrorReporter publishes the error details of a bulk request for later inspection.
type ErrorReporter interface {
	Report(ctx context.Context, details *domain.ErrorDetails) error
}

// PopulateErrorDetails attaches a late failure (enrichment, persistence) to
// every entity that had passed validation.
func PopulateErrorDetails[T Entity](info domain.RequestInfo, details Details[T], valid []T, err error) {
	code, typ := domain.CodeInternalServerError, domain.NonRecoverable
	if c, ok := domain.CodeOf(err); ok {
		code, typ = c, domain.Recoverable
		if c == domain.CodeIDGenError {
			typ = domain.NonRecoverable
		}
	}

	found := make(ErrorMap[T], len(valid))
	for _, e := range valid {
		found.Add(e, domain.NewError(code, err.Error(), typ, err))
	}
	details.merge(info, found)
}

// HandleErrors finishes a pipeline pass. In single-item mode it returns a
// CustomError with code and the dumped details. In bulk mode it reports each
// failed item and returns only reporting failures.
func HandleErrors[T Entity](
	ctx context.Context,
	reporter ErrorReporter,
	details Details[T],
	order []T,
	isBulk bool,
	code string,
) error {
	if len(details) == 0 {
		return nil
	}
	ordered := details.Ordered(order)
	if !isBulk {
		return domain.NewCustomError(code, dump(ordered))
	}
	if reporter == nil {
		return nil
	}

	var errs []error
	for _, d := range ordered {
		if err := reporter.Report(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("report validation errors: %w", errors.Join(errs...))
	}
	return nil
}
