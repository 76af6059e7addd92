package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/health-registry/internal/domain"
)

// envelope decodes {"RequestInfo": ..., "<key>": ...} bodies whose payload
// key depends on the entity.
func envelope(w http.ResponseWriter, r *http.Request, key string, payload any) (domain.RequestInfo, bool, error) {
	var body map[string]json.RawMessage
	var info domain.RequestInfo
	if err := decode(w, r, &body, &info); err != nil {
		return info, false, err
	}
	if raw, ok := body["RequestInfo"]; ok {
		if err := json.Unmarshal(raw, &info); err != nil {
			return info, false, domain.NewCustomError(domain.CodeValidationError, fmt.Sprintf("invalid RequestInfo: %v", err))
		}
		withCaller(r, &info)
	}
	raw, ok := body[key]
	if !ok || string(raw) == "null" {
		return info, false, nil
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return info, false, domain.NewCustomError(domain.CodeValidationError, fmt.Sprintf("invalid %s: %v", key, err))
	}
	return info, true, nil
}

// singleHandler runs op on one entity; any failure is returned to the caller.
func singleHandler[T domain.Entity](log *slog.Logger, key string, op func(context.Context, domain.BulkRequest[T], bool) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item T
		info, ok, err := envelope(w, r, key, &item)
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}
		if !ok {
			writeServiceError(w, r, log, emptyRequest(key))
			return
		}

		out, err := op(r.Context(), domain.BulkRequest[T]{RequestInfo: info, Entities: []T{item}}, false)
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}
		resp := map[string]any{"ResponseInfo": responseInfo(info, true)}
		if len(out) > 0 {
			resp[key] = out[0]
		}
		writeJSON(w, http.StatusAccepted, resp)
	}
}

// bulkHandler runs op on a batch. Items that fail are reported by the
// service and listed under "rejected"; the rest are echoed back.
func bulkHandler[T domain.Entity](log *slog.Logger, key string, op func(context.Context, domain.BulkRequest[T], bool) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raws []json.RawMessage
		info, ok, err := envelope(w, r, key, &raws)
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}
		if !ok || len(raws) == 0 {
			writeServiceError(w, r, log, emptyRequest(key))
			return
		}
		items, err := decodeItems[T](key, raws)
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}

		out, err := op(r.Context(), domain.BulkRequest[T]{RequestInfo: info, Entities: items}, true)
		if err != nil {
			writeServiceError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"ResponseInfo": responseInfo(info, true),
			key:            out,
			"rejected":     rejected(items),
		})
	}
}

// decodeItems decodes each element of a bulk payload. A null element is
// rejected as an empty request.
func decodeItems[T domain.Entity](key string, raws []json.RawMessage) ([]T, error) {
	items := make([]T, len(raws))
	for i, raw := range raws {
		if string(bytes.TrimSpace(raw)) == "null" {
			return nil, emptyRequest(fmt.Sprintf("%s[%d]", key, i))
		}
		if err := json.Unmarshal(raw, &items[i]); err != nil {
			return nil, domain.NewCustomError(domain.CodeValidationError, fmt.Sprintf("invalid %s[%d]: %v", key, i, err))
		}
	}
	return items, nil
}
