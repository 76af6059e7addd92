package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/health-registry/internal/domain"
	"github.com/heartmarshall/health-registry/pkg/ctxutil"
)

const maxBodyBytes = 8 << 20

// ResponseInfo echoes the request envelope back to the caller.
type ResponseInfo struct {
	APIID    string `json:"apiId,omitempty"`
	Ver      string `json:"ver,omitempty"`
	Ts       int64  `json:"ts"`
	MsgID    string `json:"msgId,omitempty"`
	ResMsgID string `json:"resMsgId,omitempty"`
	Status   string `json:"status"`
}

func responseInfo(info domain.RequestInfo, ok bool) ResponseInfo {
	status := "successful"
	if !ok {
		status = "failed"
	}
	return ResponseInfo{
		APIID:    info.APIID,
		Ver:      info.Ver,
		Ts:       time.Now().UnixMilli(),
		MsgID:    info.MsgID,
		ResMsgID: "uief87324",
		Status:   status,
	}
}

// ErrorBody is one entry of the error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	ResponseInfo *ResponseInfo `json:"ResponseInfo,omitempty"`
	Errors       []ErrorBody   `json:"Errors"`
}

// RejectedItem identifies a bulk item that failed and was reported
// asynchronously.
type RejectedItem struct {
	Index             int    `json:"index"`
	ID                string `json:"id,omitempty"`
	ClientReferenceID string `json:"clientReferenceId,omitempty"`
}

func rejected[T domain.Entity](items []T) []RejectedItem {
	out := []RejectedItem{}
	for i, e := range items {
		if e.Errored() {
			out = append(out, RejectedItem{Index: i, ID: e.Identity(), ClientReferenceID: e.ClientRef()})
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Errors: []ErrorBody{{Code: code, Message: message}}})
}

// writeServiceError maps a service error onto a status code. Coded business
// failures are client errors; anything else is logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ce *domain.CustomError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ce):
		writeError(w, http.StatusBadRequest, ce.Code, ce.Message)
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, domain.CodeValidationError, ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, domain.CodeIDNotFound, err.Error())
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, domain.CodeInternalServerError, "internal server error")
	}
}

// decode reads a JSON body into v and stamps the authenticated caller onto
// the request info.
func decode(w http.ResponseWriter, r *http.Request, v any, info *domain.RequestInfo) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return domain.NewCustomError(domain.CodeValidationError, fmt.Sprintf("invalid request body: %v", err))
	}
	withCaller(r, info)
	return nil
}

// withCaller lets the token subject override the user uuid sent in the body.
func withCaller(r *http.Request, info *domain.RequestInfo) {
	userUUID, ok := ctxutil.UserUUIDFromCtx(r.Context())
	if !ok {
		return
	}
	if info.UserInfo == nil {
		info.UserInfo = &domain.UserInfo{}
	}
	info.UserInfo.UUID = userUUID
}

func emptyRequest(what string) error {
	return domain.NewCustomError(domain.CodeEmptyRequest, what+" must not be empty")
}
