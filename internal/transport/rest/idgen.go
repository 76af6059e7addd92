package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/health-registry/internal/domain"
)

type idGenerator interface {
	GenerateIDs(ctx context.Context, info domain.RequestInfo, reqs []domain.IDRequest) ([]string, error)
	GenerateIDPool(ctx context.Context, info domain.RequestInfo, batches []domain.BatchRequest) ([]domain.PoolCreationResult, error)
}

type idDispatcher interface {
	DispatchIDs(ctx context.Context, req domain.DispatchRequest, limit, offset int) (*domain.DispatchResponse, error)
	SearchIDs(ctx context.Context, search domain.IDPoolSearch) (*domain.DispatchResponse, error)
	Update(ctx context.Context, req domain.BulkRequest[*domain.IDRecord], isBulk bool) ([]*domain.IDRecord, error)
}

// IDGenHandler serves id generation, pool creation and dispatch.
type IDGenHandler struct {
	log        *slog.Logger
	generator  idGenerator
	dispatcher idDispatcher
}

// NewIDGenHandler creates an IDGenHandler.
func NewIDGenHandler(log *slog.Logger, generator idGenerator, dispatcher idDispatcher) *IDGenHandler {
	return &IDGenHandler{log: log.With("handler", "idgen"), generator: generator, dispatcher: dispatcher}
}

// RegisterRoutes mounts the idgen endpoints on mux.
func (h *IDGenHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /idgen/v1/generate", h.Generate)
	mux.HandleFunc("POST /idgen/id/pool/_generate", h.GeneratePool)
	mux.HandleFunc("POST /idgen/id/_dispatch", h.Dispatch)
	mux.HandleFunc("POST /idgen/id/_search", h.Search)
	mux.HandleFunc("POST /idgen/id/_update", h.Update)
	mux.HandleFunc("POST /idgen/id/bulk/_update", h.BulkUpdate)
}

type generateRequest struct {
	RequestInfo domain.RequestInfo `json:"RequestInfo"`
	IDRequests  []domain.IDRequest `json:"idRequests"`
}

type generatedID struct {
	ID string `json:"id"`
}

type generateResponse struct {
	ResponseInfo ResponseInfo  `json:"ResponseInfo"`
	IDResponses  []generatedID `json:"idResponses"`
}

// Generate renders ids from their formats.
func (h *IDGenHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decode(w, r, &req, &req.RequestInfo); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if len(req.IDRequests) == 0 {
		writeServiceError(w, r, h.log, emptyRequest("idRequests"))
		return
	}

	ids, err := h.generator.GenerateIDs(r.Context(), req.RequestInfo, req.IDRequests)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	out := make([]generatedID, len(ids))
	for i, id := range ids {
		out[i] = generatedID{ID: id}
	}
	writeJSON(w, http.StatusOK, generateResponse{ResponseInfo: responseInfo(req.RequestInfo, true), IDResponses: out})
}

type poolRequest struct {
	RequestInfo      domain.RequestInfo    `json:"RequestInfo"`
	BatchRequestList []domain.BatchRequest `json:"batchRequestList"`
}

type poolResponse struct {
	ResponseInfo       ResponseInfo                `json:"ResponseInfo"`
	IDCreationResponse []domain.PoolCreationResult `json:"idCreationResponse"`
}

// GeneratePool queues pool generation for each tenant batch.
func (h *IDGenHandler) GeneratePool(w http.ResponseWriter, r *http.Request) {
	var req poolRequest
	if err := decode(w, r, &req, &req.RequestInfo); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if len(req.BatchRequestList) == 0 {
		writeServiceError(w, r, h.log, emptyRequest("batchRequestList"))
		return
	}

	results, err := h.generator.GenerateIDPool(r.Context(), req.RequestInfo, req.BatchRequestList)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, poolResponse{ResponseInfo: responseInfo(req.RequestInfo, true), IDCreationResponse: results})
}

type dispatchResponse struct {
	ResponseInfo ResponseInfo `json:"ResponseInfo"`
	*domain.DispatchResponse
}

// Dispatch hands ids out to the calling device. limit and offset page the
// already allocated ids.
func (h *IDGenHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req domain.DispatchRequest
	if err := decode(w, r, &req, &req.RequestInfo); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	resp, err := h.dispatcher.DispatchIDs(r.Context(), req, limit, offset)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dispatchResponse{ResponseInfo: responseInfo(req.RequestInfo, true), DispatchResponse: resp})
}

type idSearchRequest struct {
	RequestInfo  domain.RequestInfo  `json:"RequestInfo"`
	IDPoolSearch domain.IDPoolSearch `json:"idPoolSearch"`
}

// Search looks ids up by id and status.
func (h *IDGenHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req idSearchRequest
	if err := decode(w, r, &req, &req.RequestInfo); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if req.IDPoolSearch.TenantID == "" {
		writeServiceError(w, r, h.log, domain.NewCustomError(domain.CodeValidationError, "tenantId is required"))
		return
	}

	resp, err := h.dispatcher.SearchIDs(r.Context(), req.IDPoolSearch)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dispatchResponse{ResponseInfo: responseInfo(req.RequestInfo, true), DispatchResponse: resp})
}

type idRecordRequest struct {
	RequestInfo domain.RequestInfo `json:"RequestInfo"`
	IDRecord    *domain.IDRecord   `json:"idRecord"`
}

type idRecordBulkRequest struct {
	RequestInfo domain.RequestInfo `json:"RequestInfo"`
	IDRecords   []*domain.IDRecord `json:"idRecords"`
}

type idRecordResponse struct {
	ResponseInfo ResponseInfo       `json:"ResponseInfo"`
	IDRecords    []*domain.IDRecord `json:"idRecords"`
	Rejected     []RejectedItem     `json:"rejected,omitempty"`
}

// Update changes the status of one pooled id.
func (h *IDGenHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req idRecordRequest
	if err := decode(w, r, &req, &req.RequestInfo); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if req.IDRecord == nil {
		writeServiceError(w, r, h.log, emptyRequest("idRecord"))
		return
	}

	bulk := domain.BulkRequest[*domain.IDRecord]{RequestInfo: req.RequestInfo, Entities: []*domain.IDRecord{req.IDRecord}}
	out, err := h.dispatcher.Update(r.Context(), bulk, false)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, idRecordResponse{ResponseInfo: responseInfo(req.RequestInfo, true), IDRecords: out})
}

// BulkUpdate changes the status of many pooled ids. Invalid records are
// reported and listed as rejected.
func (h *IDGenHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req idRecordBulkRequest
	if err := decode(w, r, &req, &req.RequestInfo); err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	if len(req.IDRecords) == 0 {
		writeServiceError(w, r, h.log, emptyRequest("idRecords"))
		return
	}

	bulk := domain.BulkRequest[*domain.IDRecord]{RequestInfo: req.RequestInfo, Entities: req.IDRecords}
	out, err := h.dispatcher.Update(r.Context(), bulk, true)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, idRecordResponse{
		ResponseInfo: responseInfo(req.RequestInfo, true),
		IDRecords:    out,
		Rejected:     rejected(req.IDRecords),
	})
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, domain.NewCustomError(domain.CodeValidationError, name+" must be a non-negative integer")
	}
	return v, nil
}
