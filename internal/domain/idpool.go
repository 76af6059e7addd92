package domain

// IDStatus is the lifecycle state of a pooled id.
type IDStatus string

const (
	IDStatusUnassigned IDStatus = "UNASSIGNED"
	IDStatusDispatched IDStatus = "DISPATCHED"
	IDStatusAssigned   IDStatus = "ASSIGNED"
	IDStatusInvalid    IDStatus = "INVALID"
)

// IsValid reports whether s is a known status.
func (s IDStatus) IsValid() bool {
	switch s {
	case IDStatusUnassigned, IDStatusDispatched, IDStatusAssigned, IDStatusInvalid:
		return true
	}
	return false
}

func (s IDStatus) String() string { return string(s) }

// IDRecord is one pre-generated id in the pool.
type IDRecord struct {
	Base
	Status string `json:"status,omitempty"`
}

// LastModifiedBy returns the user that last touched the record, or "".
func (r *IDRecord) LastModifiedBy() string {
	if r.AuditDetails == nil {
		return ""
	}
	return r.AuditDetails.LastModifiedBy
}

// IDTransactionLog is the append-only audit of a dispatch or status change.
type IDTransactionLog struct {
	TenantID     string        `json:"tenantId"`
	ID           string        `json:"id"`
	UserUUID     string        `json:"userUuid"`
	DeviceUUID   string        `json:"deviceUuid"`
	DeviceInfo   any           `json:"deviceInfo,omitempty"`
	Status       string        `json:"status"`
	RowVersion   int           `json:"rowVersion"`
	AuditDetails *AuditDetails `json:"auditDetails,omitempty"`
}

// TransactionLogQuery selects the dispatch history of one user/device.
type TransactionLogQuery struct {
	TenantID   string
	UserUUID   string
	DeviceUUID string
	Status     string
	Limit      int
	Offset     int
	// SinceMillis restricts the result to logs created at or after this instant when > 0.
	SinceMillis int64
}

// ClientInfo describes the device asking for ids.
type ClientInfo struct {
	TenantID          string `json:"tenantId"`
	DeviceUUID        string `json:"deviceUuid"`
	DeviceInfo        any    `json:"deviceInfo,omitempty"`
	Count             int    `json:"count"`
	FetchAllocatedIDs *bool  `json:"fetchAllocatedIds,omitempty"`
}

// DispatchRequest asks for a batch of ids for one user/device.
type DispatchRequest struct {
	RequestInfo RequestInfo `json:"RequestInfo"`
	ClientInfo  ClientInfo  `json:"ClientInfo"`
}

// DispatchResponse is the result of a dispatch or a fetch of allocated ids.
type DispatchResponse struct {
	IDResponses []*IDRecord `json:"idResponses"`
	FetchLimit  int64       `json:"fetchLimit"`
	TotalLimit  int64       `json:"totalLimit"`
	TotalCount  *int64      `json:"totalCount,omitempty"`
}

// IDPoolSearch filters pooled ids.
type IDPoolSearch struct {
	TenantID string   `json:"tenantId"`
	Status   string   `json:"status,omitempty"`
	IDList   []string `json:"idList,omitempty"`
}

// IDRequest asks the format engine for Count ids.
type IDRequest struct {
	IDName   string `json:"idName"`
	TenantID string `json:"tenantId"`
	Format   string `json:"format,omitempty"`
	Count    *int   `json:"count,omitempty"`
}

// BatchRequest asks for BatchSize ids to be added to a tenant's pool.
type BatchRequest struct {
	TenantID  string `json:"tenantId"`
	BatchSize int    `json:"batchSize"`
}

// PoolCreationResult reports how a BatchRequest was queued.
type PoolCreationResult struct {
	TenantID string `json:"tenantId"`
	Message  string `json:"message"`
}

// AsyncPoolRequest is one chunk of pool generation handed to the worker.
type AsyncPoolRequest struct {
	TenantID    string      `json:"tenantId"`
	BatchSize   int         `json:"batchSize"`
	RequestInfo RequestInfo `json:"RequestInfo"`
}

// CounterKey identifies the dispatch counters of one user on one device.
type CounterKey struct {
	TenantID string
	UserID   string
	DeviceID string
}
