package domain

// AuditDetails records who created and last modified an entity. Times are epoch millis.
type AuditDetails struct {
	CreatedBy        string `json:"createdBy,omitempty"`
	CreatedTime      int64  `json:"createdTime,omitempty"`
	LastModifiedBy   string `json:"lastModifiedBy,omitempty"`
	LastModifiedTime int64  `json:"lastModifiedTime,omitempty"`
}

// AdditionalFields is the free-form extension block carried by most entities.
type AdditionalFields struct {
	Schema  *string `json:"schema,omitempty"`
	Version *int    `json:"version,omitempty"`
	Fields  []Field `json:"fields,omitempty"`
}

// Field is a single key/value pair inside AdditionalFields.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// IsEmpty reports whether every subfield is unset.
func (a *AdditionalFields) IsEmpty() bool {
	return a.Schema == nil && a.Version == nil && a.Fields == nil
}

// Entity is the capability set shared by every persisted payload that goes
// through the bulk pipeline.
type Entity interface {
	Identity() string
	AssignID(id string)
	ClientRef() string
	Tenant() string
	Version() int
	SetVersion(v int)
	Deleted() bool
	MarkDeleted(deleted bool)
	Audit() *AuditDetails
	SetAudit(a *AuditDetails)
	Errored() bool
	SetErrored(flag bool)
}

// Owner is implemented by aggregates whose sub-entities share their lifecycle.
type Owner interface {
	Owned() []Entity
}

// Base carries the common entity columns. Concrete entities embed it and are
// always handled through pointers.
type Base struct {
	ID                string            `json:"id,omitempty"`
	ClientReferenceID string            `json:"clientReferenceId,omitempty"`
	TenantID          string            `json:"tenantId"`
	RowVersion        int               `json:"rowVersion"`
	IsDeleted         bool              `json:"isDeleted"`
	AuditDetails      *AuditDetails     `json:"auditDetails,omitempty"`
	AdditionalFields  *AdditionalFields `json:"additionalFields,omitempty"`

	// HasErrors lives for one pipeline pass and is never persisted.
	HasErrors bool `json:"-"`
}

func (b *Base) Identity() string         { return b.ID }
func (b *Base) AssignID(id string)       { b.ID = id }
func (b *Base) ClientRef() string        { return b.ClientReferenceID }
func (b *Base) Tenant() string           { return b.TenantID }
func (b *Base) SetTenant(id string)      { b.TenantID = id }
func (b *Base) Version() int             { return b.RowVersion }
func (b *Base) SetVersion(v int)         { b.RowVersion = v }
func (b *Base) Deleted() bool            { return b.IsDeleted }
func (b *Base) MarkDeleted(deleted bool) { b.IsDeleted = deleted }
func (b *Base) Audit() *AuditDetails     { return b.AuditDetails }
func (b *Base) SetAudit(a *AuditDetails) { b.AuditDetails = a }
func (b *Base) Errored() bool            { return b.HasErrors }
func (b *Base) SetErrored(flag bool)     { b.HasErrors = flag }

// NormalizeAdditionalFields drops an AdditionalFields block whose subfields are all unset.
func (b *Base) NormalizeAdditionalFields() {
	if b.AdditionalFields != nil && b.AdditionalFields.IsEmpty() {
		b.AdditionalFields = nil
	}
}

// Entities converts a typed slice to the capability interface.
func Entities[T Entity](items []T) []Entity {
	out := make([]Entity, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// IDs returns the ids of items in order, skipping empty ones.
func IDs[T Entity](items []T) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.Identity() != "" {
			ids = append(ids, it.Identity())
		}
	}
	return ids
}
