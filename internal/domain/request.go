package domain

import "fmt"

// RequestInfo is the envelope every API call carries.
type RequestInfo struct {
	APIID     string    `json:"apiId,omitempty"`
	Ver       string    `json:"ver,omitempty"`
	Ts        int64     `json:"ts,omitempty"`
	Action    string    `json:"action,omitempty"`
	MsgID     string    `json:"msgId,omitempty"`
	AuthToken string    `json:"authToken,omitempty"`
	UserInfo  *UserInfo `json:"userInfo,omitempty"`
}

// UserInfo identifies the caller.
type UserInfo struct {
	ID       int64  `json:"id,omitempty"`
	UUID     string `json:"uuid,omitempty"`
	UserName string `json:"userName,omitempty"`
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
	Roles    []Role `json:"roles,omitempty"`
}

// Role is a tenant-scoped role code.
type Role struct {
	Code     string `json:"code"`
	Name     string `json:"name,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
}

func (u *UserInfo) String() string {
	if u == nil {
		return "null"
	}
	return fmt.Sprintf("User(id=%d, uuid=%s, userName=%s, name=%s, type=%s, tenantId=%s)",
		u.ID, u.UUID, u.UserName, u.Name, u.Type, u.TenantID)
}

// UserUUID returns the caller uuid or "".
func (r RequestInfo) UserUUID() string {
	if r.UserInfo == nil {
		return ""
	}
	return r.UserInfo.UUID
}

// BulkRequest is a batch of entities submitted together.
type BulkRequest[T any] struct {
	RequestInfo RequestInfo `json:"RequestInfo"`
	Entities    []T
}
