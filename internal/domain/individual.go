package domain

// Identifier types with special handling.
const (
	IdentifierUniqueBeneficiaryID = "UNIQUE_BENEFICIARY_ID"
	IdentifierSystemGenerated     = "SYSTEM_GENERATED"
)

// Individual is a registered person. Addresses, identifiers and skills are
// owned sub-entities and follow the individual's lifecycle.
type Individual struct {
	Base
	IndividualID string        `json:"individualId,omitempty"`
	UserUUID     string        `json:"userUuid,omitempty"`
	Name         Name          `json:"name"`
	DateOfBirth  string        `json:"dateOfBirth,omitempty"`
	Gender       string        `json:"gender,omitempty"`
	MobileNumber string        `json:"mobileNumber,omitempty"`
	Email        string        `json:"email,omitempty"`
	Address      []*Address    `json:"address,omitempty"`
	Identifiers  []*Identifier `json:"identifiers,omitempty"`
	Skills       []*Skill      `json:"skills,omitempty"`
}

// Name is a person's name parts.
type Name struct {
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	OtherNames string `json:"otherNames,omitempty"`
}

// Address is an individual's postal or geo address.
type Address struct {
	Base
	IndividualID string   `json:"individualId,omitempty"`
	Type         string   `json:"type,omitempty"`
	DoorNo       string   `json:"doorNo,omitempty"`
	AddressLine1 string   `json:"addressLine1,omitempty"`
	AddressLine2 string   `json:"addressLine2,omitempty"`
	City         string   `json:"city,omitempty"`
	Pincode      string   `json:"pincode,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Locality     string   `json:"locality,omitempty"`
}

// Identifier is an external id attached to an individual.
type Identifier struct {
	Base
	IndividualID   string `json:"individualId,omitempty"`
	IdentifierType string `json:"identifierType"`
	IdentifierID   string `json:"identifierId"`
}

// Skill is a declared skill of an individual.
type Skill struct {
	Base
	IndividualID string `json:"individualId,omitempty"`
	Type         string `json:"type"`
	Level        string `json:"level,omitempty"`
	Experience   string `json:"experience,omitempty"`
}

// Owned returns every sub-entity of the individual.
func (i *Individual) Owned() []Entity {
	out := make([]Entity, 0, len(i.Address)+len(i.Identifiers)+len(i.Skills))
	for _, a := range i.Address {
		if a != nil {
			out = append(out, a)
		}
	}
	for _, id := range i.Identifiers {
		if id != nil {
			out = append(out, id)
		}
	}
	for _, s := range i.Skills {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// BeneficiaryID returns the first non-blank UNIQUE_BENEFICIARY_ID identifier value.
func (i *Individual) BeneficiaryID() (string, bool) {
	for _, id := range i.Identifiers {
		if id != nil && equalFold(id.IdentifierType, IdentifierUniqueBeneficiaryID) && id.IdentifierID != "" {
			return id.IdentifierID, true
		}
	}
	return "", false
}

// LinkSubEntities stamps the individual's id on every sub-entity.
func (i *Individual) LinkSubEntities() {
	for _, e := range i.Owned() {
		switch sub := e.(type) {
		case *Address:
			sub.IndividualID = i.ID
		case *Identifier:
			sub.IndividualID = i.ID
		case *Skill:
			sub.IndividualID = i.ID
		}
	}
}

// IndividualSearch filters individuals.
type IndividualSearch struct {
	TenantID           string   `json:"tenantId"`
	IDs                []string `json:"id,omitempty"`
	ClientReferenceIDs []string `json:"clientReferenceId,omitempty"`
	MobileNumber       string   `json:"mobileNumber,omitempty"`
	IncludeDeleted     bool     `json:"includeDeleted,omitempty"`
	Limit              int      `json:"limit,omitempty"`
	Offset             int      `json:"offset,omitempty"`
}
