package domain

// ProjectBeneficiary links a beneficiary (individual or household) to a project.
type ProjectBeneficiary struct {
	Base
	ProjectID                    string  `json:"projectId"`
	BeneficiaryID                string  `json:"beneficiaryId,omitempty"`
	BeneficiaryClientReferenceID string  `json:"beneficiaryClientReferenceId,omitempty"`
	DateOfRegistration           int64   `json:"dateOfRegistration,omitempty"`
	Tag                          *string `json:"tag,omitempty"`
}

// TagValue returns the voucher tag or "".
func (p *ProjectBeneficiary) TagValue() string {
	if p.Tag == nil {
		return ""
	}
	return *p.Tag
}
