package model

import "time"

// Role is the access role assigned to a user account.
type Role string

const (
	RoleVendor     Role = "vendor"
	RoleConsultant Role = "consultant"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleVendor, RoleConsultant, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the directory. Vendors may carry a weak
// reference to the consultant assigned to review their documents; the
// referenced user must itself have the consultant role.
type User struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	Role                  Role      `json:"role"`
	Company               string    `json:"company,omitempty"`
	Phone                 string    `json:"phone,omitempty"`
	Address               string    `json:"address,omitempty"`
	IsActive              bool      `json:"is_active"`
	RequiresLoginApproval bool      `json:"requires_login_approval"`
	AssignedConsultantID  string    `json:"assigned_consultant_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// VendorAnalytics is the per-vendor compliance rollup attached to vendor
// listings and the vendor analytics report.
type VendorAnalytics struct {
	TotalDocuments    int       `json:"total_documents"`
	ApprovedDocuments int       `json:"approved_documents"`
	PendingDocuments  int       `json:"pending_documents"`
	RejectedDocuments int       `json:"rejected_documents"`
	ComplianceRate    int       `json:"compliance_rate"`
	LastActivity      time.Time `json:"last_activity"`
}

// ConsultantMetrics summarizes a consultant's review throughput.
type ConsultantMetrics struct {
	AssignedVendors    int `json:"assigned_vendors"`
	ProcessedDocuments int `json:"processed_documents"`
	ApprovedDocuments  int `json:"approved_documents"`
	RejectedDocuments  int `json:"rejected_documents"`
	ApprovalRate       int `json:"approval_rate"`
	AvgResponseHours   int `json:"avg_response_hours"`
}
