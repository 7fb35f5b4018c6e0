package models

import "time"

// Status is the review state of a verification request.
// The string values are part of the wire contract.
type Status string

const (
	StatusSubmitted        Status = "submitted"
	StatusInReview         Status = "in_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusMoreInfoRequired Status = "more_info_required"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{
	StatusSubmitted,
	StatusInReview,
	StatusApproved,
	StatusRejected,
	StatusMoreInfoRequired,
}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label. Unknown values come back verbatim.
func (s Status) Label() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusInReview:
		return "In Review"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusMoreInfoRequired:
		return "More Info Required"
	default:
		return string(s)
	}
}

// Document references an uploaded file by name and retrievable location.
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Employment holds the employment section of the intake form.
type Employment struct {
	EmployerName   string  `json:"employerName,omitempty"`
	JobTitle       string  `json:"jobTitle,omitempty"`
	MonthlyIncome  float64 `json:"monthlyIncome,omitempty"`
	EmploymentType string  `json:"employmentType,omitempty"`
}

// Reference is a personal reference supplied by the tenant.
type Reference struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// HistoryEntry records a single review action on a request.
type HistoryEntry struct {
	At      time.Time `json:"at"`
	Actor   string    `json:"actor"`
	Action  string    `json:"action"`
	Message string    `json:"message,omitempty"`
}

// VerificationRequest is the single stored record behind both the tenant
// and the landlord views.
type VerificationRequest struct {
	ID           string         `json:"id"`
	TenantID     string         `json:"tenantId"`
	ListingID    string         `json:"listingId"`
	PropertyName string         `json:"propertyName"`
	Address      string         `json:"address"`
	Status       Status         `json:"status"`
	TenantName   string         `json:"tenantName"`
	TenantEmail  string         `json:"tenantEmail"`
	TenantPhone  string         `json:"tenantPhone"`
	MoveInDate   string         `json:"moveInDate"`
	Employment   Employment     `json:"employment"`
	References   []Reference    `json:"references"`
	Documents    []Document     `json:"documents"`
	Notes        string         `json:"notes"`
	History      []HistoryEntry `json:"history"`
	CreatedAt    time.Time      `json:"createdAt"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Clone returns a deep copy so callers never share slices with a store.
func (r *VerificationRequest) Clone() *VerificationRequest {
	c := *r
	c.References = append([]Reference(nil), r.References...)
	c.Documents = append([]Document(nil), r.Documents...)
	c.History = append([]HistoryEntry(nil), r.History...)
	return &c
}

// RequestPatch carries the fields of a shallow merge. Nil fields keep
// their prior values.
type RequestPatch struct {
	ListingID    *string      `json:"listingId,omitempty"`
	PropertyName *string      `json:"propertyName,omitempty"`
	Address      *string      `json:"address,omitempty"`
	TenantName   *string      `json:"tenantName,omitempty"`
	TenantEmail  *string      `json:"tenantEmail,omitempty"`
	TenantPhone  *string      `json:"tenantPhone,omitempty"`
	MoveInDate   *string      `json:"moveInDate,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	Employment   *Employment  `json:"employment,omitempty"`
	References   *[]Reference `json:"references,omitempty"`
	Documents    *[]Document  `json:"documents,omitempty"`
}

// Apply merges the patch into r.
func (p RequestPatch) Apply(r *VerificationRequest) {
	if p.ListingID != nil {
		r.ListingID = *p.ListingID
	}
	if p.PropertyName != nil {
		r.PropertyName = *p.PropertyName
	}
	if p.Address != nil {
		r.Address = *p.Address
	}
	if p.TenantName != nil {
		r.TenantName = *p.TenantName
	}
	if p.TenantEmail != nil {
		r.TenantEmail = *p.TenantEmail
	}
	if p.TenantPhone != nil {
		r.TenantPhone = *p.TenantPhone
	}
	if p.MoveInDate != nil {
		r.MoveInDate = *p.MoveInDate
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.Employment != nil {
		r.Employment = *p.Employment
	}
	if p.References != nil {
		r.References = append([]Reference(nil), (*p.References)...)
	}
	if p.Documents != nil {
		r.Documents = append([]Document(nil), (*p.Documents)...)
	}
}

// RequestFilter narrows a request listing. Zero values match everything.
type RequestFilter struct {
	TenantID string
	Statuses []Status
}

// Matches reports whether r passes the filter.
func (f RequestFilter) Matches(r *VerificationRequest) bool {
	if f.TenantID != "" && r.TenantID != f.TenantID {
		return false
	}
	if len(f.Statuses) == 0 {
		return true
	}
	for _, s := range f.Statuses {
		if r.Status == s {
			return true
		}
	}
	return false
}

// TenantView is the tenant-facing projection of a request.
type TenantView struct {
	ID           string     `json:"id"`
	ListingID    string     `json:"listingId"`
	PropertyName string     `json:"propertyName"`
	Address      string     `json:"address"`
	Status       Status     `json:"status"`
	MoveInDate   string     `json:"moveInDate"`
	Documents    []Document `json:"documents"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	SubmittedAt  time.Time  `json:"submittedAt"`
}

// LandlordView is the landlord-facing projection of a request.
type LandlordView struct {
	TenantView
	TenantName  string         `json:"tenantName"`
	TenantEmail string         `json:"tenantEmail"`
	TenantPhone string         `json:"tenantPhone"`
	Employment  Employment     `json:"employment"`
	References  []Reference    `json:"references"`
	History     []HistoryEntry `json:"history"`
}

// ForTenant projects r for the tenant who owns it.
func (r *VerificationRequest) ForTenant() TenantView {
	docs := make([]Document, len(r.Documents))
	copy(docs, r.Documents)
	return TenantView{
		ID:           r.ID,
		ListingID:    r.ListingID,
		PropertyName: r.PropertyName,
		Address:      r.Address,
		Status:       r.Status,
		MoveInDate:   r.MoveInDate,
		Documents:    docs,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		SubmittedAt:  r.SubmittedAt,
	}
}

// ForLandlord projects r for the reviewing landlord.
func (r *VerificationRequest) ForLandlord() LandlordView {
	refs := make([]Reference, len(r.References))
	copy(refs, r.References)
	hist := make([]HistoryEntry, len(r.History))
	copy(hist, r.History)
	return LandlordView{
		TenantView:  r.ForTenant(),
		TenantName:  r.TenantName,
		TenantEmail: r.TenantEmail,
		TenantPhone: r.TenantPhone,
		Employment:  r.Employment,
		References:  refs,
		History:     hist,
	}
}

// RequestInput is the tenant-supplied payload of a new request.
type RequestInput struct {
	ListingID    string      `json:"listingId"`
	PropertyName string      `json:"propertyName"`
	Address      string      `json:"address"`
	TenantName   string      `json:"tenantName"`
	TenantEmail  string      `json:"tenantEmail"`
	TenantPhone  string      `json:"tenantPhone"`
	MoveInDate   string      `json:"moveInDate"`
	Employment   Employment  `json:"employment"`
	References   []Reference `json:"references"`
	Documents    []Document  `json:"documents"`
	Notes        string      `json:"notes"`
}
