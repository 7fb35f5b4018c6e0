package repository

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/RentVerify/internal/models"
)

// SeedPassword is the password of every demo account.
const SeedPassword = "password123"

// SeedUsers returns the demo accounts with hashed passwords.
func SeedUsers() ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return []models.User{
		{ID: "tenant-1", Name: "Rahul Sharma", Email: "tenant@example.com", Phone: "+91 9876543220", Role: models.RoleTenant, PasswordHash: hash, CreatedAt: created},
		{ID: "tenant-2", Name: "Priya Patel", Email: "priya@example.com", Phone: "+91 9876543221", Role: models.RoleTenant, PasswordHash: hash, CreatedAt: created},
		{ID: "landlord-1", Name: "John Smith", Email: "landlord@example.com", Phone: "+91 9876543210", Role: models.RoleLandlord, PasswordHash: hash, CreatedAt: created},
	}, nil
}

// SeedRequests returns the demo verification requests.
func SeedRequests() []*models.VerificationRequest {
	at := func(day int) time.Time { return time.Date(2024, 1, day, 10, 0, 0, 0, time.UTC) }
	employment := models.Employment{EmployerName: "Tech Corp", JobTitle: "Software Engineer", MonthlyIncome: 120000, EmploymentType: "full-time"}
	refs := []models.Reference{{Name: "Amit Kumar", Phone: "+91 9876500001", Email: "amit@example.com"}}

	return []*models.VerificationRequest{
		{
			ID: "req-1", TenantID: "tenant-1", ListingID: "1",
			PropertyName: "Modern 2BHK Apartment in Downtown", Address: "123 Main Street, Downtown, City 12345",
			Status:     models.StatusSubmitted,
			TenantName: "Rahul Sharma", TenantEmail: "tenant@example.com", TenantPhone: "+91 9876543220",
			MoveInDate: "2024-02-01", Employment: employment, References: refs,
			Documents: []models.Document{{Name: "ID Proof", URL: "/documents/req-1/id-proof.pdf"}, {Name: "Payslip", URL: "/documents/req-1/payslip.pdf"}},
			Notes:     "Looking to move in with family.",
			CreatedAt: at(15), SubmittedAt: at(15), UpdatedAt: at(15),
		},
		{
			ID: "req-2", TenantID: "tenant-1", ListingID: "6",
			PropertyName: "Modern 2BHK with Balcony", Address: "987 River View, Riverside, City 12345",
			Status:     models.StatusInReview,
			TenantName: "Rahul Sharma", TenantEmail: "tenant@example.com", TenantPhone: "+91 9876543220",
			MoveInDate: "2024-02-15", Employment: employment, References: refs,
			Documents: []models.Document{{Name: "ID Proof", URL: "/documents/req-2/id-proof.pdf"}},
			CreatedAt: at(10), SubmittedAt: at(10), UpdatedAt: at(12),
			History:   []models.HistoryEntry{{At: at(12), Actor: "landlord-1", Action: "review"}},
		},
		{
			ID: "req-3", TenantID: "tenant-2", ListingID: "3",
			PropertyName: "Cozy 1BHK Studio Apartment", Address: "789 Park Road, Midtown, City 12345",
			Status:     models.StatusMoreInfoRequired,
			TenantName: "Priya Patel", TenantEmail: "priya@example.com", TenantPhone: "+91 9876543221",
			MoveInDate: "2024-01-20",
			Employment: models.Employment{EmployerName: "Design Studio", JobTitle: "Designer", MonthlyIncome: 60000, EmploymentType: "contract"},
			References: []models.Reference{{Name: "Neha Singh", Phone: "+91 9876500002", Email: "neha@example.com"}},
			Documents:  []models.Document{{Name: "ID Proof", URL: "/documents/req-3/id-proof.pdf"}},
			Notes:      "\nAdditional info requested: Please upload a recent payslip.",
			CreatedAt:  at(5), SubmittedAt: at(5), UpdatedAt: at(8),
			History:    []models.HistoryEntry{{At: at(8), Actor: "landlord-1", Action: "more_info", Message: "Please upload a recent payslip."}},
		},
	}
}
