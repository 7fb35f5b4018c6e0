package stepper

import "strings"

// Step ids of the tenant intake.
const (
	StepBasicInfo  = "basic-info"
	StepEmployment = "employment"
	StepDocuments  = "documents"
	StepReferences = "references"
)

// EmploymentTypes are the accepted values of the employmentType field.
var EmploymentTypes = []string{"full-time", "part-time", "contract", "self-employed"}

// TenantIntakeSteps declares the four-step tenant verification intake.
func TenantIntakeSteps() []Step {
	return []Step{
		{
			ID:    StepBasicInfo,
			Label: "Basic Info",
			Fields: []Field{
				{Name: "name", Label: "Full name", Rules: "required"},
				{Name: "email", Label: "Email", Rules: "required,email"},
				{Name: "phone", Label: "Phone", Rules: "required,phone"},
				{Name: "address", Label: "Current address", Rules: "required"},
				{Name: "moveInDate", Label: "Move-in date (YYYY-MM-DD)", Rules: "required,notpast"},
			},
		},
		{
			ID:    StepEmployment,
			Label: "Employment",
			Fields: []Field{
				{Name: "employerName", Label: "Employer name", Rules: "required"},
				{Name: "jobTitle", Label: "Job title", Rules: "required"},
				{Name: "monthlyIncome", Label: "Monthly income", Kind: KindNumber, Rules: "required,gt=0"},
				{
					Name:  "employmentType",
					Label: "Employment type (" + strings.Join(EmploymentTypes, ", ") + ")",
					Rules: "required,oneof=" + strings.Join(EmploymentTypes, " "),
				},
			},
		},
		{
			ID:    StepDocuments,
			Label: "Documents",
			Fields: []Field{
				{Name: "idProof", Label: "ID proof URL", Rules: "required"},
				{Name: "payslip", Label: "Payslip URL", Rules: "required"},
				{Name: "additionalDocuments", Label: "Additional document URLs (comma separated)", Kind: KindList},
			},
		},
		{
			ID:    StepReferences,
			Label: "References",
			Fields: []Field{
				{Name: "reference1Name", Label: "Reference 1 name", Rules: "required"},
				{Name: "reference1Phone", Label: "Reference 1 phone", Rules: "required,phone"},
				{Name: "reference1Email", Label: "Reference 1 email", Rules: "required,email"},
				{Name: "reference2Name", Label: "Reference 2 name (optional)"},
				{Name: "reference2Phone", Label: "Reference 2 phone", Rules: "required,phone", RequiredWith: "reference2Name"},
				{Name: "reference2Email", Label: "Reference 2 email", Rules: "required,email", RequiredWith: "reference2Name"},
				{Name: "consent", Label: "I consent to verification (yes/no)", Kind: KindBool, Rules: "accepted"},
			},
		},
	}
}
