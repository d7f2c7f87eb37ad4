package compliance

import "github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"

// DefaultPIIPatterns are matched case-insensitively.
var DefaultPIIPatterns = map[string]string{
	"ssn":         `\b\d{3}-\d{2}-\d{4}\b`,
	"credit_card": `\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`,
	"phone":       `\b(\+\d{1,2}\s)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`,
	"email":       `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
	"ip_address":  `\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`,
}

// redactionOrder runs the more specific patterns first so a card number is
// not partially consumed as a phone number.
var redactionOrder = []string{"ssn", "credit_card", "phone", "email", "ip_address"}

var DefaultMedicalKeywords = []string{
	"patient",
	"diagnosis",
	"prescription",
	"medical record",
	"health record",
	"medical history",
	"medication",
	"treatment plan",
	"lab result",
	"blood test",
	"symptom",
	"hipaa",
}

// MedicalCategory is the finding category and rule key for medical keyword hits.
const MedicalCategory = "medical"

var DefaultRules = map[string]config.ComplianceRule{
	"HIPAA": {
		Description:     "Health Insurance Portability and Accountability Act",
		Prohibited:      []string{MedicalCategory, "ssn"},
		RequiredActions: []string{"Limit disclosure of protected health information to the minimum necessary"},
	},
	"GDPR": {
		Description:     "General Data Protection Regulation",
		Prohibited:      []string{"email", "phone", "ip_address"},
		RequiredActions: []string{"Confirm a lawful basis before processing personal data"},
	},
	"PCI-DSS": {
		Description:     "Payment Card Industry Data Security Standard",
		Prohibited:      []string{"credit_card"},
		RequiredActions: []string{"Never expose full card numbers; mask all but the last four digits"},
	},
}
