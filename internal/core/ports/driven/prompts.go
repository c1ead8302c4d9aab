package driven

import "github.com/parcelworks/deedex-cli/internal/core/domain"

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns domain.ErrPromptNotDefined when no template exists for
	// the name - callers treat that as "skip", not as a failure.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptExtractSettlement extracts structured data from
	// settlement/closing statements. No format placeholders.
	PromptExtractSettlement = "extract_settlement"

	// PromptExtractInspection extracts structured data from
	// inspection reports. No format placeholders.
	PromptExtractInspection = "extract_inspection"

	// PromptExtractContract extracts structured data from
	// purchase contracts. No format placeholders.
	PromptExtractContract = "extract_contract"

	// PromptSummarySettlement summarises settlement statements.
	PromptSummarySettlement = "summary_settlement"

	// PromptSummaryInspection summarises inspection reports.
	PromptSummaryInspection = "summary_inspection"

	// PromptSummaryContract summarises purchase contracts.
	PromptSummaryContract = "summary_contract"

	// PromptSummaryGeneral summarises every other document type.
	PromptSummaryGeneral = "summary_general"

	// PromptAskSystem is the system prompt for document Q&A.
	// This prompt has no format placeholders.
	PromptAskSystem = "ask_system"
)

// ExtractionPromptName maps a document type to its extraction prompt
// name. The second return is false for types without one: appraisal,
// disclosure and general documents only receive generic summaries.
// This gap is intentional and must not be papered over with a default.
func ExtractionPromptName(t domain.DocumentType) (string, bool) {
	switch t {
	case domain.TypeSettlement:
		return PromptExtractSettlement, true
	case domain.TypeInspection:
		return PromptExtractInspection, true
	case domain.TypeContract:
		return PromptExtractContract, true
	default:
		return "", false
	}
}

// SummaryPromptName maps a document type to its summary prompt name.
// Every type has one; unrecognised types get the generic summary.
func SummaryPromptName(t domain.DocumentType) string {
	switch t {
	case domain.TypeSettlement:
		return PromptSummarySettlement
	case domain.TypeInspection:
		return PromptSummaryInspection
	case domain.TypeContract:
		return PromptSummaryContract
	default:
		return PromptSummaryGeneral
	}
}

// PromptStoreAware is an optional interface for services that can use
// custom prompts. Services implementing this interface can have their
// prompt templates customised by injecting a PromptStore after
// construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts. If not set, the service should use hardcoded defaults.
	SetPromptStore(store PromptStore)
}
