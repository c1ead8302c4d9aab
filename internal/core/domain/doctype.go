package domain

import "strings"

// DocumentType is the coarse category assigned to a document.
// It drives prompt selection and the display category.
type DocumentType string

// Document categories, in classification priority order.
const (
	TypeSettlement DocumentType = "settlement"
	TypeInspection DocumentType = "inspection"
	TypeContract   DocumentType = "contract"
	TypeAppraisal  DocumentType = "appraisal"
	TypeDisclosure DocumentType = "disclosure"

	// TypeGeneral is the fallback when no rule matches. It never
	// triggers a specialised extraction prompt.
	TypeGeneral DocumentType = "general"
)

// typeRule matches a category on text keywords or filename substrings.
type typeRule struct {
	docType       DocumentType
	textKeywords  []string
	nameKeywords  []string
}

// typeRules is an ordered priority cascade: the first matching rule wins,
// so a document containing both settlement and contract language is a
// settlement statement.
var typeRules = []typeRule{
	{
		docType: TypeSettlement,
		textKeywords: []string{
			"alta", "settlement statement", "hud-1",
			"closing disclosure", "disbursement", "net proceeds",
		},
		nameKeywords: []string{"settlement", "closing"},
	},
	{
		docType: TypeInspection,
		textKeywords: []string{
			"home inspection", "property inspection", "inspector",
			"condition report", "deficiency",
		},
		nameKeywords: []string{"inspection"},
	},
	{
		docType: TypeContract,
		textKeywords: []string{
			"purchase agreement", "purchase contract", "real estate contract",
			"earnest money", "buyer agrees", "seller agrees",
		},
		nameKeywords: []string{"contract", "purchase"},
	},
	{
		docType: TypeAppraisal,
		textKeywords: []string{
			"appraisal", "market value", "comparable sales", "subject property",
		},
		nameKeywords: []string{"appraisal"},
	},
	{
		docType: TypeDisclosure,
		textKeywords: []string{
			"seller's disclosure", "property disclosure",
			"lead-based paint", "known defects",
		},
		nameKeywords: []string{"disclosure"},
	},
}

// DetectDocumentType classifies a document from its extracted text and
// original filename. Matching is case-insensitive and the rule order is
// a priority cascade. Returns TypeGeneral when nothing matches.
func DetectDocumentType(text, filename string) DocumentType {
	lowerText := strings.ToLower(text)
	lowerName := strings.ToLower(filename)

	for _, rule := range typeRules {
		for _, kw := range rule.textKeywords {
			if strings.Contains(lowerText, kw) {
				return rule.docType
			}
		}
		for _, kw := range rule.nameKeywords {
			if strings.Contains(lowerName, kw) {
				return rule.docType
			}
		}
	}

	return TypeGeneral
}

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeSettlement, TypeInspection, TypeContract,
		TypeAppraisal, TypeDisclosure, TypeGeneral:
		return true
	}
	return false
}

// Category returns the display category recorded for documents of this
// type. For TypeGeneral the document keeps its existing category, or
// "other" when it has none.
func (t DocumentType) Category(existing string) string {
	switch t {
	case TypeSettlement:
		return "closing"
	case TypeInspection:
		return "inspection"
	case TypeContract:
		return "contract"
	case TypeAppraisal:
		return "appraisal"
	case TypeDisclosure:
		return "disclosure"
	default:
		if existing != "" {
			return existing
		}
		return "other"
	}
}
