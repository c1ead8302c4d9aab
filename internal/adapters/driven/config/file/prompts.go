package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/parcelworks/deedex-cli/internal/core/domain"
	"github.com/parcelworks/deedex-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content
// for new files. Only settlement, inspection and contract documents
// have extraction prompts; the other types are summary-only.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptExtractSettlement: `Extract the following structured data from this settlement/closing statement. Return ONLY valid JSON, no other text:
{
  "property_address": "full address",
  "sale_price": "dollar amount",
  "settlement_date": "date if found",
  "seller": {
    "name": "seller name",
    "gross_proceeds": "amount before deductions",
    "net_proceeds": "final amount to seller"
  },
  "buyer": {
    "name": "buyer name if found",
    "cash_from_buyer": "amount if found"
  },
  "deductions": [
    {"description": "item description", "amount": "dollar amount", "payee": "who receives payment"}
  ],
  "credits": [
    {"description": "credit description", "amount": "dollar amount"}
  ],
  "key_figures": {
    "commission_total": "real estate commission amount",
    "mortgage_payoff": "existing loan payoff if any",
    "prorations": "tax/insurance prorations if any"
  }
}`,

	driven.PromptExtractInspection: `Extract the following structured data from this inspection report. Return ONLY valid JSON, no other text:
{
  "property_address": "full address",
  "inspection_date": "date of inspection",
  "inspector_name": "inspector's name if found",
  "overall_condition": "general assessment (good/fair/poor)",
  "major_issues": [
    {"system": "HVAC/Plumbing/Electrical/Roof/etc", "issue": "description", "severity": "high/medium/low", "recommendation": "action needed"}
  ],
  "systems_inspected": ["list of systems/areas inspected"],
  "safety_concerns": ["list of immediate safety issues if any"],
  "recommended_repairs": [
    {"item": "what needs repair", "priority": "immediate/soon/routine", "estimated_cost": "if mentioned"}
  ]
}`,

	driven.PromptExtractContract: `Extract the following structured data from this real estate contract. Return ONLY valid JSON, no other text:
{
  "property_address": "full address",
  "purchase_price": "agreed price",
  "earnest_money": "deposit amount",
  "buyer_name": "buyer's name",
  "seller_name": "seller's name",
  "closing_date": "expected closing date",
  "contingencies": [
    {"type": "financing/inspection/appraisal/sale of home/etc", "deadline": "date if specified", "details": "key terms"}
  ],
  "included_items": ["appliances, fixtures, etc included in sale"],
  "excluded_items": ["items excluded from sale"],
  "key_dates": {
    "effective_date": "contract date",
    "inspection_deadline": "date",
    "financing_deadline": "date",
    "closing_date": "date"
  },
  "special_provisions": ["any special terms or conditions"]
}`,

	driven.PromptSummarySettlement: `Summarize this ALTA/Settlement Statement in 3-4 sentences:
1. Property address and sale price
2. Net proceeds to seller (or amount due from buyer)
3. Major deductions (mortgage payoff, commissions, fees)
4. Settlement/closing date

Focus on the financial outcomes. Be specific with dollar amounts.`,

	driven.PromptSummaryInspection: `Summarize this home inspection report in 3-4 sentences:
1. Property address and inspection date
2. Overall condition assessment
3. Most significant issues found (prioritize safety and major systems)
4. Key recommendations

Focus on actionable findings that affect the transaction.`,

	driven.PromptSummaryContract: `Summarize this real estate contract in 3-4 sentences:
1. Property address and purchase price
2. Key parties (buyer/seller names)
3. Important dates (closing, contingency deadlines)
4. Notable contingencies or special terms

Focus on deal-critical information.`,

	driven.PromptSummaryGeneral: `Summarize this document in 2-3 sentences:
1. Document type and main subject
2. Key information or findings
3. Any important dates, amounts, or action items

Be concise and focus on the most important points.`,

	driven.PromptAskSystem: `You are Deedex, an assistant for real-estate transaction documents. You answer questions using excerpts retrieved from the user's indexed documents.

When answering:
1. Rely only on the provided excerpts - do not invent figures, dates or parties
2. Cite the document a fact came from by its title
3. Quote dollar amounts and dates exactly as they appear
4. If the excerpts do not contain the answer, say so plainly`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.deedex/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".deedex", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist. Names with no
// file and no embedded default return domain.ErrPromptNotDefined.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrPromptNotDefined
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Deedex Prompts

This directory contains customisable prompts used by Deedex's LLM features.

## Files

- ` + "`extract_settlement.txt`" + ` - Structured extraction for settlement statements
- ` + "`extract_inspection.txt`" + ` - Structured extraction for inspection reports
- ` + "`extract_contract.txt`" + ` - Structured extraction for purchase contracts
- ` + "`summary_settlement.txt`" + ` - Summary prompt for settlement statements
- ` + "`summary_inspection.txt`" + ` - Summary prompt for inspection reports
- ` + "`summary_contract.txt`" + ` - Summary prompt for purchase contracts
- ` + "`summary_general.txt`" + ` - Summary prompt for everything else
- ` + "`ask_system.txt`" + ` - System prompt for document Q&A

Appraisal and disclosure documents have no extraction prompt on purpose:
they are summarised with their type's summary prompt only.

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command. Extraction prompts must instruct the model to return valid JSON.
`

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("create README: %w", err)
	}
	return nil
}
