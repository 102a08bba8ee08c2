package assemble

import (
	"strings"

	"ai-docsearch-be/internal/constant"
	"ai-docsearch-be/pkg/rag/retrieve"

	"github.com/google/uuid"
)

// Result is the assembled context plus the bookkeeping of which fragments
// made it in. Dropped lists fragments cut by the character budget so the
// caller can report them.
type Result struct {
	Context  string
	Included []retrieve.Fragment
	Dropped  []uuid.UUID
}

// Assembler joins retrieved fragment texts into one bounded context string.
// Assemble is a pure function of its input: same fragments, same output.
type Assembler struct {
	maxChars int
}

// NewAssembler creates an assembler with the given character budget.
// maxChars <= 0 disables truncation.
func NewAssembler(maxChars int) *Assembler {
	return &Assembler{maxChars: maxChars}
}

// Assemble concatenates fragment texts in ranked order with the context
// separator. When the budget would be exceeded, lowest-similarity fragments
// are dropped whole, lowest first. The top-ranked fragment is always kept so
// a non-empty result set never assembles to an empty context.
func (a *Assembler) Assemble(fragments []retrieve.Fragment) Result {
	if len(fragments) == 0 {
		return Result{Context: ""}
	}

	var sb strings.Builder
	included := make([]retrieve.Fragment, 0, len(fragments))
	var dropped []uuid.UUID

	total := 0
	for i, f := range fragments {
		cost := len(f.Content)
		if i > 0 {
			cost += len(constant.ContextSeparator)
		}

		if a.maxChars > 0 && i > 0 && total+cost > a.maxChars {
			// Budget exhausted: everything from here down is lower-ranked.
			for _, rest := range fragments[i:] {
				dropped = append(dropped, rest.Id)
			}
			break
		}

		if i > 0 {
			sb.WriteString(constant.ContextSeparator)
		}
		sb.WriteString(f.Content)
		total += cost
		included = append(included, f)
	}

	return Result{
		Context:  sb.String(),
		Included: included,
		Dropped:  dropped,
	}
}
