package processors

import "strings"

// DefaultCancellationKeywords is the keyword set inherited from the source
// reconciliation policy. Any billing-type label containing one of these
// substrings is treated as a cancellation or chargeback. The débito/debito
// entries classify debit-labelled settlements as cancellations too; the set
// is injectable (CANCELLATION_KEYWORDS) so that policy can be revisited
// without touching aggregation code.
var DefaultCancellationKeywords = []string{
	"cancelad",
	"cancel",
	"estorn",
	"débito",
	"debito",
}

// CancellationClassifier decides whether a billing-type label denotes a
// cancelled/chargeback transaction. Matching is case-insensitive substring
// containment over a fixed keyword list; it is a pure predicate.
type CancellationClassifier struct {
	keywords []string
}

// NewCancellationClassifier builds a classifier over the given keyword set,
// falling back to DefaultCancellationKeywords when the set is empty.
func NewCancellationClassifier(keywords []string) *CancellationClassifier {
	if len(keywords) == 0 {
		keywords = DefaultCancellationKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &CancellationClassifier{keywords: lowered}
}

// IsCancelled reports whether the billing-type label matches any
// cancellation keyword. Empty labels are valid sales.
func (c *CancellationClassifier) IsCancelled(billingType string) bool {
	if billingType == "" {
		return false
	}
	label := strings.ToLower(billingType)
	for _, kw := range c.keywords {
		if strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
