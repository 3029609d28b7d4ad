package checkout

import (
	"github.com/bizflow/backend/internal/domain/crm"
)

// TriggerRule inspects a contact after a checkout commits and reports
// whether it fires, together with the tag it attaches.
type TriggerRule interface {
	// Evaluate returns the tag and true when the rule fires for the contact
	Evaluate(contact *crm.Contact) (string, bool)
}

// VIPScoreRule fires when a contact's score reaches the threshold
type VIPScoreRule struct {
	Threshold int
}

// Evaluate implements TriggerRule
func (r VIPScoreRule) Evaluate(contact *crm.Contact) (string, bool) {
	if contact.Score >= r.Threshold {
		return "vip", true
	}
	return "", false
}

// TriggerEvaluator runs all configured rules against a contact.
// Evaluation happens after the checkout transaction commits and is
// best effort: a rule result never affects the committed order.
type TriggerEvaluator struct {
	rules []TriggerRule
}

// NewTriggerEvaluator creates an evaluator with the given rules
func NewTriggerEvaluator(rules ...TriggerRule) *TriggerEvaluator {
	return &TriggerEvaluator{rules: rules}
}

// Evaluate returns the tags of every rule that fired
func (e *TriggerEvaluator) Evaluate(contact *crm.Contact) []string {
	var tags []string
	for _, rule := range e.rules {
		if tag, fired := rule.Evaluate(contact); fired {
			tags = append(tags, tag)
		}
	}
	return tags
}

// HasTag reports whether a tag is present in the evaluation result
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
