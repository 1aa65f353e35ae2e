package domain

import "strings"

// Intent is a keyword-triggered canned reply that bypasses the language model
type Intent struct {
	Keywords []string `json:"keywords"`
	Reply    string   `json:"reply"`
}

// IntentMatcher checks messages against intents in configured order
type IntentMatcher struct {
	intents []Intent
}

// NewIntentMatcher lowercases keywords once so Match stays allocation-light
func NewIntentMatcher(intents []Intent) *IntentMatcher {
	normalized := make([]Intent, 0, len(intents))
	for _, intent := range intents {
		keywords := make([]string, 0, len(intent.Keywords))
		for _, k := range intent.Keywords {
			if k = strings.ToLower(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		normalized = append(normalized, Intent{Keywords: keywords, Reply: intent.Reply})
	}
	return &IntentMatcher{intents: normalized}
}

// Match returns the first intent with a keyword contained in message, case-insensitive
func (m *IntentMatcher) Match(message string) (*Intent, bool) {
	msg := strings.ToLower(message)
	for i := range m.intents {
		for _, k := range m.intents[i].Keywords {
			if strings.Contains(msg, k) {
				intent := m.intents[i]
				return &intent, true
			}
		}
	}
	return nil, false
}
