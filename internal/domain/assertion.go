package domain

import "time"

// Assertion is a piece of content under trust evaluation. Assertions are
// owned by the content pipeline; the engine only reads the provenance fields.
// SourceID and ImportedBy together form the provenance chain: the source the
// content is attributed to and the bot that imported or composed it.
type Assertion struct {
	ID         string    `json:"id"`
	SourceID   string    `json:"source_id"`
	ImportedBy string    `json:"imported_by,omitempty"`
	Title      string    `json:"title,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ScoredAssertion pairs an assertion with its effective trust for one user.
type ScoredAssertion struct {
	Assertion
	EffectiveTrust float64 `json:"effective_trust"`
}

// ProvenanceTrust is the per-link breakdown of an assertion's trust.
// EffectiveTrust is capped by the weakest link of the provenance chain.
type ProvenanceTrust struct {
	AssertionTrust float64  `json:"assertion_trust"`
	SourceTrust    *float64 `json:"source_trust,omitempty"`
	ImportBotTrust *float64 `json:"import_bot_trust,omitempty"`
	EffectiveTrust float64  `json:"effective_trust"`
}
