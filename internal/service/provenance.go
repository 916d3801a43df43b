package service

import "github.com/Harshitk-cp/credence/internal/domain"

// ResolveProvenance caps an assertion's inferred trust by the weakest link
// of its attribution chain. An assertion imported by a bot is only as
// trustworthy as the least-trusted of {bot, source}: distrusting the import
// mechanism blocks content even from a trusted source, and a fabricated
// attribution through an unknown bot collapses to zero because unknown bots
// default to zero.
func ResolveProvenance(snap *Snapshot, userID string, a domain.Assertion, p InferenceParams) domain.ProvenanceTrust {
	assertion := InferTrust(snap, userID, a.ID, domain.TargetAssertion, p)

	result := domain.ProvenanceTrust{
		AssertionTrust: assertion.TrustValue,
		EffectiveTrust: assertion.TrustValue,
	}

	if a.ImportedBy == "" {
		return result
	}

	bot := InferTrust(snap, userID, a.ImportedBy, domain.TargetBot, p)
	source := InferTrust(snap, userID, a.SourceID, domain.TargetSource, p)

	result.ImportBotTrust = &bot.TrustValue
	result.SourceTrust = &source.TrustValue

	provenance := bot.TrustValue
	if source.TrustValue < provenance {
		provenance = source.TrustValue
	}
	if provenance < result.EffectiveTrust {
		result.EffectiveTrust = provenance
	}

	return result
}
