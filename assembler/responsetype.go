package assembler

import (
	"strings"

	"github.com/brunobiangulo/legalrag"
)

// intentResponseType is the default response type for each primary
// intent, before content-cue overrides are applied (spec.md §4.6 step 7).
var intentResponseType = map[legalrag.Intent]legalrag.ResponseType{
	legalrag.IntentInformationSeeking: legalrag.ResponseDirectAnswer,
	legalrag.IntentProcedural:         legalrag.ResponseProcedural,
	legalrag.IntentCoverage:           legalrag.ResponseCoverage,
	legalrag.IntentExclusion:         legalrag.ResponseExclusion,
	legalrag.IntentFinancial:         legalrag.ResponsePremium,
	legalrag.IntentTemporal:          legalrag.ResponseWaitingPeriod,
	legalrag.IntentClaim:             legalrag.ResponseClaim,
}

// contentCueOverrides tilts the response type toward a more specific
// variant when the answer itself uses language that names it more
// precisely than the query's primary intent alone would suggest.
var contentCueOverrides = []struct {
	cue  string
	kind legalrag.ResponseType
}{
	{"excluded", legalrag.ResponseExclusion},
	{"exclusion", legalrag.ResponseExclusion},
	{"waiting period", legalrag.ResponseWaitingPeriod},
	{"premium", legalrag.ResponsePremium},
	{"renewal", legalrag.ResponseRenewal},
	{"renew", legalrag.ResponseRenewal},
	{"terminat", legalrag.ResponseTermination},
	{"limit of liability", legalrag.ResponseLimitation},
	{"sub-limit", legalrag.ResponseLimitation},
	{"claim", legalrag.ResponseClaim},
}

// selectResponseType implements spec.md §4.6 step 7: pick the intent's
// default type, then let content cues in the generated answer narrow it
// to a more specific variant.
func selectResponseType(intent legalrag.Intent, answer string) legalrag.ResponseType {
	rt, ok := intentResponseType[intent]
	if !ok {
		rt = legalrag.ResponseGeneral
	}

	lower := strings.ToLower(answer)
	for _, cue := range contentCueOverrides {
		if strings.Contains(lower, cue.cue) {
			return cue.kind
		}
	}
	return rt
}
