package lifecycle

import (
	"strings"

	"server/internal/domain"
)

// User-facing failure messages. These are the only strings the transport
// layer ever shows for provider trouble; raw provider errors stay in logs.
const (
	msgLifetimeQuota = "The application's API key has exceeded its free quota. The service is temporarily unavailable. Please contact support."
	msgHighTraffic   = "The service is currently experiencing high traffic. Please wait a moment and try again."
	msgUnknown       = "An unknown error occurred."
)

type classifyRule struct {
	match func(lower string) bool
	kind  domain.ErrorKind
	msg   string
}

// classifyRules is evaluated in order against the lower-cased provider
// message. The lifetime-quota rule must run before the generic quota rule
// because both match the word "quota".
var classifyRules = []classifyRule{
	{
		match: func(lower string) bool {
			return strings.Contains(lower, "lifetime quota exceeded")
		},
		kind: domain.ErrKindProviderPermanent,
		msg:  msgLifetimeQuota,
	},
	{
		match: func(lower string) bool {
			return strings.Contains(lower, "resource_exhausted") ||
				strings.Contains(lower, "rate limit") ||
				strings.Contains(lower, "quota")
		},
		kind: domain.ErrKindProviderTransient,
		msg:  msgHighTraffic,
	},
}

// classifyProviderError folds an arbitrary provider error into a
// GenerationError with a safe message. Unmatched errors pass their own
// message through so genuinely descriptive provider text is not lost.
func classifyProviderError(err error) *domain.GenerationError {
	if err == nil {
		return nil
	}
	message := err.Error()
	lower := strings.ToLower(message)
	for _, rule := range classifyRules {
		if rule.match(lower) {
			return domain.NewGenerationError(rule.kind, rule.msg, err)
		}
	}
	if strings.TrimSpace(message) == "" {
		message = msgUnknown
	}
	return domain.NewGenerationError(domain.ErrKindProviderUnknown, message, err)
}
