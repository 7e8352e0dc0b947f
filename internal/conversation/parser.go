// Package conversation provides command parsing, user-facing lines and
// notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/moat/internal/domain"
	"github.com/hammamikhairi/moat/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches typed commands to intents using keywords and
// simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// argRule matches "<verb> <argument>" commands; the argument becomes the
// intent payload.
type argRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

var argRules = []argRule{
	{regexp.MustCompile(`(?i)^(?:select|pick|open|show|goto|go to)\s+(.+)$`), domain.IntentSelectRecipe},
	{regexp.MustCompile(`(?i)^(?:unlock|deploy|execute|fortify|sabotage)\s+(.+)$`), domain.IntentUnlock},
	{regexp.MustCompile(`(?i)^(?:search|find|grep)\s+(.+)$`), domain.IntentSearch},
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(unlock|deploy|execute|fortify|sabotage|u)$`), domain.IntentUnlock},
		{regexp.MustCompile(`(?i)^(next|down|j|n)$`), domain.IntentNext},
		{regexp.MustCompile(`(?i)^(prev|previous|back|up|k|p)$`), domain.IntentPrev},
		{regexp.MustCompile(`(?i)^(status|stats|progress|score|info)$`), domain.IntentStatus},
		{regexp.MustCompile(`(?i)^(list|recipes|log|missions|ls)$`), domain.IntentListRecipes},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string, session *domain.Session) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), ":"))
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// Bare number selects by catalog position (e.g. "3").
	if len(trimmed) <= 2 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentSelectRecipe, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent}, nil
		}
	}

	for _, rule := range argRules {
		if m := rule.regex.FindStringSubmatch(trimmed); m != nil {
			payload := strings.TrimSpace(m[1])
			p.log.Debug("matched intent: %s (payload=%q)", rule.intent, payload)
			return &domain.Intent{Type: rule.intent, Payload: payload}, nil
		}
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
