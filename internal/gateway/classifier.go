// Package gateway decides, per request path, which authentication the
// request must carry before it reaches a handler.
package gateway

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Access is the authentication a path requires. The zero value is
// SessionRequired so an unset or unmatched decision fails closed.
type Access int

const (
	SessionRequired Access = iota
	PublicNoAuth
	PublicAPIKey
)

func (a Access) String() string {
	switch a {
	case PublicNoAuth:
		return "PUBLIC_NO_AUTH"
	case PublicAPIKey:
		return "PUBLIC_API_KEY"
	default:
		return "SESSION_REQUIRED"
	}
}

// IsPublic reports whether session enforcement is skipped
func (a Access) IsPublic() bool {
	return a == PublicNoAuth || a == PublicAPIKey
}

// Rule is one row of the routing policy table
type Rule struct {
	Name   string
	Match  func(p string) bool
	Access Access
}

// Classifier evaluates an ordered rule table; the first match wins
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier over rules. With no rules the default policy is used.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the access class for a raw request path. It performs no I/O.
func (c *Classifier) Classify(rawPath string) Access {
	_, access := c.Match(rawPath)
	return access
}

// Match is Classify plus the name of the rule that decided, "" for the default
func (c *Classifier) Match(rawPath string) (string, Access) {
	p, ok := normalize(rawPath)
	if !ok {
		return "", SessionRequired
	}
	for _, rule := range c.rules {
		if rule.Match(p) {
			return rule.Name, rule.Access
		}
	}
	return "", SessionRequired
}

// normalize decodes, lowercases and cleans the path so that the router and the
// policy agree on what "/chat/internal" is. Fiber routes case-insensitively.
func normalize(rawPath string) (string, bool) {
	if rawPath == "" {
		return "", false
	}
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(decoded, "/") {
		decoded = "/" + decoded
	}
	return path.Clean(strings.ToLower(decoded)), true
}

// Exact matches one literal path
func Exact(literal string) func(string) bool {
	return func(p string) bool {
		return p == literal
	}
}

// Segment matches base and anything below it on a segment boundary, so
// Segment("/chat") matches "/chat/x" but not "/chatbots".
func Segment(base string) func(string) bool {
	return func(p string) bool {
		return p == base || strings.HasPrefix(p, base+"/")
	}
}

// Pattern matches a regular expression against the normalized path
func Pattern(expr string) func(string) bool {
	re := regexp.MustCompile(expr)
	return re.MatchString
}

// Any matches when one of the matchers does
func Any(matchers ...func(string) bool) func(string) bool {
	return func(p string) bool {
		for _, m := range matchers {
			if m(p) {
				return true
			}
		}
		return false
	}
}

// Not inverts a matcher
func Not(m func(string) bool) func(string) bool {
	return func(p string) bool {
		return !m(p)
	}
}

// All matches when every matcher does
func All(matchers ...func(string) bool) func(string) bool {
	return func(p string) bool {
		for _, m := range matchers {
			if !m(p) {
				return false
			}
		}
		return true
	}
}

var staticAsset = `\.(?:svg|png|jpe?g|gif|webp|avif|ico|woff2?|ttf|otf|eot)$`

// DefaultRules is the platform's routing policy. Order matters: the
// /chat/internal exclusion must precede the public /chat allowance.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "background-jobs", Match: Segment("/api/inngest"), Access: PublicNoAuth},
		{Name: "unified-chat", Match: Segment("/api/chat"), Access: PublicAPIKey},
		{Name: "public-chatbot", Match: Segment("/api/chatbots/public"), Access: PublicNoAuth},
		{Name: "widget-script", Match: Exact("/widget.js"), Access: PublicNoAuth},
		{Name: "internal-chat-ui", Match: Segment("/chat/internal"), Access: SessionRequired},
		{Name: "chat-ui", Match: Segment("/chat"), Access: PublicNoAuth},
		{Name: "static-assets", Match: Any(
			Segment("/_next/static"),
			Segment("/_next/image"),
			Exact("/favicon.ico"),
			// an asset extension never opens up an API route
			All(Not(Segment("/api")), Pattern(staticAsset)),
		), Access: PublicNoAuth},
		{Name: "operations", Match: Any(Exact("/health"), Exact("/ready"), Exact("/metrics")), Access: PublicNoAuth},
	}
}
