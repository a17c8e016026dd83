package mapper

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	docPolicyOnce sync.Once
	docPolicy     *bluemonday.Policy
)

// sanitizeDocumentation strips markup from trait documentation before it
// lands in an example description.
func sanitizeDocumentation(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := documentationSanitizer().Sanitize(html.UnescapeString(trimmed))
	return strings.TrimSpace(policyEntities.Replace(cleaned))
}

// policyEntities undoes the text escaping the policy applies. Angle brackets
// stay escaped so no markup survives.
var policyEntities = strings.NewReplacer(
	"&amp;", "&",
	"&#39;", "'",
	"&#34;", `"`,
	"&quot;", `"`,
)

func documentationSanitizer() *bluemonday.Policy {
	docPolicyOnce.Do(func() {
		docPolicy = bluemonday.StrictPolicy()
	})
	return docPolicy
}
