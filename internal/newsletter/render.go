// Package newsletter implements the subscriber lifecycle, template
// rendering and campaign delivery pipeline. Persistence and the mail
// transport are injected; the package holds no global state.
package newsletter

import (
	"fmt"
	"regexp"

	"github.com/Bobybuu/real-estate-Gabby/internal/model"
)

var (
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	placeholderRe = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)
)

// StripTags removes markup tags, leaving the text content.
func StripTags(html string) string {
	return tagRe.ReplaceAllString(html, "")
}

// substitute resolves every {{ key }} placeholder in a single pass over
// body. Substituted text is never re-scanned, so a context value that
// itself contains placeholder syntax passes through literally and the
// output does not depend on map iteration order.
func substitute(body string, context map[string]interface{}) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(match string) string {
		key := placeholderRe.FindStringSubmatch(match)[1]
		value, ok := context[key]
		if !ok {
			return match
		}
		return fmt.Sprint(value)
	})
}

// Render substitutes {{ key }} placeholders (any space padding) with the
// string form of the context value and returns the HTML and plain bodies.
// Unresolved placeholders are left verbatim. When the template carries no
// plain-text body it is derived by stripping tags from the HTML before
// substitution, so both bodies end up with identical substituted text.
func Render(tmpl *model.EmailTemplate, context map[string]interface{}) (string, string) {
	plain := tmpl.PlainTextContent
	if plain == "" {
		plain = StripTags(tmpl.HTMLContent)
	}
	return substitute(tmpl.HTMLContent, context), substitute(plain, context)
}
