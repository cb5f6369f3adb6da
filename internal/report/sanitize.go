package report

import "regexp"

// Model output is untrusted. SanitizeHTML strips the markup that could run
// script or pull remote content from an emailed report body, keeping the
// benign presentation HTML intact.

var (
	htmlFenceRe   = regexp.MustCompile("(?s)```html\\s*(.*?)```")
	otherFenceRe  = regexp.MustCompile("(?s)```.*?```")
	commentRe     = regexp.MustCompile(`(?s)<!--.*?-->`)
	pairedTagRe   = regexp.MustCompile(`(?is)<(script|style|iframe|object|embed)\b[^>]*>.*?</\s*(?:script|style|iframe|object|embed)\s*>`)
	strayTagRe    = regexp.MustCompile(`(?is)</?(?:script|style|iframe|object|embed|link|meta|base)\b[^>]*>`)
	eventAttrRe   = regexp.MustCompile(`(?is)\s+on\w+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	riskyAttrRe   = regexp.MustCompile(`(?is)\s+(?:style|formaction|srcdoc)\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	jsURIRe       = regexp.MustCompile(`(?is)(href|src|action)\s*=\s*(["']?)\s*javascript:[^"'>\s]*`)
	imgTagRe      = regexp.MustCompile(`(?is)<img\b`)
)

// SanitizeHTML returns body with code fences, comments, active content and
// scriptable attributes removed. The result is safe to inline in an email.
func SanitizeHTML(body string) string {
	out := htmlFenceRe.ReplaceAllString(body, "$1")
	out = otherFenceRe.ReplaceAllString(out, "")
	out = commentRe.ReplaceAllString(out, "")
	out = pairedTagRe.ReplaceAllString(out, "")
	out = strayTagRe.ReplaceAllString(out, "")
	out = eventAttrRe.ReplaceAllString(out, "")
	out = riskyAttrRe.ReplaceAllString(out, "")
	out = jsURIRe.ReplaceAllString(out, `$1=$2#`)
	return out
}

// hasInlineImage reports whether the body already carries an <img> tag, in
// which case no chart is injected.
func hasInlineImage(body string) bool {
	return imgTagRe.MatchString(body)
}
