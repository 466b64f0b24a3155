// Package contact turns free-text contact platform labels into link schemes and icons.
package contact

import "strings"

// Kind is the link family a platform label belongs to.
type Kind int

const (
	KindWeb Kind = iota
	KindEmail
	KindPhone
)

var phoneWords = []string{"phone", "mobile", "whatsapp", "call", "cell"}

// Classify maps a platform label such as "Email", "Work phone" or "GitHub" to its Kind.
func Classify(platform string) Kind {
	p := strings.ToLower(strings.TrimSpace(platform))
	if strings.Contains(p, "mail") {
		return KindEmail
	}
	if p == "tel" {
		return KindPhone
	}
	for _, w := range phoneWords {
		if strings.Contains(p, w) {
			return KindPhone
		}
	}
	return KindWeb
}

var recognizedSchemes = []string{"http://", "https://", "mailto:", "tel:"}

// HasScheme reports whether v already starts with one of the recognized schemes.
func HasScheme(v string) bool {
	lower := strings.ToLower(v)
	for _, s := range recognizedSchemes {
		if strings.HasPrefix(lower, s) {
			return true
		}
	}
	return false
}

// NormalizeURL returns raw qualified with the scheme its platform implies:
// mailto: for email platforms, tel: for phone platforms and https:// for
// anything else that has no recognized scheme yet. It is idempotent.
func NormalizeURL(raw, platform string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return v
	}

	switch Classify(platform) {
	case KindEmail:
		if hasPrefixFold(v, "mailto:") {
			return v
		}
		return "mailto:" + v
	case KindPhone:
		if hasPrefixFold(v, "tel:") {
			return v
		}
		return "tel:" + v
	default:
		if HasScheme(v) {
			return v
		}
		return "https://" + v
	}
}

// NormalizeWebURL is NormalizeURL for plain web links such as project URLs.
func NormalizeWebURL(raw string) string {
	return NormalizeURL(raw, "")
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
