package contact

import "strings"

// Icon is the closed set of icons a contact method can render with.
type Icon string

const (
	IconMail      Icon = "mail"
	IconPhone     Icon = "phone"
	IconGithub    Icon = "github"
	IconLinkedin  Icon = "linkedin"
	IconTwitter   Icon = "twitter"
	IconInstagram Icon = "instagram"
	IconFacebook  Icon = "facebook"
	IconYoutube   Icon = "youtube"
	IconTelegram  Icon = "telegram"
	IconWebsite   Icon = "website"
	IconLink      Icon = "link"
)

var iconAliases = map[string]Icon{
	"mail":      IconMail,
	"email":     IconMail,
	"envelope":  IconMail,
	"phone":     IconPhone,
	"tel":       IconPhone,
	"github":    IconGithub,
	"linkedin":  IconLinkedin,
	"twitter":   IconTwitter,
	"x":         IconTwitter,
	"instagram": IconInstagram,
	"facebook":  IconFacebook,
	"youtube":   IconYoutube,
	"telegram":  IconTelegram,
	"send":      IconTelegram,
	"globe":     IconWebsite,
	"website":   IconWebsite,
	"web":       IconWebsite,
	"link":      IconLink,
}

// ParseIcon resolves an icon name typed by the admin (case and dashes ignored,
// so "Github", "GitHub" and "git-hub" match). Unknown names return ok=false.
func ParseIcon(name string) (Icon, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "")
	icon, ok := iconAliases[key]
	return icon, ok
}

// ResolveIcon picks the icon for a contact method: the explicit name when it
// is known, then one derived from the platform label, then IconLink.
func ResolveIcon(name, platform string) Icon {
	if icon, ok := ParseIcon(name); ok {
		return icon
	}

	switch Classify(platform) {
	case KindEmail:
		return IconMail
	case KindPhone:
		return IconPhone
	}

	p := strings.ToLower(platform)
	for _, candidate := range []Icon{IconGithub, IconLinkedin, IconTwitter, IconInstagram, IconFacebook, IconYoutube, IconTelegram} {
		if strings.Contains(p, string(candidate)) {
			return candidate
		}
	}
	if p == "x" {
		return IconTwitter
	}
	if strings.Contains(p, "site") || strings.Contains(p, "portfolio") || strings.Contains(p, "blog") {
		return IconWebsite
	}
	return IconLink
}
