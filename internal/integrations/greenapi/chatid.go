package greenapi

import "strings"

// NormalizeChatID turns a user-supplied phone number or chat id into the
// WhatsApp chat id GreenAPI expects. Already-suffixed ids pass through
// unchanged. Bare digit strings longer than 15 characters are group ids.
// Ten-digit numbers get the 91 country prefix, matching the service's
// original deployment region.
func NormalizeChatID(raw string) string {
	id := strings.ReplaceAll(strings.TrimSpace(raw), "+", "")

	if strings.HasSuffix(id, "@g.us") || strings.HasSuffix(id, "@c.us") {
		return id
	}
	if !isDigits(id) {
		return id
	}

	if len(id) > 15 {
		return id + "@g.us"
	}
	if len(id) == 10 {
		return "91" + id + "@c.us"
	}
	return id + "@c.us"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
