package profilesync

import (
	"github.com/trstyle/storefront-services/internal/userstore"
)

// ProfileFromClaims derives the user key and merge payload from identity
// claims. Two claim shapes are handled: standard OIDC userinfo
// (email/name/picture/sub) and the Firebase-style shape
// (uid/displayName/photoURL). The key is the email when present, otherwise
// the provider-issued subject, so records from both sources converge on the
// same document when the email matches.
func ProfileFromClaims(claims map[string]interface{}, provider string) (string, userstore.Profile) {
	p := userstore.Profile{Provider: provider}

	email := stringClaim(claims, "email")
	if email != "" {
		p.Email = &email
	}

	if name := firstStringClaim(claims, "name", "displayName"); name != "" {
		p.Name = &name
	}
	if image := firstStringClaim(claims, "picture", "photoURL", "image"); image != "" {
		p.Image = &image
	}

	key := email
	if key == "" {
		key = firstStringClaim(claims, "sub", "uid")
	}
	return key, p
}

func stringClaim(claims map[string]interface{}, name string) string {
	v, _ := claims[name].(string)
	return v
}

func firstStringClaim(claims map[string]interface{}, names ...string) string {
	for _, n := range names {
		if v := stringClaim(claims, n); v != "" {
			return v
		}
	}
	return ""
}
