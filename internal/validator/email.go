package validator

import (
	"strings"

	"github.com/seu-repo/arremateai/internal/domain"
)

// personalDomains are consumer and disposable mailbox providers that are not
// accepted as a company address.
var personalDomains = map[string]struct{}{
	// Google
	"gmail.com":      {},
	"googlemail.com": {},
	// Microsoft
	"hotmail.com": {},
	"outlook.com": {},
	"live.com":    {},
	"msn.com":     {},
	// Yahoo
	"yahoo.com":      {},
	"yahoo.com.br":   {},
	"ymail.com":      {},
	"rocketmail.com": {},
	// Apple
	"icloud.com": {},
	"me.com":     {},
	"mac.com":    {},
	// Others
	"aol.com":        {},
	"protonmail.com": {},
	"proton.me":      {},
	"zoho.com":       {},
	"mail.com":       {},
	"gmx.com":        {},
	"gmx.net":        {},
	"yandex.com":     {},
	"yandex.ru":      {},
	// Disposable
	"tempmail.com":      {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"throwaway.email":   {},
	"mailinator.com":    {},
	"maildrop.cc":       {},
}

// EmailDomain returns the part after the last '@', or "" if there is none.
func EmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

// IsCorporateEmail reports whether the address belongs to a company domain.
// The check is a static deny-list; no DNS lookup is made.
func IsCorporateEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	host := strings.ToLower(strings.TrimSpace(EmailDomain(email)))
	if host == "" {
		return false
	}
	_, personal := personalDomains[host]
	return !personal
}

// ValidateCorporateEmail returns a validation error naming the rejected domain.
func ValidateCorporateEmail(email string) error {
	if IsCorporateEmail(email) {
		return nil
	}
	d := EmailDomain(email)
	if d == "" {
		return domain.Validation("email corporativo inválido: %q não possui domínio", email)
	}
	return domain.Validation("email corporativo inválido. Use um email da sua empresa, não de provedores pessoais como %s", d)
}
