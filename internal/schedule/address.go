// Package schedule models schedule rules, their composite target
// addresses and the store that persists them to Huntarr.
package schedule

import "strings"

const (
	// GlobalAddress targets every app and every instance.
	GlobalAddress = "global"
	// SelectorAll is the instance selector meaning every instance of an app.
	SelectorAll = "all"

	addressSep       = "::"
	legacyAddressSep = "-"
)

// Address is a decoded schedule target. Selector is empty when HasSelector
// is false (global, or a bare bucket label).
type Address struct {
	App         string
	Selector    string
	HasSelector bool
}

// IsGlobal reports whether the address targets everything.
func (a Address) IsGlobal() bool {
	return a.App == GlobalAddress
}

// IsAll reports whether the address targets every instance of one app.
func (a Address) IsAll() bool {
	return a.HasSelector && a.Selector == SelectorAll
}

// Encode builds the stored address for an app type and instance selector.
// The legacy dash form is never produced.
func Encode(app AppType, selector string) string {
	if app == Global {
		return GlobalAddress
	}
	if selector == "" || selector == SelectorAll {
		return app.String() + addressSep + SelectorAll
	}
	return app.String() + addressSep + selector
}

// Decode splits a stored address. It never fails: unrecognised input is
// returned as a bare bucket label. An empty selector counts as none. Only the
// bare tokens movie_hunt and tv_hunt are exempt from the legacy dash split.
func Decode(address string) Address {
	if address == "" || address == GlobalAddress {
		return Address{App: GlobalAddress}
	}
	if app, selector, ok := strings.Cut(address, addressSep); ok {
		return Address{App: app, Selector: selector, HasSelector: selector != ""}
	}
	if address == MovieHunt.String() || address == TVHunt.String() {
		return Address{App: address}
	}
	// Legacy "<app>-<selector>". App tokens never contain a dash.
	if app, selector, ok := strings.Cut(address, legacyAddressSep); ok {
		return Address{App: app, Selector: selector, HasSelector: selector != ""}
	}
	return Address{App: address}
}

// AppType resolves the decoded app token.
func (a Address) AppType() (AppType, error) {
	return ParseAppType(a.App)
}
