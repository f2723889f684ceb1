package formula

// Locale supplies the locale-dependent part of formula syntax named in
// spec.md §6: the argument separator used between the arguments of a
// Name(arg1{sep}arg2…) call. Locales that use a comma for the decimal
// point (and so need a different argument separator, e.g. ";") supply
// their own Locale rather than DefaultLocale.
type Locale struct {
	ArgumentSeparator rune
}

// DefaultLocale is the US/UK convention: "," separates call arguments.
var DefaultLocale = Locale{ArgumentSeparator: ','}
