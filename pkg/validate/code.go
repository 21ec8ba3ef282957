package validate

import "regexp"

var (
	phoneRe    = regexp.MustCompile(`^(0|84)\d{8,10}$`)
	billCodeRe = regexp.MustCompile(`^[A-Za-z0-9]{6,20}$`)
)

// IsPhone matches Vietnamese subscriber numbers with a 0 or 84 prefix.
func IsPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// IsBillCode matches EVN / TV-Internet bill identifiers.
func IsBillCode(s string) bool {
	return billCodeRe.MatchString(s)
}
