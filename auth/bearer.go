package auth

import "strings"

// ExtractBearer returns the token from an Authorization header value. The
// header must be exactly two whitespace separated parts with a case
// insensitive "Bearer" scheme, anything else is a malformed credential.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMalformedCredential
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedCredential
	}

	return parts[1], nil
}

// StripBearer tolerates both a raw token and a "Bearer <token>" value. The
// current-user endpoint historically accepted either form.
func StripBearer(value string) string {
	parts := strings.Fields(value)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return strings.TrimSpace(value)
}
