package apiclient

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// signatureScheme is the literal algorithm identifier prefixing every
// X-Scalr-Signature header value.
const signatureScheme = "V1-HMAC-SHA256"

// stringToSign builds the newline-joined byte sequence the control plane
// expects the signature to cover: method, timestamp, path, canonical query
// string, raw body. Every component is already caller-normalized.
func stringToSign(method, timestamp, path, canonicalQuery string, body []byte) []byte {
	parts := [][]byte{
		[]byte(method),
		[]byte(timestamp),
		[]byte(path),
		[]byte(canonicalQuery),
		body,
	}
	return bytesJoin(parts, '\n')
}

func bytesJoin(parts [][]byte, sep byte) []byte {
	n := len(parts) - 1
	for _, p := range parts {
		n += len(p)
	}
	buf := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, sep)
		}
		buf = append(buf, p...)
	}
	return buf
}

// sign computes the X-Scalr-Signature header value for the given
// string-to-sign bytes and secret key.
func sign(secret string, sts []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(sts)
	digest := mac.Sum(nil)
	return signatureScheme + " " + base64.StdEncoding.EncodeToString(digest)
}

// canonicalQueryString implements the spec's canonicalization algorithm:
// percent-encode both name and value of each pair (preserving blank
// values), sort pairs ascending by encoded name (stable with respect to
// original relative order of equal-named pairs), join as name=value, join
// pairs with &. rawQuery is the query component of the URL (no leading '?').
//
// Parsing is strict: every non-empty pair must contain an '=' once split on
// '&' (the name ends at the first '='); a bare name with no '=' is a
// malformed pair and a fatal error, matching Python's
// urllib.parse.parse_qsl(strict_parsing=True). Empty segments are skipped.
func canonicalQueryString(rawQuery string) (string, error) {
	if rawQuery == "" {
		return "", nil
	}

	type pair struct {
		name, value string
	}
	var pairs []pair
	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}
		idx := strings.IndexByte(segment, '=')
		if idx < 0 {
			return "", &MalformedQueryError{Segment: segment}
		}
		name, err := queryUnescape(segment[:idx])
		if err != nil {
			return "", &MalformedQueryError{Segment: segment, Underlying: err}
		}
		value, err := queryUnescape(segment[idx+1:])
		if err != nil {
			return "", &MalformedQueryError{Segment: segment, Underlying: err}
		}
		pairs = append(pairs, pair{name: name, value: value})
	}

	encoded := make([]pair, len(pairs))
	for i, p := range pairs {
		encoded[i] = pair{name: percentEncode(p.name), value: percentEncode(p.value)}
	}

	sort.SliceStable(encoded, func(i, j int) bool {
		return encoded[i].name < encoded[j].name
	})

	joined := make([]string, len(encoded))
	for i, p := range encoded {
		joined[i] = p.name + "=" + p.value
	}
	return strings.Join(joined, "&"), nil
}

// isUnreserved reports the ASCII bytes percentEncode never escapes,
// matching Python's urllib.parse.quote default safe set (unreserved plus
// '/').
func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '.' || b == '-' || b == '~' || b == '/':
		return true
	}
	return false
}

const upperHex = "0123456789ABCDEF"

// percentEncode percent-encodes a single query name or value the same way
// Python's urllib.parse.quote(s) does: unreserved characters and '/' pass
// through unescaped, everything else (including space, which becomes
// "%20", never "+") is percent-encoded.
func percentEncode(s string) string {
	var needsEscape bool
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

// queryUnescape decodes a single percent-encoded query component, treating
// '+' as space the same way Python's urllib.parse.parse_qsl does. The spec
// only requires that malformed *pairs* (missing '=') are rejected, not
// malformed percent escapes, but we still surface decode errors rather than
// silently swallowing them.
func queryUnescape(s string) (string, error) {
	return url.QueryUnescape(s)
}
