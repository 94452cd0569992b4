package nifcloud

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Signature parameters sent with every request.
const (
	SignatureMethod  = "HmacSHA256"
	SignatureVersion = "2"
	// APIPath is the fixed request path used both for transport and signing.
	APIPath = "/api/"
)

// Params holds request parameters. Values may be string, int, int64 or bool;
// anything else is formatted with its String method when available.
type Params map[string]any

// Clone returns a shallow copy of the parameters.
func (p Params) Clone() Params {
	out := make(Params, len(p)+6)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Values converts the parameters into url.Values using their canonical text form.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for key, val := range p {
		v.Set(key, formatValue(val))
	}
	return v
}

// formatValue renders a parameter value in the form the API signs.
func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case interface{ String() string }:
		return val.String()
	default:
		return ""
	}
}

// escape percent-encodes every byte outside the unreserved set, including "/".
func escape(s string) string {
	// QueryEscape leaves only A-Za-z0-9-_.~ unescaped; spaces become "+",
	// and a literal "+" is already "%2B", so the replacement is unambiguous.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// CanonicalQuery returns the sorted, escaped query string that is signed.
func CanonicalQuery(params Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+escape(formatValue(params[k])))
	}
	return strings.Join(pairs, "&")
}

// StringToSign builds the four-line signable string.
func StringToSign(method, endpoint, path string, params Params) string {
	return strings.Join([]string{method, endpoint, path, CanonicalQuery(params)}, "\n")
}

// Sign computes the base64 encoded HMAC-SHA256 signature of a request.
// The "Signature" key, if present in params, is not part of the signed string.
func Sign(secret, method, endpoint, path string, params Params) string {
	signed := params
	if _, ok := params["Signature"]; ok {
		signed = params.Clone()
		delete(signed, "Signature")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(StringToSign(method, endpoint, path, signed)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
