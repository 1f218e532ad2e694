package importer

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// DecodeDataURL extracts the payload of a data:image/... URL. Both base64 and
// percent-encoded payloads are accepted.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !hasPrefixFold(s, "data:") {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("data URL has no payload")
	}
	params := strings.Split(meta, ";")
	if !hasPrefixFold(params[0], "image/") {
		return nil, fmt.Errorf("data URL media type %q is not an image", params[0])
	}
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(p, "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		data, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("data URL payload: %w", err)
		}
		return []byte(data), nil
	}
	// Clipboard text often wraps long base64 lines.
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("data URL payload: %w", err)
		}
	}
	return data, nil
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
