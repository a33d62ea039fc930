package erpnext

import (
	"net/url"
	"strings"
)

const fileProxyPrefix = "/api/files/"

// NormalizeImagePath rewrites a backend-relative file path so the client
// always goes through the storefront's file proxy and never sees a raw
// ERPNext path. A leading "/files/" prefix is stripped and the remainder is
// percent-encoded under /api/files/; any other relative path is encoded
// whole. Absolute URLs and empty paths pass through unchanged. The HTML
// entity &apos; shows up in paths exported from ERPNext and is decoded
// before encoding.
func NormalizeImagePath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	path = strings.ReplaceAll(path, "&apos;", "'")

	if rest, ok := strings.CutPrefix(path, "/files/"); ok {
		return fileProxyPrefix + url.PathEscape(rest)
	}
	return fileProxyPrefix + url.PathEscape(strings.TrimPrefix(path, "/"))
}

// DenormalizeFilePath maps a proxy path segment back to the backend file
// path the proxy should fetch.
func DenormalizeFilePath(encoded string) (string, error) {
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return "", err
	}
	return "/files/" + decoded, nil
}
