package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// soldListingsQuery is the fixed part of a marketplace search restricted to sold items,
// sorted by most recent and 60 results per page.
const soldListingsQuery = "&_in_kw=1&_ex_kw=&_sacat=0&LH_Sold=1&_udlo=&_udhi=&_samilow=&_samihi=&_sadis=15&_stpos=&_sargn=-1%26saslc%3D1&_salic=3&_sop=12&_dmd=1&_ipg=60"

// HashKey creates a SHA256 hash of a string.
// This is useful for creating consistent, safe keys for Redis.
func HashKey(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

// SoldListingsURL builds the sold-listings search URL for a term on the given marketplace.
func SoldListingsURL(baseURL, term string) string {
	words := strings.Fields(term)
	for i, w := range words {
		words[i] = url.QueryEscape(w)
	}
	return strings.TrimRight(baseURL, "/") + "/sch/i.html?_nkw=" + strings.Join(words, "+") + soldListingsQuery
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}
