package id

import "github.com/teris-io/shortid"

// ShortId generates a short url-safe identifier, used for attachment
// storage keys where a full UUID is unnecessarily long.
func ShortId() string {
	sid, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return sid
}
