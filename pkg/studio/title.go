package studio

import (
	"regexp"
	"strconv"
)

var versionSuffix = regexp.MustCompile(` V\d+$`)

// BaseName removes one trailing " V<digits>" suffix.
func BaseName(name string) string {
	return versionSuffix.ReplaceAllString(name, "")
}

// NextTitle returns the title of the given version: "Snake" at 2 is
// "Snake V2" and "Snake V2" at 3 is "Snake V3".
func NextTitle(name string, version int) string {
	return BaseName(name) + " V" + strconv.Itoa(version)
}
