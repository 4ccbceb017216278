package pathutil

import "strings"

// Reference prefixes of named AsyncAPI objects.
const (
	RefPrefixChannels          = "#/channels/"
	RefPrefixComponentChannels = "#/components/channels/"
	RefPrefixServers           = "#/servers/"
)

// RefName returns the unescaped object name of a reference such as
// "#/servers/production" when it sits directly under one of prefixes.
func RefName(ref string, prefixes ...string) (string, bool) {
	for _, prefix := range prefixes {
		rest, ok := strings.CutPrefix(ref, prefix)
		if ok && rest != "" && !strings.Contains(rest, "/") {
			return Unescape(rest), true
		}
	}
	return "", false
}
