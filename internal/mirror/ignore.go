package mirror

import "strings"

// Rules is the set of literal suffixes excluded from a mirror run. A key is
// excluded iff it ends with any rule; there is no globbing. Note that a
// directory rule like "archival-logs/" therefore matches only the directory
// marker key itself, not keys nested under it.
type Rules []string

func (r Rules) Excludes(key string) bool {
	for _, suffix := range r {
		if suffix != "" && strings.HasSuffix(key, suffix) {
			return true
		}
	}
	return false
}

// ForRun builds the active rule set for one run: the configured suffixes
// plus the log prefix directory itself, so the log path is never mirrored
// back into the working tree.
func ForRun(suffixes []string, logPrefix string) Rules {
	rules := make(Rules, 0, len(suffixes)+1)
	rules = append(rules, suffixes...)
	if logPrefix != "" {
		dir := logPrefix + "/"
		for _, s := range rules {
			if s == dir {
				return rules
			}
		}
		rules = append(rules, dir)
	}
	return rules
}
