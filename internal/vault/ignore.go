package vault

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// IgnoreMatcher applies excluded-file filters. A filter is one of:
//   - /regex/      matched against the relative path
//   - a glob       when it contains glob metacharacters (doublestar syntax)
//   - a prefix     anything else, e.g. "Archive/" or "Templates"
type IgnoreMatcher struct {
	globs    []string
	prefixes []string
	regexps  []*regexp.Regexp
}

func NewIgnoreMatcher(patterns []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, raw := range patterns {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		if len(p) > 2 && strings.HasPrefix(p, "/") && strings.HasSuffix(p, "/") {
			re, err := regexp.Compile(p[1 : len(p)-1])
			if err != nil {
				logrus.WithField("component", "vault").WithError(err).Warnf("ignoring invalid filter %q", raw)
				continue
			}
			m.regexps = append(m.regexps, re)
			continue
		}
		p = strings.TrimPrefix(p, "/")
		if strings.ContainsAny(p, "*?[{") {
			if !doublestar.ValidatePattern(p) {
				logrus.WithField("component", "vault").Warnf("ignoring invalid filter %q", raw)
				continue
			}
			m.globs = append(m.globs, p)
			continue
		}
		m.prefixes = append(m.prefixes, p)
	}
	return m
}

// Match reports whether rel (vault relative, slash separated) is excluded.
func (m *IgnoreMatcher) Match(rel string, isDir bool) bool {
	if m == nil {
		return false
	}
	candidate := rel
	if isDir {
		candidate = rel + "/"
	}
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(candidate, prefix) || candidate == prefix+"/" {
			return true
		}
	}
	for _, glob := range m.globs {
		if ok, _ := doublestar.Match(glob, rel); ok {
			return true
		}
	}
	for _, re := range m.regexps {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

func (m *IgnoreMatcher) Empty() bool {
	return m == nil || len(m.globs)+len(m.prefixes)+len(m.regexps) == 0
}
