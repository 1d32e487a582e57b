// Package featureflags evaluates rollout flags from a key=value config
// string, e.g. "aura_badges=on,event_rsvp=25%,legacy_feed=off".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

type rule struct {
	kind    ruleKind
	percent int
}

// Manager evaluates feature flags. A nil Manager answers false for every
// flag, so callers never need a nil check at the call site.
type Manager struct {
	rules map[string]rule
	raw   map[string]string
}

// NewManager parses a comma-separated flag list. Malformed pairs are
// skipped rather than failing startup.
func NewManager(config string) *Manager {
	rules := make(map[string]rule)
	raw := make(map[string]string)

	for _, pair := range strings.Split(config, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := normalize(parts[0])
		value := normalize(parts[1])
		if name == "" || value == "" {
			continue
		}
		r, ok := parseRule(value)
		if !ok {
			continue
		}
		rules[name] = r
		raw[name] = value
	}

	return &Manager{rules: rules, raw: raw}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{kind: ruleOn}, true
	case "off", "false", "0":
		return rule{kind: ruleOff}, true
	}
	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil || pct < 0 || pct > 100 {
			return rule{}, false
		}
		return rule{kind: rulePercent, percent: pct}, true
	}
	return rule{}, false
}

// Enabled reports whether the flag is on for the given user. Percentage
// rollouts bucket users deterministically per flag, so a user stays in or
// out of a rollout across requests. Anonymous users never enter partial
// rollouts.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		if r.percent >= 100 {
			return true
		}
		if r.percent <= 0 || userID == 0 {
			return false
		}
		return bucket(name, userID) < r.percent
	default:
		return false
	}
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

// Raw returns a copy of the configured flag values.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.raw))
	for k, v := range m.raw {
		out[k] = v
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
