// Package featureflags evaluates operational flags from a config string.
// The catalog uses them as kill switches (disable_signup, disable_comments)
// and for percentage rollouts of new viewer-facing behavior.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds parsed flags from a comma-separated list, for example
// "disable_signup=on,player_v2=25%,disable_comments=off". Flags absent from
// the list evaluate to false, so every switch defaults to the feature staying
// on.
type Manager struct {
	flags map[string]string
}

// NewManager parses the flag list. Malformed pairs are skipped rather than
// rejected; a typo in one flag must not take the others down with it.
func NewManager(raw string) *Manager {
	flags := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = canonical(name)
		value = canonical(value)
		if name == "" || value == "" {
			continue
		}
		flags[name] = value
	}
	return &Manager{flags: flags}
}

// Enabled evaluates one flag for one user. Values are on/true/1, off/false/0,
// or "N%" for a deterministic per-user rollout. Unknown flags and unknown
// values are false. Anonymous traffic (userID 0) never lands in a percentage
// rollout.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[canonical(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return rolloutPercentile(name, userID) < pct
}

// Raw returns a copy of the configured flag values, shown on the admin
// dashboard so operators can see what is currently switched.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for name, value := range m.flags {
		out[name] = value
	}
	return out
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// rolloutPercentile buckets a (flag, user) pair into 0..99. The hash keys on
// both so a user is not stuck in the same cohort for every rollout.
func rolloutPercentile(name string, userID uint) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s/%d", canonical(name), userID)
	return int(h.Sum32() % 100)
}
