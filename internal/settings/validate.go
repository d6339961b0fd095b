package settings

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
)

// Finding names a setting that prevents the document from being
// deployment-ready.
type Finding struct {
	Key     string `json:"key"`
	Problem string `json:"problem"`
}

var recognizedLoglevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// Validate checks the structural invariants of the document and reports
// every violation: incomplete cache definitions, malformed email addresses,
// negative resource limits, unrecognized enumerated values, feature flags
// of unsupported types, and values still carrying the deployment
// placeholder. An empty result means the document is deployment-ready.
func (d *Document) Validate() []Finding {
	var findings []Finding
	add := func(key, format string, args ...any) {
		findings = append(findings, Finding{Key: key, Problem: fmt.Sprintf(format, args...)})
	}

	if len(d.Caches) == 0 {
		add("CACHES", "at least one cache must be defined")
	}
	for _, name := range sortedKeys(d.Caches) {
		def := d.Caches[name]
		key := "CACHES." + name
		if def.Backend == "" {
			add(key+".BACKEND", "backend is required")
		}
		if def.KeyPrefix == "" {
			add(key+".KEY_PREFIX", "key prefix is required")
		}
		if len(def.Locations) == 0 {
			add(key+".LOCATION", "at least one location is required")
		}
		for i, loc := range def.Locations {
			if strings.TrimSpace(loc) == "" {
				add(fmt.Sprintf("%s.LOCATION[%d]", key, i), "location must not be empty")
			}
		}
	}

	emails := []struct {
		key      string
		value    string
		required bool
	}{
		{"BUGS_EMAIL", d.BugsEmail, false},
		{"CONTACT_EMAIL", d.ContactEmail, true},
		{"DEFAULT_FEEDBACK_EMAIL", d.DefaultFeedbackEmail, false},
		{"DEFAULT_FROM_EMAIL", d.DefaultFromEmail, true},
		{"SERVER_EMAIL", d.ServerEmail, true},
		{"TECH_SUPPORT_EMAIL", d.TechSupportEmail, false},
	}
	for _, e := range emails {
		if e.value == "" {
			if e.required {
				add(e.key, "email address is required")
			}
			continue
		}
		if e.value == Sentinel {
			// reported by the placeholder scan below
			continue
		}
		if _, err := mail.ParseAddress(e.value); err != nil {
			add(e.key, "invalid email address %q", e.value)
		}
	}

	if d.CodeJail.Limits.Realtime < 0 {
		add("CODE_JAIL.limits.REALTIME", "limit must be non-negative")
	}
	if d.CodeJail.Limits.VMem < 0 {
		add("CODE_JAIL.limits.VMEM", "limit must be non-negative")
	}

	if d.TimeZone == "" {
		add("TIME_ZONE", "time zone is required")
	}
	if d.LocalLoglevel != "" && !recognizedLoglevel(d.LocalLoglevel) {
		add("LOCAL_LOGLEVEL", "must be one of %v (got %q)", recognizedLoglevels, d.LocalLoglevel)
	}

	for _, name := range sortedKeys(d.Features) {
		findings = append(findings, validateFlagValue("FEATURES."+name, d.Features[name])...)
	}

	findings = append(findings, d.placeholderFindings()...)
	return findings
}

// validateFlagValue accepts booleans, strings, and one level of nested flag
// groups holding booleans or strings.
func validateFlagValue(key string, value any) []Finding {
	switch v := value.(type) {
	case bool, string, nil:
		return nil
	case map[string]any:
		var findings []Finding
		for _, name := range sortedKeys(v) {
			switch v[name].(type) {
			case bool, string, nil:
			default:
				findings = append(findings, Finding{
					Key:     key + "." + name,
					Problem: fmt.Sprintf("flag value must be a boolean or string (got %T)", v[name]),
				})
			}
		}
		return findings
	default:
		return []Finding{{Key: key, Problem: fmt.Sprintf("flag value must be a boolean, string, or flag group (got %T)", v)}}
	}
}

// placeholderFindings walks every string value in the document and flags
// those still equal to the deployment placeholder.
func (d *Document) placeholderFindings() []Finding {
	generic, err := d.asMap()
	if err != nil {
		return []Finding{{Key: "", Problem: fmt.Sprintf("document is not serializable: %v", err)}}
	}

	var keys []string
	collectSentinels(generic, "", &keys)
	sort.Strings(keys)

	findings := make([]Finding, 0, len(keys))
	for _, key := range keys {
		findings = append(findings, Finding{Key: key, Problem: "requires deployment override"})
	}
	return findings
}

func collectSentinels(value any, path string, keys *[]string) {
	switch v := value.(type) {
	case string:
		if v == Sentinel {
			*keys = append(*keys, path)
		}
	case map[string]any:
		for name, child := range v {
			childPath := name
			if path != "" {
				childPath = path + "." + name
			}
			collectSentinels(child, childPath, keys)
		}
	case []any:
		for i, child := range v {
			collectSentinels(child, fmt.Sprintf("%s[%d]", path, i), keys)
		}
	}
}

func recognizedLoglevel(level string) bool {
	for _, known := range recognizedLoglevels {
		if level == known {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
