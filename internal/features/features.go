// Package features exposes a read-only view over the document's feature
// flags. A flag the document does not set resolves to its registered
// default, mirroring the consuming framework's behaviour.
package features

import "sort"

// frameworkDefaults are applied when the document omits a flag.
var frameworkDefaults = map[string]any{
	"AUTH_USE_OPENID_PROVIDER":    false,
	"CERTIFICATES_ENABLED":        false,
	"ENABLE_DISCUSSION_SERVICE":   true,
	"ENABLE_EXPORT_GIT":           false,
	"ENABLE_INSTRUCTOR_ANALYTICS": false,
	"PREVIEW_LMS_BASE":            "",
	"SUBDOMAIN_BRANDING":          false,
	"SUBDOMAIN_COURSE_LISTINGS":   false,
}

// View is an immutable flag lookup constructed once from a loaded document.
type View struct {
	flags map[string]any
}

// NewView copies the provided flag mapping into a read-only view.
func NewView(flags map[string]any) *View {
	copied := make(map[string]any, len(flags))
	for name, value := range flags {
		copied[name] = copyFlagValue(value)
	}
	return &View{flags: copied}
}

// Enabled reports whether a boolean flag is set, falling back to the
// registered default when the document does not mention it.
func (v *View) Enabled(name string) bool {
	value, ok := v.lookup(name)
	if !ok {
		return false
	}
	enabled, ok := value.(bool)
	return ok && enabled
}

// String returns the value of a string-typed flag, falling back to the
// registered default. Non-string flags yield the empty string.
func (v *View) String(name string) string {
	value, ok := v.lookup(name)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return s
}

// Group returns a copy of a nested flag group, or nil when the flag is not
// a group.
func (v *View) Group(name string) map[string]any {
	value, ok := v.lookup(name)
	if !ok {
		return nil
	}
	group, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	copied := make(map[string]any, len(group))
	for key, val := range group {
		copied[key] = val
	}
	return copied
}

// Names lists every flag visible through the view, documented or defaulted,
// in sorted order.
func (v *View) Names() []string {
	names := make(map[string]struct{}, len(v.flags)+len(frameworkDefaults))
	for name := range v.flags {
		names[name] = struct{}{}
	}
	for name := range frameworkDefaults {
		names[name] = struct{}{}
	}

	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns the effective flag values with defaults applied, as a
// fresh map safe for the caller to hold.
func (v *View) Snapshot() map[string]any {
	out := make(map[string]any, len(v.flags)+len(frameworkDefaults))
	for name, value := range frameworkDefaults {
		out[name] = value
	}
	for name, value := range v.flags {
		out[name] = copyFlagValue(value)
	}
	return out
}

func (v *View) lookup(name string) (any, bool) {
	if value, ok := v.flags[name]; ok {
		return value, true
	}
	value, ok := frameworkDefaults[name]
	return value, ok
}

func copyFlagValue(value any) any {
	group, ok := value.(map[string]any)
	if !ok {
		return value
	}
	copied := make(map[string]any, len(group))
	for name, val := range group {
		copied[name] = val
	}
	return copied
}
