package features

import (
	"testing"
)

func TestEnabledUsesDocumentValue(t *testing.T) {
	t.Parallel()

	view := NewView(map[string]any{"CERTIFICATES_ENABLED": true})
	if !view.Enabled("CERTIFICATES_ENABLED") {
		t.Fatalf("expected flag to be enabled")
	}

	view = NewView(map[string]any{"CERTIFICATES_ENABLED": false})
	if view.Enabled("CERTIFICATES_ENABLED") {
		t.Fatalf("expected flag to be disabled")
	}
}

func TestEnabledFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	view := NewView(nil)
	if view.Enabled("CERTIFICATES_ENABLED") {
		t.Fatalf("expected absent flag to use default false")
	}
	if !view.Enabled("ENABLE_DISCUSSION_SERVICE") {
		t.Fatalf("expected absent flag to use default true")
	}
	if view.Enabled("UNREGISTERED_FLAG") {
		t.Fatalf("expected unknown flag to be disabled")
	}
}

func TestStringFlags(t *testing.T) {
	t.Parallel()

	view := NewView(map[string]any{"PREVIEW_LMS_BASE": "preview.example.com"})
	if got := view.String("PREVIEW_LMS_BASE"); got != "preview.example.com" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := NewView(nil).String("PREVIEW_LMS_BASE"); got != "" {
		t.Fatalf("expected default empty string, got %q", got)
	}
}

func TestGroupReturnsCopy(t *testing.T) {
	t.Parallel()

	view := NewView(map[string]any{"MILESTONES": map[string]any{"ENTRANCE_EXAMS": true}})

	group := view.Group("MILESTONES")
	if group == nil {
		t.Fatalf("expected flag group")
	}
	group["ENTRANCE_EXAMS"] = false

	again := view.Group("MILESTONES")
	if enabled, _ := again["ENTRANCE_EXAMS"].(bool); !enabled {
		t.Fatalf("expected view to be isolated from caller mutation")
	}

	if NewView(nil).Group("CERTIFICATES_ENABLED") != nil {
		t.Fatalf("expected nil group for scalar flag")
	}
}

func TestSnapshotMergesDefaults(t *testing.T) {
	t.Parallel()

	view := NewView(map[string]any{"CERTIFICATES_ENABLED": true})
	snap := view.Snapshot()

	if enabled, _ := snap["CERTIFICATES_ENABLED"].(bool); !enabled {
		t.Fatalf("expected document value in snapshot")
	}
	if enabled, _ := snap["ENABLE_DISCUSSION_SERVICE"].(bool); !enabled {
		t.Fatalf("expected default value in snapshot")
	}

	snap["CERTIFICATES_ENABLED"] = false
	if !view.Enabled("CERTIFICATES_ENABLED") {
		t.Fatalf("expected snapshot to be a defensive copy")
	}
}

func TestNamesSorted(t *testing.T) {
	t.Parallel()

	names := NewView(map[string]any{"ZZ_CUSTOM": true}).Names()
	if len(names) == 0 {
		t.Fatalf("expected flag names")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("expected sorted unique names, got %v", names)
		}
	}
	found := false
	for _, name := range names {
		if name == "ZZ_CUSTOM" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected document flag in names, got %v", names)
	}
}
