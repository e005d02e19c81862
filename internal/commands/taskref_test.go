package commands

import (
	"testing"

	"taskhub/internal/model"
)

func TestParseTaskRef_NumericOnly(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Recurring {
		t.Error("expected Recurring to be false")
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
}

func TestParseTaskRef_Recurring(t *testing.T) {
	ref, err := ParseTaskRef([]string{"r12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.Recurring {
		t.Error("expected Recurring to be true")
	}
	if ref.Num != 12 {
		t.Errorf("expected Num 12, got %d", ref.Num)
	}
}

func TestParseTaskRef_Prefix(t *testing.T) {
	ref, err := ParseTaskRef([]string{"3f2a9"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Prefix != "3f2a9" {
		t.Errorf("expected Prefix 3f2a9, got %q", ref.Prefix)
	}
}

func TestParseTaskRef_ExplicitIDPrefix(t *testing.T) {
	doc := model.NewDocument(nil, nil)
	doc.Tasks = []model.Task{{ID: "1700000000000"}, {ID: "1699999999999"}}

	ref, err := ParseTaskRef([]string{"id:1700"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Prefix != "1700" || ref.Num != 0 {
		t.Errorf("expected Prefix 1700, got %+v", ref)
	}
	id, err := ref.ResolveTask(&doc)
	if err != nil || id != "1700000000000" {
		t.Errorf("expected 1700000000000, got %q (%v)", id, err)
	}

	// a bare number is still a position
	ref, _ = ParseTaskRef([]string{"1700"})
	if _, err := ref.ResolveTask(&doc); err == nil || err.Error() != "task number out of range: 1700" {
		t.Errorf("expected out of range, got %v", err)
	}
}

func TestParseTaskRef_Invalid(t *testing.T) {
	for _, arg := range []string{"0", "abc", "r0", "r", "id:"} {
		_, err := ParseTaskRef([]string{arg})
		if err == nil {
			t.Errorf("expected error for %q", arg)
			continue
		}
		expectedMsg := "invalid task reference: " + arg
		if err.Error() != expectedMsg {
			t.Errorf("expected %q, got %q", expectedMsg, err.Error())
		}
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{})
	if err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestTaskRef_Resolve(t *testing.T) {
	doc := model.NewDocument(nil, nil)
	doc.Tasks = []model.Task{{ID: "aaaa1111"}, {ID: "aaaa2222"}, {ID: "bbbb3333"}}
	doc.RecurringTasks = []model.RecurringTask{{ID: "r-one"}}

	tests := []struct {
		arg     string
		want    model.ID
		wantErr string
	}{
		{"2", "aaaa2222", ""},
		{"4", "", "task number out of range: 4"},
		{"bbbb", "bbbb3333", ""},
		{"aaaa", "", "ambiguous task reference: aaaa"},
		{"cccc", "", "task not found: cccc"},
		{"r1", "", "r1 is a recurring task"},
	}
	for _, tt := range tests {
		ref, err := ParseTaskRef([]string{tt.arg})
		if err != nil {
			t.Fatalf("ParseTaskRef(%q): %v", tt.arg, err)
		}
		got, err := ref.ResolveTask(&doc)
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ResolveTask(%q) error = %v, want %q", tt.arg, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ResolveTask(%q) = %q, %v; want %q", tt.arg, got, err, tt.want)
		}
	}

	ref, _ := ParseTaskRef([]string{"r1"})
	if id, err := ref.ResolveRecurring(&doc); err != nil || id != "r-one" {
		t.Errorf("ResolveRecurring(r1) = %q, %v", id, err)
	}
}
