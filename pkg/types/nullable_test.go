package types

import (
	"encoding/json"
	"testing"
)

func TestNullableStringUnmarshal(t *testing.T) {
	type payload struct {
		Reminder NullableString `json:"reminder"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"reminder": "07:30"}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.Reminder.Valid || got.Reminder.Value == nil {
		t.Fatalf("expected valid value, got %+v", got.Reminder)
	}
	if *got.Reminder.Value != "07:30" {
		t.Fatalf("unexpected value %q", *got.Reminder.Value)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"reminder": null}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.Reminder.Valid || got.Reminder.Value != nil {
		t.Fatalf("expected null to be valid but nil, got %+v", got.Reminder)
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{}`), &got); err != nil {
		t.Fatalf("unmarshal missing: %v", err)
	}
	if got.Reminder.Valid {
		t.Fatalf("expected invalid flag for missing field, got %+v", got.Reminder)
	}

	if err := json.Unmarshal([]byte(`{"reminder": 7}`), &got); err == nil {
		t.Fatalf("expected error for non-string value")
	}
}

func TestNullableStringMarshal(t *testing.T) {
	value := "18:00"
	out, err := json.Marshal(NullableString{Valid: true, Value: &value})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"18:00"` {
		t.Fatalf("unexpected json %s", out)
	}
	out, err = json.Marshal(NullableString{Valid: true})
	if err != nil {
		t.Fatalf("marshal null: %v", err)
	}
	if string(out) != "null" {
		t.Fatalf("unexpected json %s", out)
	}
}
