package home

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jvance/examdeck/internal/bank"
)

func testBank(t *testing.T) *bank.Bank {
	t.Helper()
	records := []map[string]any{
		{
			"number":   "1",
			"question": "Q1?",
			"options":  map[string]string{"A": "a", "B": "b"},
			"answer":   "A",
			"domain":   1,
		},
		{
			"number":   "2",
			"question": "Q2?",
			"options":  map[string]string{"A": "a", "B": "b"},
			"answer":   "B",
			"domain":   2,
		},
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	b, err := bank.Parse("test.json", data)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHomeShowsBankSize(t *testing.T) {
	h := New(testBank(t), nil, nil, nil, nil)
	view := h.View(100, 30)
	if !strings.Contains(view, "2 questions loaded") {
		t.Error("expected bank size in view")
	}
}

func TestHomeDisablesSessionsWithoutBank(t *testing.T) {
	h := New(nil, errors.New("no such file"), nil, nil, nil)

	for i, item := range h.menu.Items[:3] {
		if !item.Disabled {
			t.Errorf("menu item %d enabled without a bank", i)
		}
	}
	if h.menu.Items[3].Disabled {
		t.Error("history should stay available without a bank")
	}

	view := h.View(100, 30)
	if !strings.Contains(view, "no such file") {
		t.Error("expected the load error in view")
	}
}

func TestHomeSelectionSkipsDisabled(t *testing.T) {
	h := New(nil, errors.New("boom"), nil, nil, nil)
	if h.menu.Items[h.menu.Selected].Disabled {
		t.Error("initial selection landed on a disabled item")
	}
}
