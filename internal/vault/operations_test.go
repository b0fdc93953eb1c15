package vault_test

import (
	"strings"
	"testing"

	"github.com/florisjonkman/Zobioweb/internal/vault"
)

func TestOperationStatusRules(t *testing.T) {
	cases := []struct {
		op      vault.Operation
		allowed []string
		target  string
	}{
		{vault.OpAdd, []string{"Registered"}, "Added"},
		{vault.OpCheckIn, []string{"Checked out"}, "Checked in"},
		{vault.OpCheckOut, []string{"Added", "Checked in"}, "Checked out"},
		{vault.OpDelete, []string{"Added", "Checked in", "Checked out"}, "Deleted"},
	}
	for _, tc := range cases {
		got := tc.op.AllowedStatuses()
		if len(got) != len(tc.allowed) {
			t.Fatalf("%s: allowed = %v, want %v", tc.op, got, tc.allowed)
		}
		for i := range got {
			if got[i] != tc.allowed[i] {
				t.Errorf("%s: allowed[%d] = %q, want %q", tc.op, i, got[i], tc.allowed[i])
			}
		}
		if target := tc.op.TargetStatus(); target != tc.target {
			t.Errorf("%s: target = %q, want %q", tc.op, target, tc.target)
		}
	}
}

func TestStatusAllowed(t *testing.T) {
	if !vault.OpCheckOut.StatusAllowed("Checked in") {
		t.Error("check-out should allow checked in vials")
	}
	if vault.OpAdd.StatusAllowed("Added") {
		t.Error("add should reject already-added vials")
	}
}

func TestParseOperation(t *testing.T) {
	cases := map[string]vault.Operation{
		"add":       vault.OpAdd,
		"Add":       vault.OpAdd,
		"check-in":  vault.OpCheckIn,
		"checkin":   vault.OpCheckIn,
		"Check In":  vault.OpCheckIn,
		"CHECKOUT":  vault.OpCheckOut,
		"check-out": vault.OpCheckOut,
		"delete":    vault.OpDelete,
	}
	for input, want := range cases {
		got, err := vault.ParseOperation(input)
		if err != nil {
			t.Errorf("ParseOperation(%q) failed: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseOperation(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := vault.ParseOperation("register"); err == nil {
		t.Error("expected error for unknown operation")
	}
}

func TestOnlyAddAssignsLocation(t *testing.T) {
	for _, op := range vault.Operations() {
		want := op == vault.OpAdd
		if op.AssignsLocation() != want {
			t.Errorf("%s: AssignsLocation = %v, want %v", op, op.AssignsLocation(), want)
		}
	}
}

func TestConfirmPromptMentionsCount(t *testing.T) {
	prompt := vault.OpDelete.ConfirmPrompt(3)
	if !strings.Contains(prompt, "3") || !strings.Contains(prompt, "Delete") {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
	single := vault.OpAdd.ConfirmPrompt(1)
	if strings.Contains(single, "vials") {
		t.Fatalf("expected singular noun: %q", single)
	}
}
