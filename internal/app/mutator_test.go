package app

import (
	"context"
	"testing"

	"quizgate/internal/domain"
)

type scriptedDirectory struct {
	addErr    error
	removeErr error
	adds      []string
	removes   []string
}

func (d *scriptedDirectory) HasRole(context.Context, string, string) (bool, error) {
	return false, nil
}

func (d *scriptedDirectory) AddRole(_ context.Context, _, roleID string) error {
	if d.addErr != nil {
		return d.addErr
	}
	d.adds = append(d.adds, roleID)
	return nil
}

func (d *scriptedDirectory) RemoveRole(_ context.Context, _, roleID string) error {
	if d.removeErr != nil {
		return d.removeErr
	}
	d.removes = append(d.removes, roleID)
	return nil
}

func TestApplyPerformsBothMutations(t *testing.T) {
	dir := &scriptedDirectory{}
	mutator := NewAccessMutator(dir, domain.RoleTarget{AddRoleID: "add-1", RemoveRoleID: "rem-1"})

	if !mutator.Apply(context.Background(), "u1", false, false) {
		t.Fatalf("expected success")
	}
	if len(dir.adds) != 1 || dir.adds[0] != "add-1" {
		t.Fatalf("expected one grant, got %v", dir.adds)
	}
	if len(dir.removes) != 1 || dir.removes[0] != "rem-1" {
		t.Fatalf("expected one revoke, got %v", dir.removes)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	dir := &scriptedDirectory{}
	mutator := NewAccessMutator(dir, domain.RoleTarget{AddRoleID: "add-1", RemoveRoleID: "rem-1"})

	// Flags say both mutations already hold: zero directory writes.
	if !mutator.Apply(context.Background(), "u1", true, true) {
		t.Fatalf("expected success")
	}
	if !mutator.Apply(context.Background(), "u1", true, true) {
		t.Fatalf("expected success on repeat")
	}
	if len(dir.adds) != 0 || len(dir.removes) != 0 {
		t.Fatalf("expected no writes, got adds=%v removes=%v", dir.adds, dir.removes)
	}
}

func TestApplyAbortsAfterFirstFailure(t *testing.T) {
	dir := &scriptedDirectory{addErr: domain.ErrRoleForbidden}
	mutator := NewAccessMutator(dir, domain.RoleTarget{AddRoleID: "add-1", RemoveRoleID: "rem-1"})

	if mutator.Apply(context.Background(), "u1", false, false) {
		t.Fatalf("expected partial failure")
	}
	if len(dir.removes) != 0 {
		t.Fatalf("revoke must not run after a failed grant, got %v", dir.removes)
	}
}

func TestApplySkipsUnconfiguredMutations(t *testing.T) {
	dir := &scriptedDirectory{}
	mutator := NewAccessMutator(dir, domain.RoleTarget{RemoveRoleID: "rem-1"})

	if !mutator.Apply(context.Background(), "u1", false, false) {
		t.Fatalf("expected success")
	}
	if len(dir.adds) != 0 {
		t.Fatalf("no add role configured, got %v", dir.adds)
	}
	if len(dir.removes) != 1 {
		t.Fatalf("expected one revoke, got %v", dir.removes)
	}
}
