package app

import (
	"context"
	"log"

	"quizgate/internal/domain"
)

// Directory is the role directory the gate reads and mutates.
type Directory interface {
	HasRole(ctx context.Context, userID, roleID string) (bool, error)
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}

// AccessMutator applies the configured role changes after a pass.
type AccessMutator struct {
	directory Directory
	target    domain.RoleTarget
}

func NewAccessMutator(directory Directory, target domain.RoleTarget) *AccessMutator {
	return &AccessMutator{directory: directory, target: target}
}

// Apply performs the grant then the revoke, skipping whichever the cached
// admission flags mark as already satisfied. The first directory error
// aborts the rest and reports partial failure; the pass itself stands and
// remediation is left to an operator.
func (m *AccessMutator) Apply(ctx context.Context, userID string, alreadyAdded, alreadyRemoved bool) bool {
	if m.target.AddRoleID != "" && !alreadyAdded {
		if err := m.directory.AddRole(ctx, userID, m.target.AddRoleID); err != nil {
			log.Printf("grant role %s to %s: %v", m.target.AddRoleID, userID, err)
			return false
		}
	}
	if m.target.RemoveRoleID != "" && !alreadyRemoved {
		if err := m.directory.RemoveRole(ctx, userID, m.target.RemoveRoleID); err != nil {
			log.Printf("revoke role %s from %s: %v", m.target.RemoveRoleID, userID, err)
			return false
		}
	}
	return true
}
