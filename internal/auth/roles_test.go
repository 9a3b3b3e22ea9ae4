package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ticketflow/ticketflow/internal/domain"
)

func TestCanActOnTicket(t *testing.T) {
	agent := &domain.User{ID: "a1", Role: domain.RoleAgent}
	owner := &domain.User{ID: "u1", Role: domain.RoleUser}
	other := &domain.User{ID: "u2", Role: domain.RoleUser}
	ticket := &domain.Ticket{ID: "t1", CreatedByID: owner.ID}

	assert.True(t, CanActOnTicket(agent, ticket))
	assert.True(t, CanActOnTicket(owner, ticket))
	assert.False(t, CanActOnTicket(other, ticket))
	assert.False(t, CanActOnTicket(nil, ticket))
	assert.False(t, CanActOnTicket(owner, nil))
}
