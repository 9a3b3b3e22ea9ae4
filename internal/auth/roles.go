package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticketflow/ticketflow/internal/domain"
	"github.com/ticketflow/ticketflow/pkg/util"
)

// RequireAgent ensures the authenticated caller holds the agent role.
func RequireAgent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return util.NewUnauthorized("authentication required")
		}
		if !caller.IsAgent() {
			return util.NewForbidden("agent role required")
		}
		return c.Next()
	}
}

// CanActOnTicket is the owner-or-agent predicate gating per-ticket access:
// agents may act on any ticket, other users only on tickets they created.
func CanActOnTicket(caller *domain.User, ticket *domain.Ticket) bool {
	if caller == nil || ticket == nil {
		return false
	}
	if caller.IsAgent() {
		return true
	}
	return ticket.CreatedByID == caller.ID
}
