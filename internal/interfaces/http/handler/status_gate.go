package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/paydesk/backend/internal/domain/billing"
	"github.com/paydesk/backend/internal/domain/expense"
	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/domain/shared"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
)

// transitionRule names the permission that moves a request into a
// given status, plus the account roles grandfathered in for users
// without explicit role assignments.
type transitionRule struct {
	perm        identity.Permission
	legacyRoles []identity.AccountRole
}

func (r transitionRule) allowsLegacy(role identity.AccountRole) bool {
	for _, allowed := range r.legacyRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

var (
	approverRoles = []identity.AccountRole{identity.AccountRoleAdmin, identity.AccountRoleManager}
	payerRoles    = []identity.AccountRole{identity.AccountRoleAdmin, identity.AccountRoleAccountant}
)

// Only approval, rejection and settlement are privileged transitions.
// Submitting, cancelling and reopening are open to anyone who can see
// the request; ownership is enforced by the services.
var paymentTransitionRules = map[billing.Status]transitionRule{
	billing.StatusApproved: {identity.NewPermission(identity.ResourcePaymentRequest, identity.ActionApprove), approverRoles},
	billing.StatusRejected: {identity.NewPermission(identity.ResourcePaymentRequest, identity.ActionReject), approverRoles},
	billing.StatusPaid:     {identity.NewPermission(identity.ResourcePaymentRequest, identity.ActionUpdate), payerRoles},
}

var expenseTransitionRules = map[expense.Status]transitionRule{
	expense.StatusApproved: {identity.NewPermission(identity.ResourceExpenseRequest, identity.ActionApprove), approverRoles},
	expense.StatusRejected: {identity.NewPermission(identity.ResourceExpenseRequest, identity.ActionReject), approverRoles},
	expense.StatusPaid:     {identity.NewPermission(identity.ResourceExpenseRequest, identity.ActionUpdate), payerRoles},
}

// requireTransition enforces a privileged transition rule. It writes
// the error response and returns false when the caller may not perform
// the transition.
func requireTransition(c *gin.Context, checker middleware.PermissionChecker, rule transitionRule) bool {
	claims := middleware.GetClaims(c)
	if rule.allowsLegacy(claims.Role) {
		return true
	}
	allowed, err := checker.CheckPermission(c.Request.Context(), claims.UserID, rule.perm)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !allowed {
		respondError(c, shared.ErrForbidden)
		return false
	}
	return true
}
