package identity

import (
	"fmt"
	"strings"
)

// Action is an operation that can be performed on a resource
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionReadAll Action = "read_all"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionManage  Action = "manage"
)

// Resource is a protected entity type
type Resource string

const (
	ResourceUser           Resource = "user"
	ResourceRole           Resource = "role"
	ResourceCompany        Resource = "company"
	ResourceDepartment     Resource = "department"
	ResourceExpenseRequest Resource = "expense_request"
	ResourcePaymentRequest Resource = "payment_request"
	ResourceBudget         Resource = "budget"
	ResourceReport         Resource = "report"
	ResourceSetting        Resource = "setting"
)

// Permission is a resource:action pair
type Permission string

// NewPermission builds a permission from a resource and an action
func NewPermission(resource Resource, action Action) Permission {
	return Permission(fmt.Sprintf("%s:%s", resource, action))
}

// Resource returns the resource part of the permission
func (p Permission) Resource() Resource {
	parts := strings.SplitN(string(p), ":", 2)
	return Resource(parts[0])
}

// Action returns the action part of the permission
func (p Permission) Action() Action {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) < 2 {
		return ""
	}
	return Action(parts[1])
}

// IsValid reports whether the permission is part of the system catalog
func (p Permission) IsValid() bool {
	_, ok := permissionSet[p]
	return ok
}

// Catalog of every permission the system knows about, grouped by resource.
// Not every resource supports every action.
var resourceActions = map[Resource][]Action{
	ResourceUser:           {ActionCreate, ActionRead, ActionReadAll, ActionUpdate, ActionDelete, ActionManage},
	ResourceRole:           {ActionCreate, ActionRead, ActionReadAll, ActionUpdate, ActionDelete, ActionManage},
	ResourceCompany:        {ActionCreate, ActionRead, ActionReadAll, ActionUpdate, ActionDelete, ActionManage},
	ResourceDepartment:     {ActionCreate, ActionRead, ActionReadAll, ActionUpdate, ActionDelete, ActionManage},
	ResourceExpenseRequest: {ActionCreate, ActionRead, ActionReadAll, ActionUpdate, ActionDelete, ActionApprove, ActionReject},
	ResourcePaymentRequest: {ActionCreate, ActionRead, ActionReadAll, ActionUpdate, ActionDelete, ActionApprove, ActionReject},
	ResourceBudget:         {ActionCreate, ActionRead, ActionReadAll, ActionUpdate, ActionDelete, ActionApprove},
	ResourceReport:         {ActionCreate, ActionRead, ActionReadAll},
	ResourceSetting:        {ActionRead, ActionUpdate, ActionManage},
}

var (
	allPermissions []Permission
	permissionSet  map[Permission]struct{}
)

func init() {
	permissionSet = make(map[Permission]struct{})
	for _, resource := range orderedResources {
		for _, action := range resourceActions[resource] {
			p := NewPermission(resource, action)
			allPermissions = append(allPermissions, p)
			permissionSet[p] = struct{}{}
		}
	}
}

// Stable iteration order for catalog listings
var orderedResources = []Resource{
	ResourceUser,
	ResourceRole,
	ResourceCompany,
	ResourceDepartment,
	ResourceExpenseRequest,
	ResourcePaymentRequest,
	ResourceBudget,
	ResourceReport,
	ResourceSetting,
}

// AllPermissions returns every permission in the catalog
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// PermissionsByResource returns the catalog grouped by resource,
// in a stable order suitable for UI display
func PermissionsByResource() []PermissionGroup {
	groups := make([]PermissionGroup, 0, len(orderedResources))
	for _, resource := range orderedResources {
		group := PermissionGroup{Resource: resource}
		for _, action := range resourceActions[resource] {
			group.Permissions = append(group.Permissions, NewPermission(resource, action))
		}
		groups = append(groups, group)
	}
	return groups
}

// PermissionGroup is a resource with its supported permissions
type PermissionGroup struct {
	Resource    Resource     `json:"resource"`
	Permissions []Permission `json:"permissions"`
}

// DefaultRolePermissions maps a legacy account role to the permissions it
// implies when the account has no explicit role assignment
var DefaultRolePermissions = map[AccountRole][]Permission{
	AccountRoleAdmin: AllPermissions(),
	AccountRoleManager: {
		NewPermission(ResourceUser, ActionRead),
		NewPermission(ResourceUser, ActionReadAll),
		NewPermission(ResourceCompany, ActionRead),
		NewPermission(ResourceDepartment, ActionCreate),
		NewPermission(ResourceDepartment, ActionRead),
		NewPermission(ResourceDepartment, ActionReadAll),
		NewPermission(ResourceDepartment, ActionUpdate),
		NewPermission(ResourceExpenseRequest, ActionCreate),
		NewPermission(ResourceExpenseRequest, ActionRead),
		NewPermission(ResourceExpenseRequest, ActionReadAll),
		NewPermission(ResourceExpenseRequest, ActionUpdate),
		NewPermission(ResourceExpenseRequest, ActionApprove),
		NewPermission(ResourceExpenseRequest, ActionReject),
		NewPermission(ResourcePaymentRequest, ActionCreate),
		NewPermission(ResourcePaymentRequest, ActionRead),
		NewPermission(ResourcePaymentRequest, ActionReadAll),
		NewPermission(ResourcePaymentRequest, ActionUpdate),
		NewPermission(ResourcePaymentRequest, ActionApprove),
		NewPermission(ResourcePaymentRequest, ActionReject),
		NewPermission(ResourceBudget, ActionCreate),
		NewPermission(ResourceBudget, ActionRead),
		NewPermission(ResourceBudget, ActionReadAll),
		NewPermission(ResourceBudget, ActionUpdate),
		NewPermission(ResourceBudget, ActionApprove),
		NewPermission(ResourceReport, ActionCreate),
		NewPermission(ResourceReport, ActionRead),
		NewPermission(ResourceReport, ActionReadAll),
	},
	AccountRoleAccountant: {
		NewPermission(ResourceUser, ActionRead),
		NewPermission(ResourceCompany, ActionRead),
		NewPermission(ResourceExpenseRequest, ActionRead),
		NewPermission(ResourceExpenseRequest, ActionReadAll),
		NewPermission(ResourcePaymentRequest, ActionCreate),
		NewPermission(ResourcePaymentRequest, ActionRead),
		NewPermission(ResourcePaymentRequest, ActionReadAll),
		NewPermission(ResourcePaymentRequest, ActionUpdate),
		NewPermission(ResourceBudget, ActionRead),
		NewPermission(ResourceBudget, ActionReadAll),
		NewPermission(ResourceReport, ActionCreate),
		NewPermission(ResourceReport, ActionRead),
		NewPermission(ResourceReport, ActionReadAll),
	},
	AccountRoleUser: {
		NewPermission(ResourceUser, ActionRead),
		NewPermission(ResourceExpenseRequest, ActionCreate),
		NewPermission(ResourceExpenseRequest, ActionRead),
		NewPermission(ResourcePaymentRequest, ActionCreate),
		NewPermission(ResourcePaymentRequest, ActionRead),
		NewPermission(ResourceBudget, ActionRead),
		NewPermission(ResourceReport, ActionRead),
	},
}
