package access

import "sort"

// Permission names an action gated in the API and in the UI
type Permission string

const (
	PermViewCRM          Permission = "view-crm"
	PermManageClients    Permission = "manage-clients"
	PermManageLeads      Permission = "manage-leads"
	PermManageDeals      Permission = "manage-deals"
	PermManageInvoices   Permission = "manage-invoices"
	PermManageQuotes     Permission = "manage-quotes"
	PermManagePayments   Permission = "manage-payments"
	PermManageActivities Permission = "manage-activities"
	PermManageCatalog    Permission = "manage-catalog"
	PermManageSettings   Permission = "manage-settings"
	PermManageUsers      Permission = "manage-users"
	PermViewAnalytics    Permission = "view-analytics"
)

var matrix = map[Role][]Permission{
	RoleAdmin: {
		PermViewCRM, PermManageClients, PermManageLeads, PermManageDeals,
		PermManageInvoices, PermManageQuotes, PermManagePayments, PermManageActivities,
		PermManageCatalog, PermManageSettings, PermManageUsers, PermViewAnalytics,
	},
	RoleManager: {
		PermViewCRM, PermManageClients, PermManageLeads, PermManageDeals,
		PermManageInvoices, PermManageQuotes, PermManagePayments, PermManageActivities,
		PermViewAnalytics,
	},
	RoleMember: {
		PermViewCRM, PermManageClients, PermManageLeads, PermManageDeals,
		PermManageQuotes, PermManageActivities,
	},
	RoleViewer: {
		PermViewCRM,
	},
}

// All returns every permission, sorted by name
func All() []Permission {
	seen := make(map[Permission]bool)
	for _, perms := range matrix {
		for _, p := range perms {
			seen[p] = true
		}
	}
	out := make([]Permission, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Permissions returns the permissions granted to a role.
// The owner is granted everything.
func Permissions(role Role) []Permission {
	if role == RoleOwner {
		return All()
	}
	perms := matrix[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// PermissionNames returns Permissions(role) as plain strings, the form carried in tokens
func PermissionNames(role Role) []string {
	perms := Permissions(role)
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// Has reports whether role is granted perm. The owner is implicitly authorized.
func Has(role Role, perm Permission) bool {
	if role == RoleOwner {
		return true
	}
	for _, p := range matrix[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Matrix returns the full role → permissions table for display
func Matrix() map[Role][]Permission {
	out := make(map[Role][]Permission, len(levels))
	for _, r := range Roles() {
		out[r] = Permissions(r)
	}
	return out
}
