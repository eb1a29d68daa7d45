package identity

// Role is the permission level of a user inside a store
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "gerente"
	RoleStockClerk Role = "estoquista"
	RoleOperator   Role = "operador"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStockClerk, RoleOperator:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// CheckoutRoles may open and operate sales
var CheckoutRoles = []Role{RoleAdmin, RoleManager, RoleOperator}

// StockRoles may adjust stock and run inventory counts
var StockRoles = []Role{RoleAdmin, RoleManager, RoleStockClerk}

// ManagementRoles may change catalog, purchasing and finance data
var ManagementRoles = []Role{RoleAdmin, RoleManager}
