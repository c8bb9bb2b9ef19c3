package entity

// Roles válidos para UserRole.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTechnician = "technician"
	RoleWarehouse  = "warehouse"
	RoleCaixa      = "caixa"
)

// roleRank orden de precedencia: menor número = más privilegio.
var roleRank = map[string]int{
	RoleSuperadmin: 0,
	RoleAdmin:      1,
	RoleManager:    2,
	RoleTechnician: 3,
	RoleWarehouse:  4,
	RoleCaixa:      5,
}

// UserRole asignación de un rol a un usuario dentro de un tenant.
// Un usuario puede tener varias filas por tenant; el rol efectivo es el de mayor precedencia.
type UserRole struct {
	UserID   string
	TenantID string // vacío para superadmin de plataforma
	Role     string
}

// IsValidRole informa si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// HighestRole devuelve el rol de mayor precedencia de la lista (superadmin > admin > manager >
// technician > warehouse > caixa). Ignora roles desconocidos; devuelve "" si no hay ninguno válido.
func HighestRole(roles []string) string {
	best := ""
	bestRank := len(roleRank)
	for _, r := range roles {
		rank, ok := roleRank[r]
		if ok && rank < bestRank {
			best, bestRank = r, rank
		}
	}
	return best
}

// HasRole informa si role está en la lista.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// Outranks informa si a tiene precedencia estricta sobre b.
func Outranks(a, b string) bool {
	ra, okA := roleRank[a]
	rb, okB := roleRank[b]
	return okA && okB && ra < rb
}
