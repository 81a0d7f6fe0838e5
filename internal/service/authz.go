package service

// Role colapsa los flags is_staff/is_superuser en un rol evaluado una sola
// vez por request.
type Role int

const (
	RoleCustomer Role = iota
	RoleStaff
	RoleAdmin
)

func RoleFromFlags(isStaff, isSuperuser bool) Role {
	switch {
	case isSuperuser:
		return RoleAdmin
	case isStaff:
		return RoleStaff
	default:
		return RoleCustomer
	}
}

// Privileged indica si el rol saltea los chequeos de propiedad.
func (r Role) Privileged() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Actor es la identidad autenticada de una request.
type Actor struct {
	CustomerID string
	Role       Role
}

// Owned es el conjunto cerrado de recursos con dueño. Cada tipo declara su
// propia resolucion de propiedad; ok en false significa cadena rota (una
// referencia anulada en algun salto).
type Owned interface {
	OwnerID() (string, bool)
}

// CanAccess decide lectura y escritura con el mismo predicado: staff y admin
// siempre pasan, el resto solo si la cadena de propiedad llega hasta ellos.
func CanAccess(actor Actor, resource Owned) bool {
	if actor.Role.Privileged() {
		return true
	}
	owner, ok := resource.OwnerID()
	if !ok {
		return false
	}
	return owner == actor.CustomerID
}

// ListScope describe el filtro de listados: todo para staff/admin, solo lo
// propio para el resto. Se usa para filtrar, nunca para responder 404/403 y
// filtrar existencia de registros ajenos.
type ListScope struct {
	All        bool
	CustomerID string
}

func ScopeListing(actor Actor) ListScope {
	if actor.Role.Privileged() {
		return ListScope{All: true}
	}
	return ListScope{CustomerID: actor.CustomerID}
}
