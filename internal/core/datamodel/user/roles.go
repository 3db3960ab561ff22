package user

const (
	RoleUnset      = ""
	RoleCongregant = "congregado"
	RoleMember     = "membro"
	RoleSecretary  = "secretario"
)

var roleLabels = map[string]string{
	RoleUnset:      "Não definido",
	RoleCongregant: "Congregado",
	RoleMember:     "Membro",
	RoleSecretary:  "Secretário",
}

// ApprovedRoles are the roles a user may hold once approved.
var ApprovedRoles = []string{RoleCongregant, RoleMember, RoleSecretary}

func IsApprovedRole(role string) bool {
	for _, r := range ApprovedRoles {
		if r == role {
			return true
		}
	}
	return false
}

func RoleLabel(role string) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return role
}
