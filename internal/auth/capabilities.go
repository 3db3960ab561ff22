package auth

import userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"

// Capability decides whether an actor may perform a class of operations.
type Capability func(actor *Actor) bool

// CanApprove covers approving, rejecting and administering user records.
func CanApprove(actor *Actor) bool {
	return actor != nil && actor.Active && actor.Role == userDatamodel.RoleSecretary
}

func CanManageSuperusers(actor *Actor) bool {
	return actor != nil && actor.Active && actor.IsSuperuser
}

func CanIssueBaptismCertificate(actor *Actor) bool {
	return actor != nil && actor.Active && actor.Role == userDatamodel.RoleMember
}

func CanGenerateInvitation(actor *Actor) bool {
	return CanApprove(actor)
}

func CanViewDashboard(actor *Actor) bool {
	return CanApprove(actor)
}
