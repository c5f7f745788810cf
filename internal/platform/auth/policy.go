package auth

import "slices"

// AppTag identifies this application in gateway account metadata. Admin
// privileges only apply to callers administering this application.
const AppTag = "gfw"

// IsMicroservice reports whether the caller is the distinguished
// service-to-service identity.
func (u *LoggedUser) IsMicroservice() bool {
	return u != nil && u.ID == MicroserviceID
}

// IsAdmin reports whether the caller is an administrator of this application.
func (u *LoggedUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin && slices.Contains(u.ExtraUserData.Apps, AppTag)
}

// IsSelf reports whether the caller owns the given record id.
func (u *LoggedUser) IsSelf(id string) bool {
	return u != nil && u.ID != "" && u.ID == id
}

// CanRead applies the self-or-admin-or-microservice rule used by profile
// reads.
func (u *LoggedUser) CanRead(id string) bool {
	return u.IsSelf(id) || u.IsAdmin() || u.IsMicroservice()
}

// CanList applies the admin-or-microservice rule used by the list-all
// operation; owners have no list privilege of their own.
func (u *LoggedUser) CanList() bool {
	return u.IsAdmin() || u.IsMicroservice()
}
