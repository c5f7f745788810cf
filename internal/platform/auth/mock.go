package auth

import "encoding/json"

// TestUser returns a plain owner descriptor for tests.
func TestUser(id string) *LoggedUser {
	return &LoggedUser{ID: id, Role: "USER"}
}

// TestAdmin returns an admin descriptor scoped to this application.
func TestAdmin(id string) *LoggedUser {
	return &LoggedUser{
		ID:            id,
		Role:          RoleAdmin,
		ExtraUserData: ExtraUserData{Apps: []string{AppTag}},
	}
}

// TestMicroservice returns the service-to-service descriptor.
func TestMicroservice() *LoggedUser {
	return &LoggedUser{ID: MicroserviceID, Role: RoleAdmin}
}

// QueryValue renders a descriptor the way the gateway passes it in the
// loggedUser query parameter.
func QueryValue(u *LoggedUser) string {
	b, _ := json.Marshal(u)
	return string(b)
}
