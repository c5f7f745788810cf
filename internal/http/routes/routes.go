package routes

import (
	"github.com/danielgtaylor/huma/v2"

	v1user "github.com/gfw-api/gfw-user-api/internal/http/v1/user"
	v2user "github.com/gfw-api/gfw-user-api/internal/http/v2/user"
	"github.com/gfw-api/gfw-user-api/internal/service/salesforce"
	storiessvc "github.com/gfw-api/gfw-user-api/internal/service/stories"
	usersvc "github.com/gfw-api/gfw-user-api/internal/service/user"
)

// Register wires all user API routes into the provided API router. Both API
// generations serve the same stored records.
func Register(
	api huma.API,
	userService usersvc.Service,
	storiesService storiessvc.Service,
	crm *salesforce.Dispatcher,
) {
	v1user.Register(api, userService, storiesService, crm)
	v2user.Register(api, userService, crm)
}
