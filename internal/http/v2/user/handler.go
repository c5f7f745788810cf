// Package user serves the second-generation profile API, where all
// application fields travel under applicationData namespaces while the
// stored legacy fields are kept in sync for v1 clients.
package user

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gfw-api/gfw-user-api/internal/jsonapi"
	"github.com/gfw-api/gfw-user-api/internal/platform/auth"
	"github.com/gfw-api/gfw-user-api/internal/service/salesforce"
	usersvc "github.com/gfw-api/gfw-user-api/internal/service/user"
)

const (
	basePath     = "/api/v2/user"
	resourceType = "user"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Register registers the v2 user endpoints.
func Register(api huma.API, svc usersvc.Service, crm *salesforce.Dispatcher) {
	huma.Register(api, huma.Operation{
		OperationID: "v2-get-current-user",
		Method:      http.MethodGet,
		Path:        basePath,
		Summary:     "Get the caller's own profile",
		Description: "Unlike v1, a missing profile is a 404 here.",
		Tags:        []string{"User v2"},
	}, func(ctx context.Context, _ *CurrentUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		return getByID(ctx, svc, caller, caller.ID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "v2-get-user",
		Method:      http.MethodGet,
		Path:        basePath + "/{id}",
		Summary:     "Get a user by id",
		Tags:        []string{"User v2"},
	}, func(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		return getByID(ctx, svc, caller, input.ID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "v2-create-user",
		Method:      http.MethodPost,
		Path:        basePath,
		Summary:     "Create the caller's profile",
		Description: "Keys in applicationData.gfw that mirror a legacy field are lifted into the flat record; the rest is stored as extension data.",
		Tags:        []string{"User v2"},
	}, func(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		u, err := svc.Create(ctx, caller.ID, usersvc.CreateParams{
			UpdateParams: usersvc.UpdateParams{
				FullName:  input.Body.FullName,
				FirstName: input.Body.FirstName,
				LastName:  input.Body.LastName,
				Email:     input.Body.Email,
			},
			ApplicationData: input.Body.ApplicationData,
		})
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &UserOutput{Body: toDocument(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "v2-update-user",
		Method:      http.MethodPatch,
		Path:        basePath + "/{id}",
		Summary:     "Update a user",
		Description: "Owner only, and the record must already exist. Namespaces absent from applicationData are preserved unchanged.",
		Tags:        []string{"User v2"},
	}, func(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		if !caller.IsSelf(input.ID) {
			return nil, huma.Error403Forbidden("Forbidden")
		}

		u, err := svc.UpdateApplicationData(ctx, input.ID, usersvc.ApplicationParams{
			FullName:        input.Body.FullName,
			FirstName:       input.Body.FirstName,
			LastName:        input.Body.LastName,
			Email:           input.Body.Email,
			ApplicationData: input.Body.ApplicationData,
		})
		if err != nil {
			return nil, mapServiceError(err)
		}

		crm.Dispatch(ctx, u)

		return &UserOutput{Body: toDocument(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "v2-delete-user",
		Method:      http.MethodDelete,
		Path:        basePath + "/{id}",
		Summary:     "Delete a user",
		Description: "Owner only. Responds with the deleted record's last state.",
		Tags:        []string{"User v2"},
	}, func(ctx context.Context, input *DeleteUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		if !caller.IsSelf(input.ID) {
			return nil, huma.Error401Unauthorized("Not authorized")
		}

		u, err := svc.Delete(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &UserOutput{Body: toDocument(u)}, nil
	})
}

func getByID(ctx context.Context, svc usersvc.Service, caller *auth.LoggedUser, id string) (*UserOutput, error) {
	if !caller.CanRead(id) {
		return nil, huma.Error403Forbidden("Forbidden")
	}
	if !idPattern.MatchString(id) {
		return nil, huma.Error404NotFound("User not found")
	}

	u, err := svc.Get(ctx, id)
	if err != nil {
		return nil, mapServiceError(err)
	}
	return &UserOutput{Body: toDocument(u)}, nil
}

func requireUser(ctx context.Context) (*auth.LoggedUser, error) {
	caller, err := auth.Require(ctx)
	if err != nil {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	return caller, nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, usersvc.ErrNotFound):
		return huma.Error404NotFound("User not found")
	case errors.Is(err, usersvc.ErrAlreadyExists):
		return huma.Error400BadRequest("Duplicated user")
	case errors.Is(err, usersvc.ErrUnsupportedSector):
		return huma.Error400BadRequest("Unsupported sector")
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}

func toDocument(u *usersvc.User) jsonapi.Document[UserAttributes] {
	return jsonapi.NewDocument(resourceType, u.ID, toAttributes(u))
}
