// Package user serves the first-generation profile API: the flat legacy
// field shape, list/lookup endpoints for back-office callers and the stories
// passthrough.
package user

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gfw-api/gfw-user-api/internal/jsonapi"
	"github.com/gfw-api/gfw-user-api/internal/platform/auth"
	"github.com/gfw-api/gfw-user-api/internal/service/salesforce"
	storiessvc "github.com/gfw-api/gfw-user-api/internal/service/stories"
	usersvc "github.com/gfw-api/gfw-user-api/internal/service/user"
)

const (
	basePath     = "/api/v1/user"
	resourceType = "user"
)

// Historical record ids are 24-char hex strings; anything else is treated as
// an id that cannot exist.
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Register registers the v1 user endpoints.
func Register(
	api huma.API,
	svc usersvc.Service,
	stories storiessvc.Service,
	crm *salesforce.Dispatcher,
) {
	huma.Register(api, huma.Operation{
		OperationID: "get-current-user",
		Method:      http.MethodGet,
		Path:        basePath,
		Summary:     "Get the caller's own profile",
		Description: "Returns the profile of the authenticated caller. A missing profile is a success with a null data member, not an error.",
		Tags:        []string{"User v1"},
	}, func(ctx context.Context, _ *CurrentUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		u, err := svc.Get(ctx, caller.ID)
		if errors.Is(err, usersvc.ErrNotFound) {
			return &UserOutput{Body: jsonapi.NullDocument[UserAttributes]()}, nil
		}
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &UserOutput{Body: toDocument(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-all-users",
		Method:      http.MethodGet,
		Path:        basePath + "/obtain/all-users",
		Summary:     "List all users",
		Description: "Admin and microservice callers only. The creation-date filter applies only when both start and end are supplied.",
		Tags:        []string{"User v1"},
	}, func(ctx context.Context, input *ListUsersInput) (*UserListOutput, error) {
		caller := auth.UserFromContext(ctx)
		if caller == nil || caller.ID == "" {
			return nil, huma.Error401Unauthorized("Not authorized")
		}
		if !caller.CanList() {
			return nil, huma.Error403Forbidden("Forbidden")
		}

		filter, err := parseListFilter(input.Start, input.End)
		if err != nil {
			return nil, err
		}

		users, err := svc.List(ctx, filter)
		if err != nil {
			return nil, mapServiceError(err)
		}

		resources := make([]jsonapi.Resource[UserAttributes], 0, len(users))
		for _, u := range users {
			resources = append(resources, jsonapi.Resource[UserAttributes]{
				Type:       resourceType,
				ID:         u.ID,
				Attributes: toAttributes(u),
			})
		}
		return &UserListOutput{Body: jsonapi.NewListDocument(resources)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-user",
		Method:      http.MethodPost,
		Path:        basePath,
		Summary:     "Create the caller's profile",
		Description: "The new record's id is the caller's identity id, never generated.",
		Tags:        []string{"User v1"},
	}, func(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		u, err := svc.Create(ctx, caller.ID, usersvc.CreateParams{
			UpdateParams: toUpdateParams(input.Body),
		})
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &UserOutput{Body: toDocument(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user-stories",
		Method:      http.MethodGet,
		Path:        basePath + "/stories",
		Summary:     "Get the caller's stories",
		Description: "Proxies the stories microservice. Upstream failures surface as a fixed 503.",
		Tags:        []string{"User v1"},
	}, func(ctx context.Context, _ *StoriesInput) (*StoriesOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		payload, err := stories.GetByUser(ctx, caller.ID)
		if err != nil {
			return nil, huma.Error503ServiceUnavailable("Stories temporarily unavailable")
		}
		return &StoriesOutput{ContentType: "application/json", Body: payload}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user-by-old-id",
		Method:      http.MethodGet,
		Path:        basePath + "/oldId/{id}",
		Summary:     "Get a user by legacy numeric id",
		Tags:        []string{"User v1"},
	}, func(ctx context.Context, input *GetUserByOldIDInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		u, err := svc.GetByOldID(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		if !caller.CanRead(u.ID) {
			return nil, huma.Error403Forbidden("Forbidden")
		}
		return &UserOutput{Body: toDocument(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        basePath + "/{id}",
		Summary:     "Get a user by id",
		Tags:        []string{"User v1"},
	}, func(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		if !caller.CanRead(input.ID) {
			return nil, huma.Error403Forbidden("Forbidden")
		}
		if !idPattern.MatchString(input.ID) {
			return nil, huma.Error404NotFound("User not found")
		}

		u, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &UserOutput{Body: toDocument(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPatch,
		Path:        basePath + "/{id}",
		Summary:     "Update a user",
		Description: "Owner only. Creates the record on first touch. Absent body fields are left unchanged.",
		Tags:        []string{"User v1"},
	}, func(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
		caller, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}
		if !caller.IsSelf(input.ID) {
			return nil, huma.Error403Forbidden("Forbidden")
		}

		u, err := svc.Update(ctx, input.ID, toUpdateParams(input.Body))
		if err != nil {
			return nil, mapServiceError(err)
		}

		crm.Dispatch(ctx, u)

		return &UserOutput{Body: toDocument(u)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-user",
		Method:      http.MethodDelete,
		Path:        basePath + "/{id}",
		Summary:     "Delete a user",
		Description: "Owner only. Responds with the deleted record's last state.",
		Tags:        []string{"User v1"},
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

func toUpdateParams(body UserBody) usersvc.UpdateParams {
	return usersvc.UpdateParams{
		FullName:                body.FullName,
		FirstName:               body.FirstName,
		LastName:                body.LastName,
		Email:                   body.Email,
		Sector:                  body.Sector,
		Subsector:               body.Subsector,
		JobTitle:                body.JobTitle,
		Company:                 body.Company,
		Country:                 body.Country,
		State:                   body.State,
		City:                    body.City,
		AoiCountry:              body.AoiCountry,
		AoiState:                body.AoiState,
		AoiCity:                 body.AoiCity,
		Language:                body.Language,
		Interests:               body.Interests,
		HowDoYouUse:             body.HowDoYouUse,
		PrimaryResponsibilities: body.PrimaryResponsibilities,
		Topics:                  body.Topics,
		SignUpForTesting:        flagPtr(body.SignUpForTesting),
		SignUpToNewsletter:      flagPtr(body.SignUpToNewsletter),
		ProfileComplete:         flagPtr(body.ProfileComplete),
	}
}

func flagPtr(f *Flag) *bool {
	if f == nil {
		return nil
	}
	v := bool(*f)
	return &v
}

// parseDate accepts plain ISO dates and full RFC 3339 timestamps.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseListFilter(start, end string) (usersvc.ListFilter, error) {
	var filter usersvc.ListFilter
	if start == "" || end == "" {
		return filter, nil
	}
	s, err := parseDate(start)
	if err != nil {
		return filter, huma.Error400BadRequest("Invalid start date")
	}
	e, err := parseDate(end)
	if err != nil {
		return filter, huma.Error400BadRequest("Invalid end date")
	}
	filter.Start = &s
	filter.End = &e
	return filter, nil
}
