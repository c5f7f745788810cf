// Package jsonapi holds the flat resource-document response convention used
// by every endpoint: successes are {"data": {"type", "id", "attributes"}}
// documents, failures are {"errors": [{"status", "detail"}]} documents, both
// served with the vendor JSON media type.
package jsonapi

// MediaType is the content type used for all API response documents.
const MediaType = "application/vnd.api+json"

// Resource is a single typed resource with its attributes.
type Resource[T any] struct {
	Type       string `json:"type" doc:"Resource type" example:"user"`
	ID         string `json:"id"   doc:"Resource identifier"`
	Attributes T      `json:"attributes"`
}

// Document wraps one resource. Data is null when the lookup legitimately
// produced nothing (e.g. the caller's own, not-yet-created profile).
type Document[T any] struct {
	Data *Resource[T] `json:"data"`
}

// ContentType reports the vendor media type regardless of the negotiated
// default. Implements huma.ContentTypeFilter.
func (Document[T]) ContentType(string) string {
	return MediaType
}

// ListDocument wraps a collection of resources.
type ListDocument[T any] struct {
	Data []Resource[T] `json:"data"`
}

// ContentType implements huma.ContentTypeFilter.
func (ListDocument[T]) ContentType(string) string {
	return MediaType
}

// Error is a single error object within an error document.
type Error struct {
	Status int    `json:"status" doc:"HTTP status code"`
	Detail string `json:"detail" doc:"Human-readable error detail"`
}

// ErrorDocument is the error response body.
type ErrorDocument struct {
	Errors []Error `json:"errors"`
}

// ContentType implements huma.ContentTypeFilter.
func (ErrorDocument) ContentType(string) string {
	return MediaType
}

// NewDocument wraps attributes for a single resource of the given type.
func NewDocument[T any](resourceType, id string, attributes T) Document[T] {
	return Document[T]{
		Data: &Resource[T]{
			Type:       resourceType,
			ID:         id,
			Attributes: attributes,
		},
	}
}

// NullDocument returns a success document with a null data member.
func NullDocument[T any]() Document[T] {
	return Document[T]{}
}

// NewListDocument wraps a resource slice. The data member is always an array,
// never null, so empty result sets serialize as [].
func NewListDocument[T any](resources []Resource[T]) ListDocument[T] {
	if resources == nil {
		resources = []Resource[T]{}
	}
	return ListDocument[T]{Data: resources}
}

// NewErrorDocument builds a single-error document.
func NewErrorDocument(status int, detail string) ErrorDocument {
	return ErrorDocument{Errors: []Error{{Status: status, Detail: detail}}}
}
