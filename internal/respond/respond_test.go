package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gfw-api/gfw-user-api/internal/jsonapi"
)

func decodeErrorDocument(t *testing.T, body []byte) jsonapi.ErrorDocument {
	t.Helper()
	var doc jsonapi.ErrorDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("failed to decode error document: %v", err)
	}
	return doc
}

func TestStatusErrorBuildsErrorDocument(t *testing.T) {
	Install(false)

	err := statusError(t.Context(), http.StatusNotFound, "User not found")

	if err.GetStatus() != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", err.GetStatus())
	}
	if err.Error() != "User not found" {
		t.Fatalf("expected detail 'User not found', got %q", err.Error())
	}

	docErr, ok := err.(*statusDocumentError)
	if !ok {
		t.Fatalf("expected *statusDocumentError, got %T", err)
	}
	if len(docErr.Errors) != 1 {
		t.Fatalf("expected 1 error entry, got %d", len(docErr.Errors))
	}
	if docErr.Errors[0].Status != http.StatusNotFound || docErr.Errors[0].Detail != "User not found" {
		t.Fatalf("unexpected error entry: %+v", docErr.Errors[0])
	}
}

func TestStatusErrorAppendsWrappedErrors(t *testing.T) {
	Install(false)

	err := statusError(t.Context(), http.StatusBadRequest, "Invalid body", errors.New("interests must be an array"))

	docErr := err.(*statusDocumentError)
	if len(docErr.Errors) != 2 {
		t.Fatalf("expected 2 error entries, got %d", len(docErr.Errors))
	}
	if docErr.Errors[1].Detail != "interests must be an array" {
		t.Fatalf("unexpected second detail: %q", docErr.Errors[1].Detail)
	}
}

func TestProductionMasksInternalErrors(t *testing.T) {
	Install(true)
	defer production.Store(false)

	err := statusError(t.Context(), http.StatusInternalServerError, "firestore: connection refused")

	docErr := err.(*statusDocumentError)
	if docErr.Errors[0].Detail != msgUnexpected {
		t.Fatalf("expected masked detail %q, got %q", msgUnexpected, docErr.Errors[0].Detail)
	}
}

func TestProductionDoesNotMaskClientErrors(t *testing.T) {
	Install(true)
	defer production.Store(false)

	err := statusError(t.Context(), http.StatusBadRequest, "Duplicated user")

	docErr := err.(*statusDocumentError)
	if docErr.Errors[0].Detail != "Duplicated user" {
		t.Fatalf("expected detail preserved for 400, got %q", docErr.Errors[0].Detail)
	}
}

func TestNotFoundHandler(t *testing.T) {
	Install(false)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	resp := httptest.NewRecorder()
	NotFoundHandler()(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != jsonapi.MediaType {
		t.Fatalf("expected content type %q, got %q", jsonapi.MediaType, ct)
	}
	doc := decodeErrorDocument(t, resp.Body.Bytes())
	if len(doc.Errors) != 1 || doc.Errors[0].Detail != msgNotFound {
		t.Fatalf("unexpected error document: %+v", doc)
	}
}

func TestMethodNotAllowedHandler(t *testing.T) {
	Install(false)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/user", nil)
	resp := httptest.NewRecorder()
	MethodNotAllowedHandler()(resp, req)

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	doc := decodeErrorDocument(t, resp.Body.Bytes())
	if len(doc.Errors) != 1 || doc.Errors[0].Detail != msgMethodNotAllowed {
		t.Fatalf("unexpected error document: %+v", doc)
	}
}

func TestRecovererConvertsPanicTo500(t *testing.T) {
	Install(false)

	handler := Recoverer()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	doc := decodeErrorDocument(t, resp.Body.Bytes())
	if len(doc.Errors) != 1 || doc.Errors[0].Detail != "boom" {
		t.Fatalf("unexpected error document: %+v", doc)
	}
}

func TestRecovererMasksPanicDetailInProduction(t *testing.T) {
	Install(true)
	defer production.Store(false)

	handler := Recoverer()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("secret internal state")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	doc := decodeErrorDocument(t, resp.Body.Bytes())
	if doc.Errors[0].Detail != msgUnexpected {
		t.Fatalf("expected masked detail, got %q", doc.Errors[0].Detail)
	}
}

func TestRecovererPassesThroughNormalRequests(t *testing.T) {
	Install(false)

	handler := Recoverer()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}
