package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/tbourn/go-users-api/internal/domain"
	"github.com/tbourn/go-users-api/internal/services"
)

const validUUID = "141add05-4415-4938-b5a1-17e0d3171aff"

func TestGetUsers_EmptyListSerializesAsList(t *testing.T) {
	r := newTestRouter(stubUserSvc{}, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodGet, "/users/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp UsersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Users == nil || len(resp.Users) != 0 {
		t.Fatalf("users must be an empty list, got %+v", resp.Users)
	}
}

func TestGetUsers_PassesBounds(t *testing.T) {
	var gotLimit, gotOffset int
	svc := stubUserSvc{list: func(_ context.Context, limit, offset int) ([]domain.User, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}}
	r := newTestRouter(svc, stubPostSvc{}, stubCarSvc{})

	doJSON(t, r, http.MethodGet, "/users/?limit=25&offset=50", "")
	if gotLimit != 25 || gotOffset != 50 {
		t.Fatalf("bounds = (%d,%d), want (25,50)", gotLimit, gotOffset)
	}

	// Out-of-range values are normalized, not rejected.
	doJSON(t, r, http.MethodGet, "/users/?limit=-3&offset=-9", "")
	if gotLimit != 0 || gotOffset != 0 {
		t.Fatalf("negative bounds = (%d,%d), want (0,0)", gotLimit, gotOffset)
	}
	doJSON(t, r, http.MethodGet, "/users/?limit=99999", "")
	if gotLimit != 500 {
		t.Fatalf("limit cap = %d, want 500", gotLimit)
	}
}

func TestGetUser_WrapsSingleUserInList(t *testing.T) {
	svc := stubUserSvc{get: func(_ context.Context, id string) (*domain.User, error) {
		return &domain.User{ID: id}, nil
	}}
	r := newTestRouter(svc, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodGet, "/users/"+validUUID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp UsersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Users) != 1 || resp.Users[0].ID != validUUID {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	svc := stubUserSvc{get: func(context.Context, string) (*domain.User, error) {
		return nil, services.ErrUserNotFound
	}}
	r := newTestRouter(svc, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodGet, "/users/"+validUUID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != CodeItemNotFound || env.Error.Type != TypeRecordNotFound {
		t.Fatalf("unexpected code/type: %s/%s", env.Error.Code, env.Error.Type)
	}
	if env.Error.Message != "Item not found." {
		t.Fatalf("message = %q", env.Error.Message)
	}
}

func TestGetUser_MalformedID(t *testing.T) {
	r := newTestRouter(stubUserSvc{}, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodGet, "/users/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != CodeInvalidParams {
		t.Fatalf("code = %s, want INVALID_PARAMS", env.Error.Code)
	}
	if len(env.Error.Fields) != 1 || env.Error.Fields[0].Message != "Value is not a valid uuid." {
		t.Fatalf("unexpected fields: %+v", env.Error.Fields)
	}
}

func TestGetUser_InternalErrorIsGeneric(t *testing.T) {
	svc := stubUserSvc{get: func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("pq: connection reset")
	}}
	r := newTestRouter(svc, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodGet, "/users/"+validUUID, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != CodeUnknownError {
		t.Fatalf("code = %s, want UNKNOWN_ERROR", env.Error.Code)
	}
	if env.Error.Message != "An unknown error occurred. Please try again later." {
		t.Fatalf("internal detail must not leak: %q", env.Error.Message)
	}
}

func TestPostUser_UpsertReturnsUser(t *testing.T) {
	var gotEmail, gotSMS *string
	svc := stubUserSvc{upsert: func(_ context.Context, email, sms *string) (*domain.User, error) {
		gotEmail, gotSMS = email, sms
		return &domain.User{ID: validUUID, Email: email, SMS: sms}, nil
	}}
	r := newTestRouter(svc, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodPost, "/users/", `{"email":"a@example.com","sms":"1234567890"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotEmail == nil || *gotEmail != "a@example.com" || gotSMS == nil || *gotSMS != "1234567890" {
		t.Fatalf("keys not forwarded: email=%v sms=%v", gotEmail, gotSMS)
	}
	var resp UsersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Users) != 1 || resp.Users[0].ID != validUUID {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestPostUser_NoKeys(t *testing.T) {
	svc := stubUserSvc{upsert: func(context.Context, *string, *string) (*domain.User, error) {
		return nil, services.ErrNoMatchKey
	}}
	r := newTestRouter(svc, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodPost, "/users/", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Error.Code != CodeInvalidParams {
		t.Fatalf("code = %s, want INVALID_PARAMS", env.Error.Code)
	}
}

func TestDeleteUser_Acknowledges(t *testing.T) {
	r := newTestRouter(stubUserSvc{}, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodDelete, "/users/"+validUUID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp DeleteUserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "Successfully deleted user: "+validUUID {
		t.Fatalf("status message = %q", resp.Status)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc := stubUserSvc{del: func(context.Context, string) error {
		return services.ErrUserNotFound
	}}
	r := newTestRouter(svc, stubPostSvc{}, stubCarSvc{})

	w := doJSON(t, r, http.MethodDelete, "/users/"+validUUID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
