package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestErrorCode_TypeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want ErrorType
	}{
		{CodeUnknownError, TypeUnknownError},
		{CodeEndpointNotFound, TypeRecordNotFound},
		{CodeMethodNotAllowed, TypeInvalidRequestParameters},
		{CodeItemNotFound, TypeRecordNotFound},
		{CodeInvalidParams, TypeInvalidRequestParameters},
		{CodeInvalidRequestBody, TypeInvalidRequestParameters},
		{CodeInvalidRequestSignature, TypeUnauthorizedRequest},
		{CodeMissingFields, TypeInvalidRequestParameters},
		{CodeInvalidColor, TypeInvalidRequestParameters},
		{ErrorCode("BOGUS"), TypeUnknownError}, // fallback
	}
	for _, tc := range cases {
		if got := tc.code.Type(); got != tc.want {
			t.Fatalf("%s.Type() = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestNewEnvelope_NilFieldsRenderAsEmptyList(t *testing.T) {
	env := NewEnvelope(http.StatusNotFound, CodeItemNotFound, "Item not found.", nil)

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"error":{"code":"ITEM_NOT_FOUND","type":"RECORD_NOT_FOUND","status_code":404,"message":"Item not found.","fields":[]}}`
	if string(b) != want {
		t.Fatalf("envelope = %s\nwant       %s", b, want)
	}
}
