package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tablechat/tablechat/internal/translator"
)

func postQuery(t *testing.T, deps Dependencies, body string) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(testConfig(), deps)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(body)))
	return rr
}

func TestQueryReturnsRows(t *testing.T) {
	runner := &fakeRunner{result: translator.Result{
		Rows:  []map[string]any{{"name": "Widget"}},
		Count: 1,
	}}
	rr := postQuery(t, Dependencies{Catalog: testCatalog(), Runner: runner}, `{"sql":"SELECT name FROM items"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var body queryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Count != 1 || len(body.Data) != 1 {
		t.Fatalf("body = %+v", body)
	}
}

func TestQueryStatusByErrorCode(t *testing.T) {
	cases := []struct {
		name   string
		code   translator.Code
		status int
	}{
		{"unsafe", translator.CodeUnsafe, http.StatusBadRequest},
		{"parse", translator.CodeParse, http.StatusBadRequest},
		{"unsupported", translator.CodeUnsupported, http.StatusUnprocessableEntity},
		{"unknown table", translator.CodeUnknownTable, http.StatusNotFound},
		{"unknown column", translator.CodeUnknownColumn, http.StatusNotFound},
		{"store", translator.CodeStore, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{err: &translator.Error{Code: tc.code, Message: "nope"}}
			rr := postQuery(t, Dependencies{Catalog: testCatalog(), Runner: runner}, `{"sql":"SELECT x"}`)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			var body map[string]any
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error_code"] != strings.ToUpper(string(tc.code)) {
				t.Fatalf("error_code = %v", body["error_code"])
			}
		})
	}
}

func TestQueryRequiresSQL(t *testing.T) {
	rr := postQuery(t, Dependencies{Catalog: testCatalog(), Runner: &fakeRunner{}}, `{"sql":""}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestQueryRejectsUnknownFields(t *testing.T) {
	rr := postQuery(t, Dependencies{Catalog: testCatalog(), Runner: &fakeRunner{}}, `{"sql":"SELECT 1","table":"items"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}
