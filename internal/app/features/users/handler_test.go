// internal/app/features/users/handler_test.go
package users

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sharmaacademy/academyhub/internal/app/system/bulkimport"
	"github.com/sharmaacademy/academyhub/internal/testutil"

	"go.uber.org/zap"
)

// newGatingHandler builds a handler with no storage behind it. The tests
// below exercise only paths that must reject the request before any
// store or importer call happens.
func newGatingHandler() *Handler {
	return NewHandler(nil, nil, zap.NewNop())
}

func TestServeUserAccessControl(t *testing.T) {
	h := newGatingHandler()

	tests := []struct {
		name     string
		prepare  func(r *http.Request) *http.Request
		wantCode int
	}{
		{
			name:     "anonymous gets 401",
			prepare:  func(r *http.Request) *http.Request { return r },
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "learner reading someone else gets 403",
			prepare: func(r *http.Request) *http.Request {
				return testutil.AsLearner(r, "000000000000000000000002")
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := testutil.NewRequest(http.MethodGet, "/users/0000000000000000000000aa")
			r = testutil.WithChiURLParam(r, "id", "0000000000000000000000aa")
			r = tc.prepare(r)

			rec := httptest.NewRecorder()
			h.ServeUser(rec, r)
			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}

func TestHandleUpdateRejectsBadID(t *testing.T) {
	h := newGatingHandler()

	r := testutil.NewRequest(http.MethodPatch, "/users/not-a-hex-id")
	r = testutil.WithChiURLParam(r, "id", "not-a-hex-id")
	r = testutil.AsAdmin(r)

	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleDeleteForbiddenForNonAdmin(t *testing.T) {
	h := newGatingHandler()

	r := testutil.NewRequest(http.MethodDelete, "/users/0000000000000000000000aa")
	r = testutil.WithChiURLParam(r, "id", "0000000000000000000000aa")
	// Even deleting your own account is an admin operation.
	r = testutil.AsLearner(r, "0000000000000000000000aa")

	rec := httptest.NewRecorder()
	h.HandleDelete(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestUploadCSVAccessControl(t *testing.T) {
	h := newGatingHandler()

	t.Run("anonymous gets 401", func(t *testing.T) {
		r := testutil.NewRequest(http.MethodPost, "/users/upload_csv")
		rec := httptest.NewRecorder()
		h.HandleUploadCSV(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("learner gets 403", func(t *testing.T) {
		r := testutil.NewRequest(http.MethodPost, "/users/upload_csv")
		r = testutil.AsLearner(r, "000000000000000000000002")
		rec := httptest.NewRecorder()
		h.HandleUploadCSV(rec, r)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
}

func TestUploadCSVMissingFile(t *testing.T) {
	h := newGatingHandler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/users/upload_csv", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r = testutil.AsAdmin(r)

	rec := httptest.NewRecorder()
	h.HandleUploadCSV(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadCSVMalformedFile(t *testing.T) {
	h := newGatingHandler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("csv", "users.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	// An unterminated quote makes the reader fail; the handler must
	// report one top-level abort error and create nothing.
	fw.Write([]byte("email,referral_code,password\n\"broken@example.com,,\n"))
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/users/upload_csv", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r = testutil.AsAdmin(r)

	rec := httptest.NewRecorder()
	h.HandleUploadCSV(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var res bulkimport.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.CreatedCount != 0 {
		t.Errorf("created_count = %d, want 0", res.CreatedCount)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one abort message", res.Errors)
	}
}
