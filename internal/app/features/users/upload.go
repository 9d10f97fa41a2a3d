// internal/app/features/users/upload.go
package users

import (
	"context"
	"net/http"

	"github.com/sharmaacademy/academyhub/internal/app/system/auth"
	"github.com/sharmaacademy/academyhub/internal/app/system/authz"
	"github.com/sharmaacademy/academyhub/internal/app/system/bulkimport"
	"github.com/sharmaacademy/academyhub/internal/app/system/csvutil"
	"github.com/sharmaacademy/academyhub/internal/app/system/timeouts"

	"go.uber.org/zap"
)

// HandleUploadCSV handles POST /users/upload_csv. Admin only.
//
// The multipart "csv" field holds rows of email, referral code
// (optional), password (optional); the first row is a header. The whole
// batch commits atomically or not at all, and the response carries the
// import result either way.
func (h *Handler) HandleUploadCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload)
	defer cancel()

	if !authz.Allowed(auth.Actor(r), authz.ActionBulkImport, "") {
		forbid(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)
	file, _, err := r.FormFile("csv")
	if err != nil {
		http.Error(w, "CSV file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := csvutil.ReadRegistrationRows(file)
	if err != nil {
		// Unparseable input is a single top-level failure with no partial result.
		h.Log.Warn("csv parse failed", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, bulkimport.Result{
			Errors: []string{"import aborted: " + err.Error()},
		})
		return
	}

	raw := make([]bulkimport.RawRow, len(rows))
	for i, row := range rows {
		raw[i] = bulkimport.RawRow{
			Line:         row.Line,
			Email:        row.Email,
			ReferralCode: row.ReferralCode,
			Password:     row.Password,
		}
	}

	res := h.Importer.ImportBatch(ctx, raw)
	h.Log.Info("csv import finished",
		zap.Int("rows", len(raw)),
		zap.Int("created", res.CreatedCount),
		zap.Int("errors", len(res.Errors)))

	if len(res.Errors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
