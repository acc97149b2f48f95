package resources

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/itsatony/pumpguard/internal/pumpservice"
	nuts "github.com/vaudience/go-nuts"
)

const (
	defaultMaxFileSize = 10 << 20
	multipartOverhead  = 1 << 20
	multipartMemory    = 4 << 20
)

// UploadHandlers encapsulates the upload-related HTTP handlers
type UploadHandlers struct {
	pumpservice *pumpservice.PumpService
	maxFileSize int64
}

// @Summary Upload and classify a CSV file
// @Description Stores the file, classifies every row and publishes the summary
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with the nine-column layout"
// @Success 201 {object} models.UploadResult
// @Failure 400 {object} errors.APIError
// @Failure 409 {object} errors.APIError
// @Failure 413 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /uploads [post]
// @Security BearerAuth
func (h *UploadHandlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	limit := h.maxFileSize
	if limit <= 0 {
		limit = defaultMaxFileSize
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			respondWithError(w, errors.NewPayloadTooLargeError(
				fmt.Sprintf("file exceeds maximum allowed size of %d bytes", limit), err,
			).WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewValidationError("invalid multipart form", err).WithRequestID(requestID))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, errors.NewValidationError("no file selected", err).WithRequestID(requestID))
		return
	}
	defer file.Close()

	if header.Size > limit {
		respondWithError(w, errors.NewPayloadTooLargeError(
			fmt.Sprintf("file exceeds maximum allowed size of %d bytes", limit), nil,
		).WithRequestID(requestID))
		return
	}

	result, err := h.pumpservice.ProcessUpload(r.Context(), header.Filename, file)
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to process upload").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}

// @Summary List uploads
// @Description Get a paginated list of uploads, newest first
// @Tags uploads
// @Produce json
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {array} models.Upload
// @Router /uploads [get]
func (h *UploadHandlers) ListUploads(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var page models.PageQuery
	if err := decodeQuery(&page, r); err != nil {
		respondWithError(w, err.WithRequestID(requestID))
		return
	}

	uploads, err := h.pumpservice.ListUploads(r.Context(), page.Offset, page.Limit)
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to list uploads").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, uploads)
}

// @Summary Get an upload
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} models.Upload
// @Failure 404 {object} errors.APIError
// @Router /uploads/{id} [get]
func (h *UploadHandlers) GetUpload(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id := mux.Vars(r)["id"]

	upload, err := h.pumpservice.GetUpload(r.Context(), id)
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to get upload").WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, upload)
}

// @Summary Download the prediction report
// @Description The uploaded rows with a trailing Prediction column
// @Tags uploads
// @Produce text/csv
// @Param id path string true "Upload ID"
// @Success 200 {file} file
// @Failure 404 {object} errors.APIError
// @Router /uploads/{id}/report [get]
func (h *UploadHandlers) DownloadReport(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id := mux.Vars(r)["id"]

	name, rc, err := h.pumpservice.OpenReport(r.Context(), id)
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to open report").WithRequestID(requestID))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := io.Copy(w, rc); err != nil {
		nuts.L.Errorf("[UploadHandler] Failed to stream report %s: %v", id, err)
	}
}

// @Summary Delete an upload
// @Description Deletes the upload with its readings and files
// @Tags uploads
// @Param id path string true "Upload ID"
// @Success 204 "No Content"
// @Failure 404 {object} errors.APIError
// @Router /uploads/{id} [delete]
// @Security BearerAuth
func (h *UploadHandlers) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	id := mux.Vars(r)["id"]

	if err := h.pumpservice.DeleteUpload(r.Context(), id); err != nil {
		respondWithError(w, errors.Wrap(err, "failed to delete upload").WithRequestID(requestID))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
