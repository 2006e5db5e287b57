package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cropclassify/internal/apperr"
	"cropclassify/internal/config"
	"cropclassify/internal/dto"
	"cropclassify/internal/httputil"
	"cropclassify/internal/logger"
	"cropclassify/internal/model"
	"cropclassify/internal/service"
	"cropclassify/internal/service/storage"
)

const (
	// maxSubmissionBody caps the JSON body of POST /classify.
	maxSubmissionBody = 1 << 20
	successMessage    = "Data processed and stored successfully."
)

// SubmitHandler handles POST /classify: five image references plus an
// author are classified, aggregated and stored as one document.
func SubmitHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}

		var req dto.SubmissionRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmissionBody)).Decode(&req); err != nil {
			httputil.BadRequest(w, "invalid JSON body")
			return
		}

		doc, err := manager.Submit(r.Context(), req)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		httputil.WriteJSONOK(w, dto.SubmissionResponse{
			Status:     "success",
			Message:    successMessage,
			DocumentID: doc.ID(),
		})
	}
}

// UploadHandler handles POST /api/upload: a multipart form with exactly five
// "images" files and a "create_by" field. The files are stored in the image
// directory and then submitted; they are removed again if the submission fails.
func UploadHandler(manager *service.Manager, store *storage.ImageStore, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}

		limit := cfg.MaxUploadSize << 20
		if r.ContentLength > limit {
			uploadTooLarge(w, r, cfg, logger)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		if err := r.ParseMultipartForm(limit); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				uploadTooLarge(w, r, cfg, logger)
				return
			}
			httputil.BadRequest(w, "failed to parse multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		author := strings.TrimSpace(r.FormValue("create_by"))
		if author == "" {
			writeError(w, logger, apperr.Validationf("create_by field is required"))
			return
		}

		headers := r.MultipartForm.File["images"]
		if len(headers) != model.ImagesPerSubmission {
			writeError(w, logger, apperr.Validationf("please upload exactly %d images, got %d", model.ImagesPerSubmission, len(headers)))
			return
		}

		uploads := make([]storage.UploadedImage, 0, len(headers))
		for _, h := range headers {
			f, err := h.Open()
			if err != nil {
				httputil.BadRequest(w, "failed to read uploaded file")
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				httputil.BadRequest(w, "failed to read uploaded file")
				return
			}
			logger.Info("Received file: %s, size: %d bytes", h.Filename, h.Size)
			uploads = append(uploads, storage.UploadedImage{Filename: h.Filename, Data: data})
		}

		names, err := store.SaveAll(uploads)
		if err != nil {
			writeError(w, logger, apperr.Store("failed to store uploaded images", err))
			return
		}

		doc, err := manager.Submit(r.Context(), dto.SubmissionRequest{
			ImagePaths: names,
			CreateBy:   author,
			CreateDt:   r.FormValue("create_dt"),
			UpdateDt:   r.FormValue("update_dt"),
			UpdateBy:   r.FormValue("update_by"),
			AffectedDt: r.FormValue("affected_dt"),
		})
		if err != nil {
			store.Remove(names)
			writeError(w, logger, err)
			return
		}

		httputil.WriteJSONOK(w, struct {
			dto.SubmissionResponse
			ImagePaths []string `json:"image_paths"`
		}{
			SubmissionResponse: dto.SubmissionResponse{
				Status:     "success",
				Message:    successMessage,
				DocumentID: doc.ID(),
			},
			ImagePaths: names,
		})
	}
}

func uploadTooLarge(w http.ResponseWriter, r *http.Request, cfg *config.Config, logger *logger.Logger) {
	logger.Warning("Upload from %s exceeds %d MB", r.RemoteAddr, cfg.MaxUploadSize)
	httputil.WriteJSONError(w, http.StatusRequestEntityTooLarge, apperr.KindValidation.String(),
		fmt.Sprintf("upload exceeds %d MB", cfg.MaxUploadSize))
}
