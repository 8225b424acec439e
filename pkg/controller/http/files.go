package http

import (
	"encoding/json"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// maxUploadSize bounds multipart parsing memory, not the object size
const maxUploadSize = 32 << 20

type fileResponse struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
	URL       string    `json:"url,omitempty"`
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	tenantID, scope, err := requestScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := actionIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	grouped, err := s.uc.File.ListFiles(r.Context(), tenantID, id, scope)
	if err != nil {
		respondError(w, r, err)
		return
	}

	files := make(map[string][]fileResponse, len(grouped))
	for _, category := range types.AllFileCategories() {
		entries := grouped[category]
		out := make([]fileResponse, len(entries))
		for i, entry := range entries {
			out[i] = fileResponse{
				Name:      entry.Name,
				Size:      entry.Size,
				UpdatedAt: entry.UpdatedAt,
				URL:       entry.URL,
			}
		}
		files[category.String()] = out
	}

	respondJSON(w, r, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	tenantID, scope, err := requestScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := actionIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid multipart body"))
		return
	}

	category, err := types.ParseFileCategory(r.FormValue("category"))
	if err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid file category",
			goerr.V("category", r.FormValue("category"))))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "missing file part"))
		return
	}
	defer file.Close() //nolint:errcheck // read-only handle

	key, url, err := s.uc.File.UploadFile(r.Context(), tenantID, id, scope,
		category, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"key": key,
		"url": url,
	})
}

type removeFileRequest struct {
	Filename string `json:"filename"`
}

func (req removeFileRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Filename, validation.Required),
	)
}

func (s *Server) removeFile(w http.ResponseWriter, r *http.Request) {
	tenantID, scope, err := requestScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := actionIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req removeFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, err.Error()))
		return
	}

	if err := s.uc.File.DeleteFile(r.Context(), tenantID, id, scope, req.Filename); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
