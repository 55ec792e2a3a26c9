package controllers

import (
	"net/http"
	"path"

	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/internal/uploads"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

// maxMultipartMemory caps how much of the multipart body is buffered
// in memory before spilling to disk.
const maxMultipartMemory = 4 << 20

type uploadResponse struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
}

// Upload stores one multipart file. The kind defaults to image and can
// be switched to receipt via a form field or query parameter.
func Upload(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeUpload, err, "invalid multipart body"))
			return
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeUpload, err, "missing file field"))
			return
		}
		defer func() { _ = file.Close() }()

		kind, err := uploadKind(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Store(r.Context(), kind, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, uploadResponse{
			FileURL:  view.URL,
			FileName: path.Base(view.URL),
		})
	}
}

func uploadKind(r *http.Request) (uploads.Kind, error) {
	raw := r.FormValue("kind")
	if raw == "" {
		raw = r.URL.Query().Get("kind")
	}

	switch uploads.Kind(raw) {
	case "":
		return uploads.KindImage, nil
	case uploads.KindImage:
		return uploads.KindImage, nil
	case uploads.KindReceipt:
		return uploads.KindReceipt, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown upload kind "+raw)
	}
}
