package registry

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/h2non/filetype"

	"github.com/vmforge/configapi/pkg/authz"
)

// maxIconBytes bounds the multipart form held in memory.
const maxIconBytes = 5 << 20

// iconField is the multipart field the catalog icon must arrive in.
const iconField = "icon"

// acceptedIconMIMEs are the file types an icon upload may carry. The type
// is sniffed from the file's magic bytes, not the client's Content-Type.
var acceptedIconMIMEs = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// uploadCatalogIcon handles POST /catalog/{id}/icon. Unlike the other write
// paths, partial success is a first-class outcome: each uploaded field ends
// up in either the accepted or the rejected map of the same response. The
// replaced icon file is scheduled for removal only after the new reference
// has been persisted.
func (r *Registry) uploadCatalogIcon(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req)
	if err != nil {
		writeError(w, CodeValidationFailed, err.Error())
		return
	}
	catalog, err := r.Catalogs.FindOne(req.Context(), id, nil)
	if err != nil {
		r.logger.Error("upload fetch failed", "entity", "catalog", "id", id, "error", err)
		writeError(w, CodeUploadFailed, "Could not upload icon")
		return
	}
	if catalog == nil {
		writeError(w, CodeNotFound, "Requested catalog doesn't exist")
		return
	}

	if err := req.ParseMultipartForm(maxIconBytes); err != nil {
		writeError(w, CodeValidationFailed, "Request body is not valid multipart form data")
		return
	}

	accepted := map[string]string{}
	rejected := map[string]string{}
	for field, headers := range req.MultipartForm.File {
		if field != iconField {
			rejected[field] = "Unexpected field"
			continue
		}
		if len(headers) == 0 {
			continue
		}
		stored, reason := r.storeIcon(headers[0])
		if reason != "" {
			rejected[field] = reason
			continue
		}

		previous := catalog.Icon
		updates := map[string]any{
			"icon":       stored,
			"updated_by": authz.UserFromContext(req.Context()),
		}
		if _, err := r.Catalogs.UpdateFields(req.Context(), id, updates); err != nil {
			r.logger.Error("icon persist failed", "id", id, "error", err)
			r.Icons.ScheduleRemove(stored)
			writeError(w, CodeUploadFailed, "Could not upload icon")
			return
		}
		accepted[field] = stored
		r.Icons.ScheduleRemove(previous)
	}

	writeSuccess(w, map[string]any{
		"accepted": accepted,
		"rejected": rejected,
	})
}

// storeIcon sniffs and stores one uploaded file. It returns the stored name
// on success, or a rejection reason.
func (r *Registry) storeIcon(hdr *multipart.FileHeader) (stored, reason string) {
	file, err := hdr.Open()
	if err != nil {
		return "", "Unreadable file"
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxIconBytes))
	if err != nil {
		return "", "Unreadable file"
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !acceptedIconMIMEs[kind.MIME.Value] {
		return "", "Unsupported file type"
	}

	name, err := r.Icons.Save(data, kind.Extension)
	if err != nil {
		r.logger.Error("icon store failed", "error", err)
		return "", "Could not store file"
	}
	return name, ""
}
