package router

import (
	"mime"
	"net/http"
)

// DefaultUploadMemory is the in-memory budget for multipart parsing.
const DefaultUploadMemory = 32 << 20

// FileUpload parses multipart bodies before next runs so handlers can read
// r.MultipartForm directly. Other content types pass through untouched.
func FileUpload(maxMemory int64) Middleware {
	if maxMemory <= 0 {
		maxMemory = DefaultUploadMemory
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err == nil && mediaType == "multipart/form-data" {
				if err := r.ParseMultipartForm(maxMemory); err != nil {
					http.Error(w, "invalid multipart body", http.StatusBadRequest)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
