package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mtlprog/taskflow/internal/domain"
	"github.com/mtlprog/taskflow/internal/handler/dto"
)

const (
	uploadFormField = "file"
	// multipartSlack covers multipart framing around the file itself.
	multipartSlack = 1 << 20
)

// handleUpload stores the multipart "file" field under the upload directory
// as <unix-seconds>_<basename>.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartSlack)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusBadRequest, dto.MsgFileTooLarge)
			return
		}
		respondError(w, http.StatusBadRequest, dto.MsgNoFileUploaded)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		respondError(w, http.StatusBadRequest, dto.MsgNoFileUploaded)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		respondError(w, http.StatusBadRequest, dto.MsgFileTooLarge)
		return
	}

	base := filepath.Base(header.Filename)
	if base == "." || base == string(filepath.Separator) {
		respondError(w, http.StatusBadRequest, dto.MsgNoFileUploaded)
		return
	}
	filename := fmt.Sprintf("%d_%s", h.now().Unix(), base)

	if err := h.saveUpload(file, filename); err != nil {
		slog.Error("failed to store upload", "filename", filename, "error", err)
		respondError(w, http.StatusInternalServerError, dto.MsgUploadFailed)
		return
	}

	h.logActivity(r, domain.ActionFileUpload, "Uploaded file: "+filename)
	slog.Info("file uploaded", "filename", filename, "size", header.Size)

	respondJSON(w, http.StatusOK, dto.OK(dto.UploadedFile{Filename: filename}))
}

func (h *Handler) saveUpload(src io.Reader, filename string) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(h.uploadDir, filename)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("write file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close file: %w", err)
	}

	return nil
}
