package server

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aryasetiadi/bukukas/internal/receipt"
)

// maxUploadSize caps receipt uploads; phone photos can be large.
const maxUploadSize = int64(50 << 20) // 50MB

// handleListReceipts returns a list of all receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.services.Receipts.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Ensure we always return an array, not nil
	if receipts == nil {
		receipts = []*receipt.ScannedReceipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}

// handleUploadReceipt handles receipt upload
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB."
		}
		writeJSONError(w, http.StatusBadRequest, errorMsg)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeJSONError(w, http.StatusBadRequest, "File is too large. Maximum size is 50MB.")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSONError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExt(header.Filename)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	rec, err := s.services.Receipts.ProcessReceipt(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// contentTypeFromExt guesses a MIME type from the filename extension.
func contentTypeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleGetReceipt returns a single receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	rec, err := s.services.Receipts.GetReceipt(id)
	if err != nil {
		corsError(w, "Receipt not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleGetReceiptFile returns the stored document for a receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	data, contentType, err := s.services.Receipts.GetReceiptFile(id)
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleExportReceiptText returns the plain-text rendering of a receipt
func (s *Server) handleExportReceiptText(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	rec, err := s.services.Receipts.GetReceipt(id)
	if err != nil {
		corsError(w, "Receipt not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="receipt-`+id+`.txt"`)
	w.Write([]byte(receipt.ExportText(rec)))
}

// handleDeleteReceipt deletes a receipt
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Receipt ID required", http.StatusBadRequest)
		return
	}
	if err := s.services.Receipts.DeleteReceipt(id); err != nil {
		corsError(w, "Error deleting receipt", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
