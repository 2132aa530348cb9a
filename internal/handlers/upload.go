package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"golang.org/x/image/webp"
)

// ErrUploadRejected is returned for files outside the image allow-list.
var ErrUploadRejected = errors.New("upload rejected: not an allowed image type")

const (
	uploadField    = "image"
	maxImageWidth  = 800
	jpegQuality    = 80
	rejectedUpload = "Images only!"
)

var (
	allowedExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	allowedMIMETypes  = map[string]bool{"image/jpeg": true, "image/jpg": true, "image/png": true, "image/webp": true}
)

type UploadHandler struct {
	Dir       string // where files are written
	URLPrefix string // public path the files are served under
	MaxBytes  int64

	now func() time.Time
}

type uploadResponse struct {
	Message string `json:"message"`
	Image   string `json:"image"`
}

// checkImageType requires both the extension and the declared content type
// to be on the allow-list.
func checkImageType(filename, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !allowedExtensions[ext] || !allowedMIMETypes[mime] {
		return "", fmt.Errorf("%w: %q (%s)", ErrUploadRejected, filename, contentType)
	}
	return ext, nil
}

// optimizeImage downsizes JPEG and PNG images wider than maxImageWidth,
// keeping their format. WebP is only validated, since there is no encoder
// to write it back. Content that does not decode is rejected.
func optimizeImage(ext string, data []byte) ([]byte, error) {
	if ext == ".webp" {
		if _, err := webp.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadRejected, err)
		}
		return data, nil
	}

	var (
		img image.Image
		err error
	)
	if ext == ".png" {
		img, err = png.Decode(bytes.NewReader(data))
	} else {
		img, err = jpeg.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadRejected, err)
	}
	if img.Bounds().Dx() <= maxImageWidth {
		return data, nil
	}

	resized := resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if ext == ".png" {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// writeUnique stores data as <field>-<unix ms><ext>, moving to the next
// millisecond if a file of that name already exists.
func (h *UploadHandler) writeUnique(ext string, data []byte) (string, error) {
	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	ts := h.clock().UnixMilli()
	for i := int64(0); i < 1000; i++ {
		name := fmt.Sprintf("%s-%d%s", uploadField, ts+i, ext)
		f, err := os.OpenFile(filepath.Join(h.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create upload file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("write upload file: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("close upload file: %w", err)
		}
		return name, nil
	}
	return "", errors.New("no free upload file name")
}

func (h *UploadHandler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large. Max %d bytes.", h.MaxBytes))
			return
		}
		writeMessage(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	ext, err := checkImageType(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		slog.Warn("Upload rejected", "filename", header.Filename, "error", err)
		writeMessage(w, http.StatusBadRequest, rejectedUpload)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, "Upload", fmt.Errorf("read upload: %w", err))
		return
	}
	data, err = optimizeImage(ext, data)
	if errors.Is(err, ErrUploadRejected) {
		slog.Warn("Upload rejected", "filename", header.Filename, "error", err)
		writeMessage(w, http.StatusBadRequest, rejectedUpload)
		return
	}
	if err != nil {
		writeError(w, r, "Upload", err)
		return
	}

	name, err := h.writeUnique(ext, data)
	if err != nil {
		writeError(w, r, "Upload", err)
		return
	}

	slog.Info("Image uploaded", "file", name, "bytes", len(data))
	writeJSON(w, http.StatusOK, uploadResponse{
		Message: "Image uploaded successfully",
		Image:   path.Join(h.URLPrefix, name),
	})
}
