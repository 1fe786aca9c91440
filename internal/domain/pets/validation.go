package pets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MinNameLength = 3

	// DefaultMaxImageBytes: 5 MiB antes de codificar.
	DefaultMaxImageBytes int64 = 5 * 1024 * 1024
)

var allowedImageMIME = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
}

// ImageFile es la imagen subida: MIME declarado, tamaño y un Open que se
// puede llamar más de una vez (sniff + encode), como un File del navegador.
type ImageFile struct {
	Filename string
	MIME     string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// ImageFromBytes arma un ImageFile en memoria.
func ImageFromBytes(filename, mimeType string, b []byte) *ImageFile {
	return &ImageFile{
		Filename: filename,
		MIME:     mimeType,
		Size:     int64(len(b)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		},
	}
}

// ImageFromPath arma un ImageFile desde disco. El MIME declarado sale de la
// extensión (igual que hace el navegador); si no se reconoce, se detecta.
func ImageFromPath(path string) (*ImageFile, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	declared := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if declared == "" {
		if m, err := mimetype.DetectFile(path); err == nil {
			declared = m.String()
		}
	}
	// "image/jpeg; charset=..." no aplica, pero por las dudas
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}

	return &ImageFile{
		Filename: filepath.Base(path),
		MIME:     declared,
		Size:     st.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FormInput es lo que envía el formulario de creación, sin validar.
type FormInput struct {
	Name   string
	Type   string
	Gender string // vacío => male (default del formulario)
	Image  *ImageFile
}

// ValidForm son los campos ya validados (type y gender normalizados), listos para codificar y guardar.
type ValidForm struct {
	Name   string
	Type   PetType
	Gender Gender
	Image  *ImageFile
}

// ValidateForm aplica las reglas del formulario. maxImageBytes <= 0 usa
// DefaultMaxImageBytes. El contenido de la imagen se sniffea y debe coincidir
// con el MIME declarado.
func ValidateForm(ctx context.Context, in FormInput, maxImageBytes int64) (ValidForm, error) {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}

	var verr ValidationError
	out := ValidForm{
		Name:   in.Name,
		Type:   PetType(strings.TrimSpace(in.Type)),
		Gender: Gender(strings.ToLower(strings.TrimSpace(in.Gender))),
		Image:  in.Image,
	}

	// el nombre se guarda tal cual se escribió; solo se rechaza si está en blanco
	if strings.TrimSpace(out.Name) == "" {
		verr.add("name", "name is required")
	} else if utf8.RuneCountInString(out.Name) < MinNameLength {
		verr.add("name", fmt.Sprintf("name must be at least %d characters", MinNameLength))
	}

	if out.Type == "" {
		verr.add("type", "type is required")
	} else if !out.Type.Valid() {
		verr.add("type", "type must be one of the listed pet types")
	}

	if out.Gender == "" {
		out.Gender = GenderMale
	}
	if !out.Gender.Valid() {
		verr.add("gender", "gender must be male or female")
	}

	if msg := checkImage(ctx, in.Image, maxImageBytes); msg != "" {
		verr.add("image", msg)
	}

	if err := verr.orNil(); err != nil {
		return ValidForm{}, err
	}
	return out, nil
}

func checkImage(ctx context.Context, img *ImageFile, maxBytes int64) string {
	if img == nil || img.Open == nil {
		return "image is required"
	}

	declared := strings.ToLower(strings.TrimSpace(img.MIME))
	if _, ok := allowedImageMIME[declared]; !ok || img.Size > maxBytes {
		return fmt.Sprintf("invalid file: must be a PNG/JPEG and under %s", humanBytes(maxBytes))
	}
	if img.Size <= 0 {
		return "image is empty"
	}
	if err := ctx.Err(); err != nil {
		return "image could not be read"
	}

	rc, err := img.Open()
	if err != nil {
		return "image could not be read"
	}
	defer rc.Close()

	detected, err := mimetype.DetectReader(rc)
	if err != nil {
		return "image could not be read"
	}
	if !detected.Is(declared) {
		return fmt.Sprintf("image content is %s, not %s", detected.String(), declared)
	}
	return ""
}

func humanBytes(n int64) string {
	const mib = 1024 * 1024
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
