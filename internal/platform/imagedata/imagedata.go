// Package imagedata convierte una imagen subida en un data URI autocontenido.
package imagedata

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEncoding = errors.New("image encoding failed")

const fallbackMIME = "application/octet-stream"

// Encode lee r hasta EOF y devuelve "data:<mime>;base64,<payload>".
// No valida tipo ni tamaño: eso ocurre antes, en la validación del formulario.
// Si la lectura falla (o se cancela ctx) devuelve un error que envuelve ErrEncoding.
func Encode(ctx context.Context, r io.Reader, mime string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: nil reader", ErrEncoding)
	}
	mime = strings.TrimSpace(mime)
	if mime == "" {
		mime = fallbackMIME
	}

	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(mime)
	sb.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if _, err := io.Copy(enc, &ctxReader{ctx: ctx, r: r}); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}

	return sb.String(), nil
}

// Decode separa un data URI base64 en mime y bytes.
func Decode(dataURI string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return "", nil, errors.New("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data uri without payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, errors.New("data uri is not base64")
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data uri payload: %w", err)
	}
	return mime, b, nil
}

// IsDataURI indica si s tiene la forma que produce Encode.
func IsDataURI(s string) bool {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return false
	}
	meta, _, ok := strings.Cut(rest, ",")
	return ok && strings.HasSuffix(meta, ";base64")
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
