package kv

import (
	"context"
	"errors"
)

// ErrQuotaExceeded lo devuelven los adapters que limitan el tamaño del slot.
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// Store es un almacén clave-valor donde cada clave es un slot completo.
// Get devuelve ok=false si la clave no existe. Set reemplaza el valor entero.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
