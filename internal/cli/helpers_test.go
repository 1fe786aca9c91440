package cli

import (
	"context"

	"lost-pets/internal/adapters/storage/sqlite"
)

// setRaw escribe un valor crudo en el slot configurado (solo tests).
func setRaw(a *app, raw string) error {
	db, err := sqlite.Open(a.cfg.Storage.SQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()
	return sqlite.NewKV(db).Set(context.Background(), a.cfg.Storage.Key, []byte(raw))
}
