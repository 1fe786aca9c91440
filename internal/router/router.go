package router

import (
	"net/http"
	"strings"

	"lost-pets/docs"
	mem "lost-pets/internal/adapters/storage/memory"
	"lost-pets/internal/config"
	"lost-pets/internal/domain/pets"
	"lost-pets/internal/middleware"
	"lost-pets/internal/platform/logger"
	"lost-pets/internal/ports/kv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si es nil se usa un slot in-memory.
	Store kv.Store

	// Clave del slot; vacío => config.DefaultItemsKey.
	Key string

	// Límite de imagen; <= 0 => pets.DefaultMaxImageBytes.
	MaxImageBytes int64

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	))

	store := opts.Store
	if store == nil {
		store = mem.NewKV()
	}
	key := strings.TrimSpace(opts.Key)
	if key == "" {
		key = config.DefaultItemsKey
	}

	petsSvc := pets.NewService(store, key, pets.WithMaxImageBytes(opts.MaxImageBytes))
	pets.RegisterRoutes(r, petsSvc, log)

	return r
}
