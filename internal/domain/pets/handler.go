package pets

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"lost-pets/internal/platform/imagedata"
	"lost-pets/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// margen para los campos de texto del multipart
const formOverheadBytes = 1 << 20

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	if log == nil {
		log = logger.NewNop()
	}

	r.Get("/pet-types", listTypesHandler())

	r.Route("/pets", func(pr chi.Router) {
		// Formulario de creación
		pr.Post("/", createPetHandler(svc, log))

		// Listado (todas o solo favoritas)
		pr.Get("/", listPetsHandler(svc, log))

		// Detalle
		pr.Get("/{petID}", getPetHandler(svc, log))

		pr.Put("/{petID}/favorite", setFavoriteHandler(svc, log))
		pr.Post("/{petID}/favorite/toggle", toggleFavoriteHandler(svc, log))
	})
}

// validationErrorResponse describe los errores por campo del formulario.
type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// setFavoriteRequest es el cuerpo de PUT /pets/{petID}/favorite.
type setFavoriteRequest struct {
	IsFavorite *bool `json:"isFavorite"`
}

// listTypesHandler godoc
// @Summary Tipos de mascota
// @Description Etiquetas válidas para el campo `type`, en el orden del formulario.
// @Tags pets
// @Produce json
// @Success 200 {array} string
// @Router /pet-types [get]
func listTypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, TypeOptions())
	}
}

// createPetHandler godoc
// @Summary Registrar mascota perdida
// @Description Valida el formulario, codifica la imagen como data URI y agrega el registro al final de la lista. La imagen debe ser PNG o JPEG de hasta 5MB.
// @Tags pets
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Nombre (mínimo 3 caracteres)"
// @Param type formData string true "Tipo de mascota" Enums(dog, cat, bird, rabbit, hamster, other)
// @Param gender formData string false "Género (default male)" Enums(male, female)
// @Param image formData file true "Imagen PNG/JPEG"
// @Success 201 {object} PetRecord
// @Failure 400 {object} validationErrorResponse
// @Failure 500 {string} string "could not create pet"
// @Router /pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLog := log.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})

		r.Body = http.MaxBytesReader(w, r.Body, 2*svc.MaxImageBytes()+formOverheadBytes)
		if err := r.ParseMultipartForm(formOverheadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeValidation(w, &ValidationError{Fields: map[string]string{
					"image": "invalid file: must be a PNG/JPEG and under " + humanBytes(svc.MaxImageBytes()),
				}})
				return
			}
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		in := FormInput{
			Name:   r.FormValue("name"),
			Type:   r.FormValue("type"),
			Gender: r.FormValue("gender"),
		}
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			in.Image = imageFromHeader(files[0])
		}

		p, err := svc.Submit(r.Context(), in)
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				writeValidation(w, verr)
			case errors.Is(err, imagedata.ErrEncoding):
				reqLog.Error("image encoding failed", map[string]any{"err": err})
				http.Error(w, "could not read image", http.StatusInternalServerError)
			default:
				reqLog.Error("create pet failed", map[string]any{"err": err})
				http.Error(w, "could not create pet", http.StatusInternalServerError)
			}
			return
		}

		reqLog.Info("pet created", map[string]any{"pet_id": p.ID, "type": p.Type})
		writeJSON(w, http.StatusCreated, p)
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas perdidas
// @Description Devuelve la lista en orden de inserción. Con `favorites=true` solo las favoritas. Si el almacenamiento falla responde lista vacía.
// @Tags pets
// @Produce json
// @Param favorites query bool false "Solo favoritas"
// @Success 200 {array} PetRecord
// @Failure 400 {string} string "favorites must be a boolean"
// @Router /pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		onlyFavorites := false
		if v := strings.TrimSpace(r.URL.Query().Get("favorites")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "favorites must be a boolean", http.StatusBadRequest)
				return
			}
			onlyFavorites = b
		}

		items, err := svc.List(r.Context())
		if err != nil {
			// la vista degrada a "sin mascotas" en vez de fallar
			log.Warn("list pets failed, serving empty list", map[string]any{
				"request_id": chimw.GetReqID(r.Context()),
				"err":        err,
			})
			items = []PetRecord{}
		}
		if onlyFavorites {
			items = Favorites(items)
		}

		writeJSON(w, http.StatusOK, items)
	}
}

// getPetHandler godoc
// @Summary Detalle de mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} PetRecord
// @Failure 404 {string} string "pet not found"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeStoreError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// setFavoriteHandler godoc
// @Summary Marcar/desmarcar favorita
// @Description Fija `isFavorite` y devuelve la lista completa. Un id inexistente deja la lista igual.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body setFavoriteRequest true "Nuevo valor"
// @Success 200 {array} PetRecord
// @Failure 400 {string} string "invalid json"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/favorite [put]
func setFavoriteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(io.LimitReader(r.Body, formOverheadBytes))
		dec.DisallowUnknownFields()

		var req setFavoriteRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.IsFavorite == nil {
			http.Error(w, "isFavorite is required", http.StatusBadRequest)
			return
		}

		items, err := svc.SetFavorite(r.Context(), chi.URLParam(r, "petID"), *req.IsFavorite)
		if err != nil {
			writeStoreError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// toggleFavoriteHandler godoc
// @Summary Alternar favorita
// @Description Invierte `isFavorite` de una mascota existente y devuelve el registro actualizado.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} PetRecord
// @Failure 404 {string} string "pet not found"
// @Failure 500 {string} string "internal error"
// @Router /pets/{petID}/favorite/toggle [post]
func toggleFavoriteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.ToggleFavorite(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeStoreError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func imageFromHeader(fh *multipart.FileHeader) *ImageFile {
	return &ImageFile{
		Filename: fh.Filename,
		MIME:     fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func writeStoreError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "pet not found", http.StatusNotFound)
		return
	}
	log.Error("pet store failed", map[string]any{
		"request_id": chimw.GetReqID(r.Context()),
		"err":        err,
	})
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeValidation(w http.ResponseWriter, verr *ValidationError) {
	writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:  ErrInvalidInput.Error(),
		Fields: verr.Fields,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
