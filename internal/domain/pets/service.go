package pets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"lost-pets/internal/platform/imagedata"
	"lost-pets/internal/ports/kv"

	"github.com/google/uuid"
)

// NewID genera el id de un registro (UUID v4). No se verifica unicidad
// contra la lista: la probabilidad de colisión es despreciable.
func NewID() string {
	return uuid.NewString()
}

// Service es el único dueño del slot con la lista de mascotas.
// Cada operación lee la lista completa, la modifica y la reescribe entera.
// El mutex serializa las operaciones de esta instancia; dos procesos sobre
// el mismo slot no se coordinan (gana el último que escribe).
type Service struct {
	store kv.Store
	key   string

	maxImageBytes int64

	mu    sync.Mutex
	newID func() string
}

type Option func(*Service)

// WithMaxImageBytes cambia el límite que usa Submit al validar la imagen.
func WithMaxImageBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImageBytes = n
		}
	}
}

func NewService(store kv.Store, key string, opts ...Option) *Service {
	s := &Service{
		store:         store,
		key:           strings.TrimSpace(key),
		maxImageBytes: DefaultMaxImageBytes,
		newID:         NewID,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) MaxImageBytes() int64 {
	return s.maxImageBytes
}

// AppendInput son los campos ya validados; Image es el data URI producido
// por imagedata.Encode.
type AppendInput struct {
	Name   string
	Type   PetType
	Gender Gender
	Image  string
}

// Append agrega un registro nuevo al final de la lista con isFavorite=false.
// No es idempotente: cada llamada genera un id nuevo. La entrada llega ya
// validada (ValidateForm); solo falla con ErrPersistence.
func (s *Service) Append(ctx context.Context, in AppendInput) (PetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read(ctx)
	if err != nil {
		return PetRecord{}, err
	}

	rec := PetRecord{
		ID:         s.newID(),
		Name:       in.Name,
		Type:       in.Type,
		Gender:     in.Gender,
		Image:      in.Image,
		IsFavorite: false,
	}
	if err := list.add(rec); err != nil {
		return PetRecord{}, fmt.Errorf("%w: encode record: %w", ErrPersistence, err)
	}

	if err := s.write(ctx, list); err != nil {
		return PetRecord{}, err
	}
	return rec, nil
}

// List devuelve la lista completa en orden de inserción ([] si el slot no existe).
func (s *Service) List(ctx context.Context) ([]PetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return list.recs, nil
}

// SetFavorite fija isFavorite del registro con ese id y reescribe la lista.
// Un id inexistente no es error: la lista se reescribe sin cambios.
func (s *Service) SetFavorite(ctx context.Context, id string, value bool) ([]PetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	id = strings.TrimSpace(id)
	for i := range list.recs {
		if list.recs[i].ID != id {
			continue
		}
		if err := list.setFavorite(i, value); err != nil {
			return nil, fmt.Errorf("%w: encode record: %w", ErrPersistence, err)
		}
	}

	if err := s.write(ctx, list); err != nil {
		return nil, err
	}
	return list.recs, nil
}

// ToggleFavorite invierte isFavorite de un registro existente (botón del detalle).
func (s *Service) ToggleFavorite(ctx context.Context, id string) (PetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.read(ctx)
	if err != nil {
		return PetRecord{}, err
	}

	idx := indexOf(list.recs, id)
	if idx < 0 {
		return PetRecord{}, ErrNotFound
	}
	if err := list.setFavorite(idx, !list.recs[idx].IsFavorite); err != nil {
		return PetRecord{}, fmt.Errorf("%w: encode record: %w", ErrPersistence, err)
	}

	if err := s.write(ctx, list); err != nil {
		return PetRecord{}, err
	}
	return list.recs[idx], nil
}

// Get busca por id (scan lineal).
func (s *Service) Get(ctx context.Context, id string) (PetRecord, error) {
	list, err := s.List(ctx)
	if err != nil {
		return PetRecord{}, err
	}
	idx := indexOf(list, id)
	if idx < 0 {
		return PetRecord{}, ErrNotFound
	}
	return list[idx], nil
}

// Submit es el flujo completo del formulario: valida, codifica la imagen y
// hace Append. Los errores de imagedata (ErrEncoding) se devuelven tal cual.
func (s *Service) Submit(ctx context.Context, in FormInput) (PetRecord, error) {
	form, err := ValidateForm(ctx, in, s.maxImageBytes)
	if err != nil {
		return PetRecord{}, err
	}

	rc, err := form.Image.Open()
	if err != nil {
		return PetRecord{}, fmt.Errorf("%w: %w", imagedata.ErrEncoding, err)
	}
	defer rc.Close()

	image, err := imagedata.Encode(ctx, rc, strings.ToLower(strings.TrimSpace(form.Image.MIME)))
	if err != nil {
		return PetRecord{}, err
	}

	return s.Append(ctx, AppendInput{
		Name:   form.Name,
		Type:   form.Type,
		Gender: form.Gender,
		Image:  image,
	})
}

// petList guarda, junto a la vista tipada, el JSON de cada elemento tal como
// estaba en el slot. Al reescribir solo cambia el elemento tocado; las claves
// que PetRecord no modela se conservan.
type petList struct {
	recs []PetRecord
	raw  []json.RawMessage
}

func (l *petList) add(rec PetRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	l.recs = append(l.recs, rec)
	l.raw = append(l.raw, b)
	return nil
}

func (l *petList) setFavorite(i int, value bool) error {
	if l.recs[i].IsFavorite == value {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(l.raw[i], &fields); err != nil {
		return err
	}
	fields["isFavorite"] = json.RawMessage(strconv.FormatBool(value))
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	l.raw[i] = b
	l.recs[i].IsFavorite = value
	return nil
}

// read trata slot ausente, vacío o "null" como lista vacía. Cualquier otro
// valor que no sea un array de registros bien formados es ErrPersistence.
func (s *Service) read(ctx context.Context) (petList, error) {
	empty := petList{recs: []PetRecord{}, raw: []json.RawMessage{}}

	raw, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return petList{}, fmt.Errorf("%w: read slot %q: %w", ErrPersistence, s.key, err)
	}

	raw = bytes.TrimSpace(raw)
	if !ok || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return empty, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return petList{}, fmt.Errorf("%w: slot %q is not a pet list: %w", ErrPersistence, s.key, err)
	}

	list := petList{recs: make([]PetRecord, 0, len(elems)), raw: elems}
	if list.raw == nil {
		list.raw = []json.RawMessage{}
	}
	for i, e := range elems {
		var p PetRecord
		if err := json.Unmarshal(e, &p); err != nil {
			return petList{}, fmt.Errorf("%w: slot %q: record %d: %w", ErrPersistence, s.key, i, err)
		}
		if err := checkStored(p); err != nil {
			return petList{}, fmt.Errorf("%w: slot %q: record %d: %w", ErrPersistence, s.key, i, err)
		}
		list.recs = append(list.recs, p)
	}
	return list, nil
}

func checkStored(p PetRecord) error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("missing id")
	case !p.Type.Valid():
		return fmt.Errorf("unknown type %q", p.Type)
	case !p.Gender.Valid():
		return fmt.Errorf("unknown gender %q", p.Gender)
	case !imagedata.IsDataURI(p.Image):
		return errors.New("image is not a data uri")
	}
	return nil
}

func (s *Service) write(ctx context.Context, list petList) error {
	elems := list.raw
	if elems == nil {
		elems = []json.RawMessage{}
	}
	b, err := json.Marshal(elems)
	if err != nil {
		return fmt.Errorf("%w: encode list: %w", ErrPersistence, err)
	}
	if err := s.store.Set(ctx, s.key, b); err != nil {
		return fmt.Errorf("%w: write slot %q: %w", ErrPersistence, s.key, err)
	}
	return nil
}

// indexOf compara contra el id sin espacios alrededor, igual en Get,
// SetFavorite y ToggleFavorite.
func indexOf(list []PetRecord, id string) int {
	id = strings.TrimSpace(id)
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
