package pets

// PetType es una de las etiquetas fijas del selector "Tipo de mascota".
// @Enum dog, cat, bird, rabbit, hamster, other
type PetType string

const (
	TypeDog     PetType = "dog"
	TypeCat     PetType = "cat"
	TypeBird    PetType = "bird"
	TypeRabbit  PetType = "rabbit"
	TypeHamster PetType = "hamster"
	TypeOther   PetType = "other"
)

var typeOptions = []PetType{TypeDog, TypeCat, TypeBird, TypeRabbit, TypeHamster, TypeOther}

// TypeOptions devuelve las opciones en el orden del formulario.
func TypeOptions() []PetType {
	out := make([]PetType, len(typeOptions))
	copy(out, typeOptions)
	return out
}

func (t PetType) Valid() bool {
	for _, o := range typeOptions {
		if o == t {
			return true
		}
	}
	return false
}

// Gender define el género de la mascota.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// PetRecord es una mascota perdida tal como se guarda en el slot.
// Las claves JSON son el formato persistido; no cambiarlas.
type PetRecord struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Type       PetType `json:"type"`
	Gender     Gender  `json:"gender"`
	Image      string  `json:"image"` // data URI (png/jpeg) en base64
	IsFavorite bool    `json:"isFavorite"`
}

// Favorites es la vista derivada de favoritos; no se persiste aparte.
func Favorites(list []PetRecord) []PetRecord {
	out := make([]PetRecord, 0)
	for _, p := range list {
		if p.IsFavorite {
			out = append(out, p)
		}
	}
	return out
}
