package engine

// HabitatKind is the terrain assigned to a board cell
type HabitatKind string

const (
	Forest   HabitatKind = "forest"
	Wetland  HabitatKind = "wetland"
	Prairie  HabitatKind = "prairie"
	Mountain HabitatKind = "mountain"
	River    HabitatKind = "river"
)

// AnimalKind is a wildlife token that may stand on a habitat
type AnimalKind string

const (
	NoAnimal AnimalKind = ""
	Bear     AnimalKind = "bear"
	Salmon   AnimalKind = "salmon"
	Hawk     AnimalKind = "hawk"
	Fox      AnimalKind = "fox"
	Elk      AnimalKind = "elk"
)

// AllHabitats and AllAnimals list the kinds in canonical order.
var (
	AllHabitats = []HabitatKind{Forest, Wetland, Prairie, Mountain, River}
	AllAnimals  = []AnimalKind{Bear, Salmon, Hawk, Fox, Elk}
)

const (
	// Grid geometry
	BoardWidth  = 5
	BoardHeight = 5
	BoardCells  = BoardWidth * BoardHeight

	// Validation constants
	MinPlayers   = 1
	MaxPlayers   = 4
	MinDraftSize = 1
	MaxDraftSize = 5

	DefaultPlayers   = 2
	DefaultDraftSize = 3
)

// Valid reports whether h is one of the five habitat kinds
func (h HabitatKind) Valid() bool {
	switch h {
	case Forest, Wetland, Prairie, Mountain, River:
		return true
	}
	return false
}

// Valid reports whether a is one of the five animal kinds
func (a AnimalKind) Valid() bool {
	switch a {
	case Bear, Salmon, Hawk, Fox, Elk:
		return true
	}
	return false
}

// Cell is a single board position. A cell with no habitat is empty.
type Cell struct {
	Habitat HabitatKind `json:"habitat"`
	Animal  AnimalKind  `json:"animal,omitempty"`
}

// IsEmpty reports whether no habitat has been placed on the cell
func (c Cell) IsEmpty() bool {
	return c.Habitat == ""
}

// HasAnimal reports whether a wildlife token stands on the cell
func (c Cell) HasAnimal() bool {
	return c.Animal != NoAnimal
}

// DraftOption is one habitat/animal pair offered to the current player
type DraftOption struct {
	Habitat HabitatKind `json:"habitat"`
	Animal  AnimalKind  `json:"animal"`
}

// Drafter offers habitat/animal pairs to the current player
type Drafter interface {
	Draw(size int) []DraftOption
}

// ErrorKind is a machine-friendly placement outcome code
type ErrorKind string

const (
	ErrorKindNone                  ErrorKind = ""
	ErrorKindInvalidIndex          ErrorKind = "invalid_index"
	ErrorKindOccupiedCell          ErrorKind = "occupied_cell"
	ErrorKindIncompatiblePlacement ErrorKind = "incompatible_placement"
	ErrorKindInvalidKind           ErrorKind = "invalid_kind"
	ErrorKindInvalidDraft          ErrorKind = "invalid_draft_option"
)

// ScoreBreakdown is the total score with one term per species and per habitat
type ScoreBreakdown struct {
	Total      int                 `json:"total"`
	PerSpecies map[AnimalKind]int  `json:"per_species"`
	PerHabitat map[HabitatKind]int `json:"per_habitat"`
}

// PlacementResult reports the outcome of a single PlaceTile call
type PlacementResult struct {
	Accepted       bool           `json:"accepted"`
	AnimalAttached bool           `json:"animal_attached"`
	ErrorKind      ErrorKind      `json:"error,omitempty"`
	Message        string         `json:"message"`
	Index          int            `json:"index"`
	Habitat        HabitatKind    `json:"habitat"`
	Animal         AnimalKind     `json:"animal,omitempty"`
	Score          ScoreBreakdown `json:"score"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Players     int    `json:"players"`
	DraftSize   int    `json:"draft_size"`
	Messages    struct {
		Welcome            string `json:"welcome"`
		Placed             string `json:"placed"`
		AnimalRejected     string `json:"animal_rejected"`
		Occupied           string `json:"occupied"`
		InvalidIndex       string `json:"invalid_index"`
		PlayerTurn         string `json:"player_turn"`
		BoardComplete      string `json:"board_complete"`
		UnknownDraftOption string `json:"unknown_draft_option"`
	} `json:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Board         Board          `json:"board"`
	Score         ScoreBreakdown `json:"score"`
	CurrentPlayer int            `json:"current_player"`
	Players       int            `json:"players"`
	Draft         []DraftOption  `json:"draft"`
	Message       string         `json:"message"`
	GameOver      bool           `json:"game_over"`
	ConfigName    string         `json:"config_name"`
	Turn          int            `json:"turn"`

	// PlacementHistory is the read-only log of placement attempts.
	PlacementHistory []PlacementEntry `json:"placement_history"`
	TotalPlacements  int              `json:"total_placements"`
}

// PlacementEntry records one placement attempt in the game history
type PlacementEntry struct {
	Player         int         `json:"player"`
	Index          int         `json:"index"`
	Habitat        HabitatKind `json:"habitat"`
	Animal         AnimalKind  `json:"animal,omitempty"`
	Accepted       bool        `json:"accepted"`
	AnimalAttached bool        `json:"animal_attached"`
	ErrorKind      ErrorKind   `json:"error,omitempty"`
	ScoreAfter     int         `json:"score_after"`
	Timestamp      int64       `json:"timestamp"`
	Number         int         `json:"number"`
}

// Clone returns a deep copy of the state that shares nothing with s
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Score = s.Score.Clone()
	out.Draft = append([]DraftOption{}, s.Draft...)
	out.PlacementHistory = append([]PlacementEntry{}, s.PlacementHistory...)
	return &out
}

// Clone returns a copy of the breakdown with its own maps
func (b ScoreBreakdown) Clone() ScoreBreakdown {
	out := ScoreBreakdown{
		Total:      b.Total,
		PerSpecies: make(map[AnimalKind]int, len(b.PerSpecies)),
		PerHabitat: make(map[HabitatKind]int, len(b.PerHabitat)),
	}
	for k, v := range b.PerSpecies {
		out.PerSpecies[k] = v
	}
	for k, v := range b.PerHabitat {
		out.PerHabitat[k] = v
	}
	return out
}
