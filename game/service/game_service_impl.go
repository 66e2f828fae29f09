package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/cascadia/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("config not found")
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithPresenter publishes every state change to p
func WithPresenter(p Presenter) Option {
	return func(s *gameServiceImpl) {
		s.presenter = p
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	configs   ConfigManager
	presenter Presenter
	mu        sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			return nil, s.configError(configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState().Clone(),
		GameConfig:     session.Config,
	}, nil
}

// configError lists the available config IDs when name is unknown
func (s *gameServiceImpl) configError(name string, err error) error {
	available, listErr := s.configs.ListConfigs()
	if listErr != nil || len(available) == 0 {
		return fmt.Errorf("%w: %s (%v)", ErrConfigNotFound, name, err)
	}
	ids := make([]string, 0, len(available))
	for _, cfg := range available {
		ids = append(ids, cfg.ConfigID)
	}
	return fmt.Errorf("%w: %s. Available configs: %v", ErrConfigNotFound, name, ids)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState().Clone(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState().Clone(),
			GameConfig:     sess.Config,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// PlaceTile places a draft option or an explicit habitat/animal pair
func (s *gameServiceImpl) PlaceTile(ctx context.Context, sessionID string, req PlaceRequest) (*PlaceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	player := sess.Engine.GetCurrentPlayer()
	before := sess.Engine.GetScore().Total

	var placement *engine.PlacementResult
	if req.DraftIndex != nil {
		placement = sess.Engine.PlaceDraft(req.Index, *req.DraftIndex)
	} else {
		habitat, animal := parseKinds(req.Habitat, req.Animal)
		placement = sess.Engine.PlaceTile(req.Index, habitat, animal)
	}

	state := sess.Engine.GetState().Clone()
	result := &PlaceResult{
		PlacementResult: placement,
		Player:          player,
		ScoreDelta:      state.Score.Total - before,
		GameState:       state,
		Events:          []GameEvent{},
	}

	if placement.Accepted {
		index := placement.Index
		result.Events = append(result.Events, GameEvent{
			Type:      EventTilePlaced,
			Message:   placement.Message,
			Timestamp: time.Now(),
			Index:     &index,
			Player:    player,
		})
		if state.GameOver {
			result.Events = append(result.Events, GameEvent{
				Type:      EventGameOver,
				Message:   state.Message,
				Timestamp: time.Now(),
			})
		}
		s.publish(sess.ID, state, result.Events)
	}

	return result, nil
}

// parseKinds resolves user-supplied names. Unresolvable names are passed
// through unchanged so the engine rejects and records the attempt.
func parseKinds(habitatName, animalName string) (engine.HabitatKind, engine.AnimalKind) {
	habitat, err := engine.ParseHabitat(habitatName)
	if err != nil {
		habitat = engine.HabitatKind(habitatName)
	}
	animal, err := engine.ParseAnimal(animalName)
	if err != nil {
		animal = engine.AnimalKind(animalName)
	}
	return habitat, animal
}

// EndTurn passes the turn without placing
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	player := sess.Engine.EndTurn()
	state := sess.Engine.GetState().Clone()
	s.publish(sess.ID, state, []GameEvent{{
		Type:      EventTurnEnded,
		Message:   state.Message,
		Timestamp: time.Now(),
		Player:    player,
	}})
	return state, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset().Clone()
	s.publish(sess.ID, state, []GameEvent{{
		Type:      EventGameReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}})
	return state, nil
}

// GetGameState retrieves a snapshot of the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState().Clone(), nil
}

// GetScore returns the score breakdown of a session
func (s *gameServiceImpl) GetScore(ctx context.Context, sessionID string) (*engine.ScoreBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	score := sess.Engine.GetScore().Clone()
	return &score, nil
}

// CanPlace reports whether animal may stand on habitat
func (s *gameServiceImpl) CanPlace(ctx context.Context, habitatName, animalName string) (*CompatibilityInfo, error) {
	habitat, err := engine.ParseHabitat(habitatName)
	if err != nil {
		return nil, err
	}
	animal, err := engine.ParseAnimal(animalName)
	if err != nil {
		return nil, err
	}
	if animal == engine.NoAnimal {
		return nil, fmt.Errorf("%w: animal is required", engine.ErrUnknownAnimal)
	}

	return &CompatibilityInfo{
		Habitat:         habitat,
		Animal:          animal,
		Compatible:      engine.CanPlace(habitat, animal),
		AllowedHabitats: engine.AllowedHabitats(animal),
	}, nil
}

// GetPlacementHistory returns paginated placement history
func (s *gameServiceImpl) GetPlacementHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetPlacementHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	placements := []engine.PlacementEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				placements = append(placements, history[i])
			}
		} else {
			placements = append(placements, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Placements:      placements,
		TotalPlacements: total,
		Page:            opts.Page,
		PageSize:        opts.Limit,
		TotalPages:      totalPages,
		HasNext:         opts.Page < totalPages,
		HasPrevious:     opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, s.configError(configName, err)
	}
	return config, nil
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// getSession looks a session up and marks it as accessed. Callers hold s.mu
// for writing, since the access time is read under the read lock.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// publish sends the new state and its events to the presenter, if any
func (s *gameServiceImpl) publish(sessionID string, state *engine.GameState, events []GameEvent) {
	if s.presenter == nil {
		return
	}
	s.presenter.BroadcastToSession(sessionID, state)
	for _, event := range events {
		s.presenter.BroadcastEvent(sessionID, event.Type, event)
	}
}
