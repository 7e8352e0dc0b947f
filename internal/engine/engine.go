// Package engine implements the quest progress tracker: sessions, the
// unlock transition and the current selection.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/moat/internal/domain"
	"github.com/hammamikhairi/moat/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithSeed sets the recipe every new session starts with unlocked. The
// default is the first recipe in the catalog.
func WithSeed(id string) Option {
	return func(e *Engine) {
		e.seedID = id
	}
}

// WithClock overrides the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithUnlockHook registers fn to be called after every fresh unlock.
func WithUnlockHook(fn func(domain.UnlockResult)) Option {
	return func(e *Engine) {
		e.hooks = append(e.hooks, fn)
	}
}

// Engine manages quest sessions. It depends only on interfaces and is
// fully testable with in-memory implementations.
type Engine struct {
	recipes domain.RecipeSource
	store   domain.SessionStore
	log     *logger.Logger
	seedID  string
	now     func() time.Time
	hooks   []func(domain.UnlockResult)
}

// New creates a quest engine with the given dependencies and options.
func New(recipes domain.RecipeSource, store domain.SessionStore, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		recipes: recipes,
		store:   store,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListRecipes returns all recipes in catalog order.
func (e *Engine) ListRecipes(ctx context.Context) ([]domain.RecipeSummary, error) {
	return e.recipes.List(ctx)
}

// GetRecipe returns a full recipe by ID.
func (e *Engine) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, id)
}

// SearchRecipes returns recipes matching query.
func (e *Engine) SearchRecipes(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	return e.recipes.Search(ctx, query)
}

// StartSession begins a new session with the seed progress. The first
// catalog entry is selected.
func (e *Engine) StartSession(ctx context.Context) (*domain.Session, error) {
	recipes, err := e.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	if len(recipes) == 0 {
		return nil, fmt.Errorf("starting session: %w", domain.ErrNotFound)
	}

	seed := e.seedID
	if seed == "" {
		seed = recipes[0].ID
	} else if _, err := e.recipes.Get(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed recipe %q: %w", seed, err)
	}

	now := e.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Progress:  domain.NewProgress(seed),
		Selected:  recipes[0].ID,
		Status:    domain.SessionActive,
		StartedAt: now,
		UpdatedAt: now,
	}

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("started session %s (seed=%s)", session.ID, seed)
	return session, nil
}

// Unlock unlocks recipeID for the session and selects it.
//
// An id that is not in the catalog is a silent no-op: the returned result
// has a nil Recipe and the session is unchanged. Unlocking an id that is
// already unlocked only moves the selection.
func (e *Engine) Unlock(ctx context.Context, sessionID, recipeID string) (*domain.UnlockResult, error) {
	session, err := e.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	recipe, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.log.Debug("session %s: unlock of unknown recipe %q ignored", sessionID, recipeID)
			return &domain.UnlockResult{Session: session}, nil
		}
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	secDelta, chaosDelta, fresh := Apply(&session.Progress, *recipe)

	now := e.now()
	session.Selected = recipe.ID
	session.UpdatedAt = now
	if fresh {
		session.Events = append(session.Events, domain.UnlockEvent{
			RecipeID:      recipe.ID,
			SecurityDelta: secDelta,
			ChaosDelta:    chaosDelta,
			At:            now,
		})
	}

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	result := domain.UnlockResult{
		Recipe:        recipe,
		Fresh:         fresh,
		SecurityDelta: secDelta,
		ChaosDelta:    chaosDelta,
		Session:       session,
	}

	if fresh {
		e.log.Info("session %s unlocked %s (security=%.0f chaos=%.0f)",
			sessionID, recipe.ID, session.Progress.SecurityScore, session.Progress.ChaosMeter)
		for _, hook := range e.hooks {
			hook(result)
		}
	} else {
		e.log.Debug("session %s: %s already unlocked", sessionID, recipe.ID)
	}
	return &result, nil
}

// Select changes the displayed recipe. Unknown ids leave the selection as
// it was.
func (e *Engine) Select(ctx context.Context, sessionID, recipeID string) (*domain.Session, error) {
	session, err := e.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if _, err := e.recipes.Get(ctx, recipeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.log.Debug("session %s: select of unknown recipe %q ignored", sessionID, recipeID)
			return session, nil
		}
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	if session.Selected == recipeID {
		return session, nil
	}
	session.Selected = recipeID
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	e.log.Debug("session %s selected %s", sessionID, recipeID)
	return session, nil
}

// Step moves the selection by delta entries in catalog order, clamped to
// the ends of the catalog.
func (e *Engine) Step(ctx context.Context, sessionID string, delta int) (*domain.Session, error) {
	session, err := e.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	recipes, err := e.recipes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}

	idx := 0
	for i, r := range recipes {
		if r.ID == session.Selected {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(recipes) {
		idx = len(recipes) - 1
	}
	return e.Select(ctx, sessionID, recipes[idx].ID)
}

// Resolve maps a user reference to a recipe ID. A reference is either a
// 1-based catalog position ("3") or an ID, matched case-insensitively.
// The boolean is false when nothing matches.
func (e *Engine) Resolve(ctx context.Context, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	recipes, err := e.recipes.List(ctx)
	if err != nil {
		e.log.Error("listing recipes: %v", err)
		return "", false
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(recipes) {
			return "", false
		}
		return recipes[n-1].ID, true
	}
	for _, r := range recipes {
		if strings.EqualFold(r.ID, ref) {
			return r.ID, true
		}
	}
	return "", false
}

// IsDone reports whether recipeID has been unlocked in the session.
func IsDone(session *domain.Session, recipeID string) bool {
	return session != nil && session.Progress.Has(recipeID)
}

// Status returns the full session state.
func (e *Engine) Status(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.store.Load(ctx, sessionID)
}

// Abandon marks a session as abandoned. Its progress stays readable but
// can no longer change.
func (e *Engine) Abandon(ctx context.Context, sessionID string) error {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	session.Status = domain.SessionAbandoned
	session.UpdatedAt = e.now()

	if err := e.store.Save(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	e.log.Info("session %s abandoned", sessionID)
	return nil
}

func (e *Engine) activeSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session.Status != domain.SessionActive {
		return nil, domain.ErrSessionNotActive
	}
	return session, nil
}
