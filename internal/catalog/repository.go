package catalog

import (
	"context"
	"fmt"
	"sync"

	"tcg-match-engine/internal/card"
	"tcg-match-engine/internal/logger"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CardRepository is the process-wide card catalog contract (spec §6.1): by
// cardId, by set, set-metadata queries, and an explicit load/teardown
// lifecycle in place of a global mutable cache (spec §9).
type CardRepository interface {
	LoadSet(ctx context.Context, meta SetMetadata, cards []JSONCard) (LoadSetResult, error)
	IsSetLoaded(author, setName, version string) bool
	Clear()
	ClearSet(author, setName, version string)
	GetByID(cardID string) (*card.Card, error)
	GetBySet(author, setName, version string) []card.Card
}

// setKey identifies a loaded set by its (author, setName, version) triple.
type setKey struct {
	Author  string
	SetName string
	Version string
}

// LoadSetResult reports the outcome of loading a card set: how many cards
// loaded successfully, and a per-card error list for the rest.
type LoadSetResult struct {
	SetMetadata SetMetadata
	Loaded      int
	Failed      int
	Errors      []CardLoadError
}

// CardLoadError pairs a failing card's name/number with the reasons parsing
// or validation rejected it.
type CardLoadError struct {
	Name       string
	CardNumber string
	Errors     []error
}

// memoryCardRepository is an in-memory CardRepository, grounded on the
// mutex+map+loaded-flag idiom the teacher's CardRepositoryImpl uses (it has
// no event bus dependency — only the per-match-scoped repositories do, and
// the catalog is process-wide, not match-scoped).
type memoryCardRepository struct {
	mu         sync.RWMutex
	byID       map[string]*card.Card
	setIndex   map[setKey][]string // setKey -> ordered list of cardIds
	loadedSets map[setKey]SetMetadata
}

// NewMemoryCardRepository constructs an empty in-memory CardRepository.
func NewMemoryCardRepository() CardRepository {
	return &memoryCardRepository{
		byID:       make(map[string]*card.Card),
		setIndex:   make(map[setKey][]string),
		loadedSets: make(map[setKey]SetMetadata),
	}
}

func (r *memoryCardRepository) LoadSet(ctx context.Context, meta SetMetadata, cards []JSONCard) (LoadSetResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := logger.Get()
	key := setKey{Author: meta.Author, SetName: meta.SetName, Version: meta.Version}

	result := LoadSetResult{SetMetadata: meta}
	cardIDs := make([]string, 0, len(cards))

	for _, jc := range cards {
		c, errs := ParseCard(meta.Author, meta.SetName, meta.Version, jc)
		if len(errs) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, CardLoadError{
				Name:       jc.Name,
				CardNumber: jc.CardNumber,
				Errors:     errs,
			})
			continue
		}
		r.byID[c.CardID] = c
		cardIDs = append(cardIDs, c.CardID)
		result.Loaded++
	}

	r.setIndex[key] = cardIDs
	r.loadedSets[key] = meta

	log.Info("loaded card set",
		zap.String("author", meta.Author),
		zap.String("setName", meta.SetName),
		zap.String("version", meta.Version),
		zap.Int("loaded", result.Loaded),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (r *memoryCardRepository) IsSetLoaded(author, setName, version string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loadedSets[setKey{Author: author, SetName: setName, Version: version}]
	return ok
}

func (r *memoryCardRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]*card.Card)
	r.setIndex = make(map[setKey][]string)
	r.loadedSets = make(map[setKey]SetMetadata)
}

func (r *memoryCardRepository) ClearSet(author, setName, version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := setKey{Author: author, SetName: setName, Version: version}
	for _, id := range r.setIndex[key] {
		delete(r.byID, id)
	}
	delete(r.setIndex, key)
	delete(r.loadedSets, key)
}

func (r *memoryCardRepository) GetByID(cardID string) (*card.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[cardID]
	if !ok {
		return nil, fmt.Errorf("card not found: %s", cardID)
	}
	cp := *c
	return &cp, nil
}

func (r *memoryCardRepository) GetBySet(author, setName, version string) []card.Card {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.setIndex[setKey{Author: author, SetName: setName, Version: version}]
	return lo.FilterMap(ids, func(id string, _ int) (card.Card, bool) {
		c, ok := r.byID[id]
		if !ok {
			return card.Card{}, false
		}
		return *c, true
	})
}
