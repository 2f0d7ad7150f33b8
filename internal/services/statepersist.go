package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/NickGV/serujier/internal/logger"
	"github.com/NickGV/serujier/internal/models"
	"github.com/NickGV/serujier/internal/repository"
	"github.com/NickGV/serujier/internal/tally"
)

// TallyStateKey is the single key the running tally is persisted under.
const TallyStateKey = "conteoDelDia"

const persistTimeout = 5 * time.Second

// NewStatePersister returns a tally listener that writes every committed
// state to the repository as JSON. Write failures are logged and swallowed:
// losing a checkpoint must never block counting.
func NewStatePersister(log logger.Logger, repo repository.StateRepository) tally.Listener {
	return func(st models.TallyState) {
		data, err := json.Marshal(st)
		if err != nil {
			log.Error("Failed to serialize tally state", "error", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := repo.SaveTallyState(ctx, TallyStateKey, string(data)); err != nil {
			log.Error("Failed to persist tally state", "error", err)
		}
	}
}

// LoadPersistedState reads the checkpointed tally state. It returns nil
// when there is none, or when the stored blob cannot be decoded; either
// way the caller starts from a fresh state.
func LoadPersistedState(ctx context.Context, log logger.Logger, repo repository.StateRepository) *models.TallyState {
	data, err := repo.LoadTallyState(ctx, TallyStateKey)
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			log.Error("Failed to load persisted tally state", "error", err)
		}
		return nil
	}
	var st models.TallyState
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		log.Warn("Discarding undecodable persisted tally state", "error", err)
		return nil
	}
	return &st
}
