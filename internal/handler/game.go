package handler

import (
	"net/http" // HTTP status codes
	"time"     // event timestamps

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/rorogames/fishing-backend/internal/game"       // fishing engine
	"github.com/rorogames/fishing-backend/internal/queue"      // event payloads
	"github.com/rorogames/fishing-backend/internal/repository" // inventory listing
	queuepublisher "github.com/rorogames/fishing-backend/internal/service"
)

// GameHandler exposes the fishing attempt and inventory endpoints.  All
// methods assume JWT authentication has already been performed by the
// middleware and may return 401 when the user ID cannot be extracted from
// the context.
type GameHandler struct {
	Engine   *game.FishingEngine
	FishRepo *repository.FishRepo
}

func NewGameHandler(engine *game.FishingEngine, fish *repository.FishRepo) *GameHandler {
	if engine == nil || fish == nil {
		panic("nil dependency passed to NewGameHandler")
	}
	return &GameHandler{Engine: engine, FishRepo: fish}
}

type fishPart struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Reward int64  `json:"reward"`
	Emoji  string `json:"emoji"`
}

// Fish handles POST /v1/game/fish.  One weighted draw against the catalog;
// a miss is a normal 200 response, a catch reports the fish and the new
// balance.  The catch event is published after commit; a broker failure is
// ignored so it never turns a successful catch into an error.
func (h *GameHandler) Fish(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	outcome, err := h.Engine.AttemptCatch(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fishing attempt failed"})
	}
	if !outcome.Caught {
		return c.JSON(http.StatusOK, echo.Map{
			"outcome": "none",
			"msg":     "Nothing bit this time...",
		})
	}

	_ = queuepublisher.PublishCatchRecorded(ctx, queue.CatchRecordedEvent{
		UserID:     userID,
		FishTypeID: outcome.Fish.ID,
		FishName:   outcome.Fish.Name,
		Reward:     outcome.Fish.Reward,
		NewBalance: outcome.NewBalance,
		CaughtAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"outcome":     "caught",
		"fish":        fishPart{ID: outcome.Fish.ID, Name: outcome.Fish.Name, Reward: outcome.Fish.Reward, Emoji: outcome.Fish.Emoji},
		"new_balance": outcome.NewBalance,
	})
}

// Inventory handles GET /v1/game/inventory.  Returns the user's catches
// joined with their fish types, newest first.
func (h *GameHandler) Inventory(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	entries, err := h.FishRepo.ListInventory(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load inventory failed"})
	}
	return c.JSON(http.StatusOK, entries)
}
