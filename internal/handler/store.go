package handler

import (
	"errors"   // errors.Is comparisons against engine sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // event timestamps

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/rorogames/fishing-backend/internal/game"       // purchase engine
	"github.com/rorogames/fishing-backend/internal/queue"      // event payloads
	"github.com/rorogames/fishing-backend/internal/repository" // store catalog
	queuepublisher "github.com/rorogames/fishing-backend/internal/service"
)

// StoreHandler exposes the item catalog and the purchase endpoint.
type StoreHandler struct {
	ItemRepo *repository.ItemRepo
	Engine   *game.PurchaseEngine
}

func NewStoreHandler(items *repository.ItemRepo, engine *game.PurchaseEngine) *StoreHandler {
	if items == nil || engine == nil {
		panic("nil dependency passed to NewStoreHandler")
	}
	return &StoreHandler{ItemRepo: items, Engine: engine}
}

type itemPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Items handles GET /v1/store/items.  Returns the catalog ordered by
// ascending price.  The route sits behind the response cache.
func (h *StoreHandler) Items(c echo.Context) error {
	items, err := h.ItemRepo.Catalog(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load items failed"})
	}
	parts := make([]itemPart, 0, len(items))
	for _, it := range items {
		parts = append(parts, itemPart{ID: it.ID, Name: it.Name, Price: it.Price})
	}
	return c.JSON(http.StatusOK, parts)
}

// Purchase handles POST /v1/store/items/:id/purchase.  The engine runs the
// whole sequence in one transaction; this handler only maps outcomes to
// status codes.
func (h *StoreHandler) Purchase(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	ctx := c.Request().Context()
	receipt, err := h.Engine.Purchase(ctx, userID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrItemNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"status": "not_found", "error": "item not found"})
		case errors.Is(err, game.ErrInsufficientFunds):
			return c.JSON(http.StatusBadRequest, echo.Map{"status": "insufficient_funds", "error": "not enough coins"})
		case errors.Is(err, game.ErrAlreadyOwned):
			return c.JSON(http.StatusConflict, echo.Map{"status": "already_owned", "error": "item already owned"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase failed"})
	}

	_ = queuepublisher.PublishPurchaseCompleted(ctx, queue.PurchaseCompletedEvent{
		UserID:      userID,
		ItemTypeID:  receipt.ItemID,
		Price:       receipt.Price,
		NewBalance:  receipt.NewBalance,
		PurchasedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"status":      "ok",
		"new_balance": receipt.NewBalance,
	})
}
