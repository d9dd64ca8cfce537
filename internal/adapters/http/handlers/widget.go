package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-widget/internal/adapters/view"
	"github.com/jsamuelsen/quote-widget/internal/app"
	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// WidgetHandler exposes a widget session over HTTP.
type WidgetHandler struct {
	session *app.Session
	state   *view.State
}

// NewWidgetHandler creates a widget handler. The state must be the view
// binding the session was built with.
func NewWidgetHandler(session *app.Session, state *view.State) *WidgetHandler {
	return &WidgetHandler{
		session: session,
		state:   state,
	}
}

// toWidgetResponse converts a view snapshot to the API shape.
func toWidgetResponse(snap view.Snapshot) dto.WidgetResponse {
	resp := dto.WidgetResponse{
		Version:        snap.Version,
		Loading:        snap.Loading,
		IsFavorite:     snap.IsFavorite,
		Category:       snap.Category.String(),
		Favorites:      dto.NewQuoteResponses(snap.Favorites),
		FavoritesCount: snap.FavoritesCount,
	}

	if snap.Quote != nil {
		q := dto.NewQuoteResponse(*snap.Quote)
		resp.Quote = &q
	}

	return resp
}

func (h *WidgetHandler) nextQuoteResponse(dropped bool) dto.NextQuoteResponse {
	resp := dto.NextQuoteResponse{
		Dropped:  dropped,
		Category: h.session.Category().String(),
	}

	if quote, ok := h.session.Current(); ok {
		q := dto.NewQuoteResponse(quote)
		resp.Quote = &q
	}

	return resp
}

// GetWidget handles GET /api/v1/widget.
// Returns the last rendered widget state.
func (h *WidgetHandler) GetWidget(c *gin.Context) {
	snap := h.state.Snapshot(h.session.Category())
	snap.Loading = h.session.Loading()

	c.JSON(http.StatusOK, toWidgetResponse(snap))
}

// NextQuote handles POST /api/v1/widget/next.
// When a fetch is already running the request is dropped and the
// current quote is returned with dropped set.
func (h *WidgetHandler) NextQuote(c *gin.Context) {
	ok := h.session.RequestNewQuote(c.Request.Context())

	c.JSON(http.StatusOK, h.nextQuoteResponse(!ok))
}

// ChangeCategory handles PUT /api/v1/widget/category.
func (h *WidgetHandler) ChangeCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	// Selecting the current category is a no-op, not a dropped request.
	changed := category != h.session.Category()
	displayed := h.session.RequestCategoryChange(c.Request.Context(), category)

	c.JSON(http.StatusOK, h.nextQuoteResponse(changed && !displayed))
}

// CopyQuote handles POST /api/v1/widget/copy.
// A clipboard failure still returns the text so the client can copy it.
func (h *WidgetHandler) CopyQuote(c *gin.Context) {
	text, err := h.session.RequestCopy(c.Request.Context())
	if err != nil && !domain.IsClipboardUnavailable(err) {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CopyResponse{
		Copied: err == nil,
		Text:   text,
	})
}

// ToggleFavorite handles POST /api/v1/widget/favorite.
func (h *WidgetHandler) ToggleFavorite(c *gin.Context) {
	saved, err := h.session.RequestToggleFavorite(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, _ := h.session.Current()
	_, count := h.session.RecentFavorites(1)

	c.JSON(http.StatusOK, dto.FavoriteToggleResponse{
		ID:         quote.ID,
		IsFavorite: saved,
		Count:      count,
	})
}

// ListFavorites handles GET /api/v1/favorites?limit=N.
func (h *WidgetHandler) ListFavorites(c *gin.Context) {
	var query dto.FavoritesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	items, count := h.session.RecentFavorites(query.GetLimit())

	c.JSON(http.StatusOK, dto.FavoritesResponse{
		Items: dto.NewQuoteResponses(items),
		Count: count,
	})
}

// ShowFavorite handles POST /api/v1/favorites/:id/show.
func (h *WidgetHandler) ShowFavorite(c *gin.Context) {
	if err := h.session.ShowFavorite(c.Request.Context(), c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWidgetResponse(h.state.Snapshot(h.session.Category())))
}

// RegisterRoutes registers the widget routes on the given group:
//   - GET  /widget
//   - POST /widget/next
//   - PUT  /widget/category
//   - POST /widget/copy
//   - POST /widget/favorite
//   - GET  /favorites
//   - POST /favorites/:id/show
func (h *WidgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	widget := rg.Group("/widget")
	widget.GET("", h.GetWidget)
	widget.POST("/next", h.NextQuote)
	widget.PUT("/category", h.ChangeCategory)
	widget.POST("/copy", h.CopyQuote)
	widget.POST("/favorite", h.ToggleFavorite)

	favorites := rg.Group("/favorites")
	favorites.GET("", h.ListFavorites)
	favorites.POST("/:id/show", h.ShowFavorite)
}
