package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"talanch-backoffice/internal/dialog"
	"talanch-backoffice/internal/domain"
	"talanch-backoffice/internal/selection"
	"talanch-backoffice/internal/service"
	"talanch-backoffice/internal/session"
	"talanch-backoffice/internal/upstream"
	"talanch-backoffice/internal/view"
)

const sessionHeader = "X-Session-ID"

// AuditLog exposes the recorded mutation trail for the admin console.
type AuditLog interface {
	ListRecentMutations(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type Handler struct {
	Dishes     service.DishServiceInterface
	Menus      service.MenuServiceInterface
	Orders     service.OrderServiceInterface
	Sessions   *session.Manager
	Audit      AuditLog
	Composers  *dialog.Registry
	Expansions *selection.ExpandedRegistry
}

func NewHandler(dishSvc service.DishServiceInterface, menuSvc service.MenuServiceInterface, orderSvc service.OrderServiceInterface, sessions *session.Manager, audit AuditLog) *Handler {
	return &Handler{
		Dishes:     dishSvc,
		Menus:      menuSvc,
		Orders:     orderSvc,
		Sessions:   sessions,
		Audit:      audit,
		Composers:  dialog.NewRegistry(),
		Expansions: selection.NewExpandedRegistry(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/backoffice/login", h.login).Methods("POST")
	r.HandleFunc("/api/backoffice/logout", h.logout).Methods("POST")

	r.HandleFunc("/api/backoffice/dishes", h.getDishes).Methods("GET")
	r.HandleFunc("/api/backoffice/dishes", h.createDish).Methods("POST")
	r.HandleFunc("/api/backoffice/dishes/averages", h.getDishAverages).Methods("GET")
	r.HandleFunc("/api/backoffice/dishes/price-bulk", h.bulkUpdatePrices).Methods("POST")
	r.HandleFunc("/api/backoffice/dishes/{id}", h.updateDish).Methods("PATCH")
	r.HandleFunc("/api/backoffice/dishes/{id}", h.deleteDish).Methods("DELETE")

	r.HandleFunc("/api/backoffice/menus", h.getMenus).Methods("GET")
	r.HandleFunc("/api/backoffice/menus", h.createMenu).Methods("POST")
	r.HandleFunc("/api/backoffice/menus/menu-of-the-day", h.setMenuOfTheDay).Methods("PATCH")
	r.HandleFunc("/api/backoffice/menus/menu-of-the-day/qrcode", h.getMenuOfTheDayQRCode).Methods("GET")
	r.HandleFunc("/api/backoffice/menus/{id}", h.deleteMenu).Methods("DELETE")
	r.HandleFunc("/api/backoffice/menus/{id}/dishes", h.addDishesToMenu).Methods("POST")
	r.HandleFunc("/api/backoffice/menus/{id}/dishes/{dishId}", h.removeDishFromMenu).Methods("DELETE")
	r.HandleFunc("/api/backoffice/menus/{id}/description", h.updateMenuDescription).Methods("PATCH")

	r.HandleFunc("/api/backoffice/menus/{id}/composer", h.getComposer).Methods("GET")
	r.HandleFunc("/api/backoffice/menus/{id}/composer/open", h.openComposer).Methods("POST")
	r.HandleFunc("/api/backoffice/menus/{id}/composer/selection", h.updateComposerSelection).Methods("POST")
	r.HandleFunc("/api/backoffice/menus/{id}/composer/submit", h.submitComposer).Methods("POST")
	r.HandleFunc("/api/backoffice/menus/{id}/composer/close", h.closeComposer).Methods("POST")

	r.HandleFunc("/api/backoffice/orders", h.getTodayOrders).Methods("GET")
	r.HandleFunc("/api/backoffice/orders/unpaid", h.getUnpaidOrders).Methods("GET")
	r.HandleFunc("/api/backoffice/orders/unpaid/{id}/expand", h.toggleOrderExpanded).Methods("POST")
	r.HandleFunc("/api/backoffice/orders/{id}/paid", h.setOrderPaid).Methods("PATCH")
	r.HandleFunc("/api/backoffice/orders/{id}/served", h.setOrderServed).Methods("PATCH")

	r.HandleFunc("/api/backoffice/refresh/{collection}", h.refreshCollection).Methods("POST")

	r.HandleFunc("/api/backoffice/audit", h.getAuditTrail).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "backoffice",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// actor resolves the session behind the request. Mutations still go
// through when no session is attached; the audit trail records them
// as anonymous.
func (h *Handler) actor(r *http.Request) string {
	id := r.Header.Get(sessionHeader)
	if id == "" || h.Sessions == nil {
		return "anonymous"
	}
	s, err := h.Sessions.Lookup(r.Context(), id)
	if err != nil {
		return "anonymous"
	}
	return s.Claims.Email
}

func writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrNoFieldsChanged):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConflict), errors.Is(err, upstream.ErrDishAlreadyInMenu):
		status = http.StatusConflict
	case errors.Is(err, upstream.ErrNotFound), errors.Is(err, service.ErrNoMenuOfTheDay):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrFetch), errors.Is(err, upstream.ErrBadShape):
		status = http.StatusBadGateway
	case errors.Is(err, session.ErrMalformedToken), errors.Is(err, session.ErrTokenExpired), errors.Is(err, session.ErrNotFound):
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	s, err := h.Sessions.Login(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId": s.ID,
		"email":     s.Claims.Email,
		"role":      s.Claims.Role,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		http.Error(w, "missing "+sessionHeader+" header", http.StatusBadRequest)
		return
	}
	if err := h.Sessions.Logout(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getDishes(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := view.DishQuery{
		Search:   r.URL.Query().Get("search"),
		Category: category,
		Sort:     view.ParseSortKey(r.URL.Query().Get("sort")),
	}
	dishes, err := h.Dishes.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dishes)
}

func (h *Handler) getDishAverages(w http.ResponseWriter, r *http.Request) {
	averages, err := h.Dishes.Averages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, averages)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}
	dish := domain.NewDish{
		Name:        r.FormValue("dishName"),
		Description: r.FormValue("dishDescription"),
		Price:       r.FormValue("dishPrice"),
	}
	if file, header, err := r.FormFile("dishPhoto"); err == nil {
		defer file.Close()
		photo, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Error retrieving the file", http.StatusBadRequest)
			return
		}
		dish.Photo = photo
		dish.PhotoName = header.Filename
	}
	if err := h.Dishes.Create(r.Context(), h.actor(r), dish); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// updateDish forwards only the fields present in the form. An absent
// key means the field was never touched and must not be sent upstream.
func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid dish id", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}
	var patch domain.DishPatch
	if values, ok := r.MultipartForm.Value["dishName"]; ok && len(values) > 0 {
		patch.Name = &values[0]
	}
	if values, ok := r.MultipartForm.Value["dishDescription"]; ok && len(values) > 0 {
		patch.Description = &values[0]
	}
	if values, ok := r.MultipartForm.Value["dishPrice"]; ok && len(values) > 0 {
		patch.Price = &values[0]
	}
	if file, header, err := r.FormFile("dishPhoto"); err == nil {
		defer file.Close()
		photo, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Error retrieving the file", http.StatusBadRequest)
			return
		}
		patch.Photo = photo
		patch.PhotoName = header.Filename
	}
	if err := h.Dishes.Update(r.Context(), h.actor(r), id, patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid dish id", http.StatusBadRequest)
		return
	}
	if err := h.Dishes.Delete(r.Context(), h.actor(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) bulkUpdatePrices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
		NewPrice string `json:"newPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	results, err := h.Dishes.BulkPriceUpdate(r.Context(), h.actor(r), category, req.NewPrice)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) getMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.Menus.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, menus)
}

func (h *Handler) createMenu(w http.ResponseWriter, r *http.Request) {
	var menu domain.NewMenu
	if err := json.NewDecoder(r.Body).Decode(&menu); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Menus.Create(r.Context(), h.actor(r), menu); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) deleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid menu id", http.StatusBadRequest)
		return
	}
	if err := h.Menus.Delete(r.Context(), h.actor(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addDishesToMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid menu id", http.StatusBadRequest)
		return
	}
	var selection []domain.DishSelection
	if err := json.NewDecoder(r.Body).Decode(&selection); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	results, err := h.Menus.AddDishes(r.Context(), h.actor(r), menuID, selection)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) removeDishFromMenu(w http.ResponseWriter, r *http.Request) {
	menuID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid menu id", http.StatusBadRequest)
		return
	}
	dishID, err := strconv.Atoi(mux.Vars(r)["dishId"])
	if err != nil {
		http.Error(w, "invalid dish id", http.StatusBadRequest)
		return
	}
	if err := h.Menus.RemoveDish(r.Context(), h.actor(r), menuID, dishID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateMenuDescription(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid menu id", http.StatusBadRequest)
		return
	}
	var req struct {
		Description string `json:"menuDescription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Menus.UpdateDescription(r.Context(), h.actor(r), id, req.Description); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setMenuOfTheDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MenuID int `json:"menuId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Menus.SetMenuOfTheDay(r.Context(), h.actor(r), req.MenuID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getMenuOfTheDayQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Menus.MenuOfTheDayQR(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func sessionKey(r *http.Request) string {
	if id := r.Header.Get(sessionHeader); id != "" {
		return id
	}
	return "anonymous"
}

// composerKey scopes a dish-picker dialog to one admin session and one menu.
func composerKey(r *http.Request) string {
	return sessionKey(r) + ":menu:" + mux.Vars(r)["id"]
}

func (h *Handler) getComposer(w http.ResponseWriter, r *http.Request) {
	d := h.Composers.Get(composerKey(r))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":     d.State(),
		"selection": d.Selection().Items(),
	})
}

// openComposer starts the dish-picker dialog. The dependent data is the
// dish collection; a failed fetch leaves the dialog open in its failed
// state so the admin can retry.
func (h *Handler) openComposer(w http.ResponseWriter, r *http.Request) {
	d := h.Composers.Get(composerKey(r))
	var err error
	if d.State() == dialog.StateFailed {
		err = d.Retry()
	} else {
		err = d.Open()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err := h.Dishes.Refresh(r.Context()); err != nil {
		d.FetchFailed()
		writeError(w, err)
		return
	}
	if err := d.FetchSucceeded(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"state": d.State()})
}

func (h *Handler) updateComposerSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DishID int    `json:"dishId"`
		Op     string `json:"op"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	d := h.Composers.Get(composerKey(r))
	if d.State() != dialog.StateReady {
		http.Error(w, "dialog is not ready", http.StatusConflict)
		return
	}
	sel := d.Selection()
	switch req.Op {
	case "toggle":
		sel.Toggle(req.DishID)
	case "increment":
		sel.Increment(req.DishID)
	case "decrement":
		sel.Decrement(req.DishID)
	default:
		http.Error(w, "unknown op", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":     d.State(),
		"selection": sel.Items(),
	})
}

func (h *Handler) submitComposer(w http.ResponseWriter, r *http.Request) {
	menuID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid menu id", http.StatusBadRequest)
		return
	}
	key := composerKey(r)
	d := h.Composers.Get(key)
	if err := d.Submit(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	results, err := h.Menus.AddDishes(r.Context(), h.actor(r), menuID, d.Selection().Items())
	if err != nil {
		d.Fail()
		writeError(w, err)
		return
	}
	d.Succeed()
	h.Composers.Drop(key)
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) closeComposer(w http.ResponseWriter, r *http.Request) {
	key := composerKey(r)
	h.Composers.Get(key).Close()
	h.Composers.Drop(key)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getTodayOrders(w http.ResponseWriter, r *http.Request) {
	tab := intQuery(r, "tab", view.TabUnpaidUnserved)
	page := intQuery(r, "page", 1)
	pageSize := intQuery(r, "pageSize", 10)
	orders, hasMore, err := h.Orders.ListToday(r.Context(), tab, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders":  orders,
		"page":    page,
		"hasMore": hasMore,
	})
}

func (h *Handler) getUnpaidOrders(w http.ResponseWriter, r *http.Request) {
	q := domain.UnpaidQuery{
		Page:      intQuery(r, "page", 1),
		PageSize:  intQuery(r, "pageSize", 10),
		FirstName: r.URL.Query().Get("firstName"),
		LastName:  r.URL.Query().Get("lastName"),
	}
	orders, page, hasNext, err := h.Orders.ListUnpaid(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders":      orders,
		"page":        page,
		"hasNext":     hasNext,
		"expandedIds": h.Expansions.Get(sessionKey(r)).IDs(),
	})
}

// toggleOrderExpanded folds or unfolds one row of the unpaid list for the
// calling admin's session.
func (h *Handler) toggleOrderExpanded(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	expanded := h.Expansions.Get(sessionKey(r)).Toggle(id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orderId":  id,
		"expanded": expanded,
	})
}

func (h *Handler) setOrderPaid(w http.ResponseWriter, r *http.Request) {
	h.setOrderFlag(w, r, h.Orders.SetPaid)
}

func (h *Handler) setOrderServed(w http.ResponseWriter, r *http.Request) {
	h.setOrderFlag(w, r, h.Orders.SetServed)
}

func (h *Handler) setOrderFlag(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, actor string, orderID int, value bool) error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	var req struct {
		Value bool `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := set(r.Context(), h.actor(r), id, req.Value); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) refreshCollection(w http.ResponseWriter, r *http.Request) {
	var err error
	switch mux.Vars(r)["collection"] {
	case "dishes":
		err = h.Dishes.Refresh(r.Context())
	case "menus":
		err = h.Menus.Refresh(r.Context())
	case "orders":
		err = h.Orders.Refresh(r.Context())
	default:
		http.Error(w, "unknown collection", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getAuditTrail(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Audit.ListRecentMutations(r.Context(), intQuery(r, "limit", 50))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
