package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rentfage/property-service/internal/platform/logger"
	"github.com/rentfage/property-service/internal/repository"
	"github.com/rentfage/property-service/internal/service"
)

// Handler adapts the service layer to the JSON API the mobile client
// consumes.
type Handler struct {
	catalog  *service.CatalogService
	listings *service.ListingService
	requests *service.RequestService
	log      logger.Logger
}

func NewHandler(catalog *service.CatalogService, listings *service.ListingService, requests *service.RequestService, log logger.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		listings: listings,
		requests: requests,
		log:      log,
	}
}

// listingForm mirrors the add/edit form: every field as entered by the
// user, coordinates still raw text.
type listingForm struct {
	Address   string  `json:"address"`
	Price     string  `json:"price"`
	Details   string  `json:"details"`
	Latitude  string  `json:"latitude"`
	Longitude string  `json:"longitude"`
	ImageURI  *string `json:"imageUri"`
}

func (h *Handler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.catalog.All(r.Context())
	if err != nil {
		h.serverError(w, "Failed to list listings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.catalog.Favorites(r.Context())
	if err != nil {
		h.serverError(w, "Failed to list favorites", err)
		return
	}
	h.writeJSON(w, http.StatusOK, favorites)
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	listing, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "listing not found", http.StatusNotFound)
			return
		}
		h.serverError(w, "Failed to get listing", err)
		return
	}
	h.writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	h.fillForm(form)
	saved, err := h.listings.Save(r.Context(), nil)
	if err != nil {
		h.serverError(w, "Failed to create listing", err)
		return
	}
	if saved == nil {
		http.Error(w, "all fields and an image are required", http.StatusUnprocessableEntity)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) HandleUpdateListing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}

	h.fillForm(form)
	saved, err := h.listings.Save(r.Context(), &id)
	if err != nil {
		h.serverError(w, "Failed to update listing", err)
		return
	}
	if saved == nil {
		http.Error(w, "all fields and an image are required", http.StatusUnprocessableEntity)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.listings.Delete(r.Context(), id); err != nil {
		h.serverError(w, "Failed to delete listing", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.listings.ToggleFavorite(r.Context(), id); err != nil {
		h.serverError(w, "Failed to toggle favorite", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	listing, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "listing not found", http.StatusNotFound)
			return
		}
		h.serverError(w, "Failed to load listing for request", err)
		return
	}

	req, err := h.requests.Submit(r.Context(), *listing)
	if err != nil {
		h.serverError(w, "Failed to submit request", err)
		return
	}
	if req == nil {
		http.Error(w, "a signed-in user is required", http.StatusUnauthorized)
		return
	}
	h.writeJSON(w, http.StatusCreated, req)
}

func (h *Handler) HandleListMyRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.ListMine(r.Context())
	if err != nil {
		h.serverError(w, "Failed to list requests", err)
		return
	}
	h.writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) HandleListAllRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requests.ListAll(r.Context())
	if err != nil {
		h.serverError(w, "Failed to list all requests", err)
		return
	}
	h.writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) HandleApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.requests.Approve)
}

func (h *Handler) HandleRejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.requests.Reject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64) error) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := apply(r.Context(), id); err != nil {
		h.serverError(w, "Failed to apply decision", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fillForm(form listingForm) {
	h.listings.Reset()
	h.listings.SetAddress(form.Address)
	h.listings.SetPrice(form.Price)
	h.listings.SetDetails(form.Details)
	h.listings.SetLatitude(form.Latitude)
	h.listings.SetLongitude(form.Longitude)
	h.listings.SetImageURI(form.ImageURI)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (listingForm, bool) {
	var form listingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return listingForm{}, false
	}
	return form, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, msg string, err error) {
	h.log.Errorf("%s: %v", msg, err)
	http.Error(w, msg, http.StatusInternalServerError)
}
