package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rentfage/property-service/internal/domain/entity"
	"github.com/rentfage/property-service/internal/platform/logger"
	"github.com/rentfage/property-service/internal/platform/metrics"
	"github.com/rentfage/property-service/internal/platform/watch"
	"github.com/rentfage/property-service/internal/repository"
)

// FormState is the ephemeral add/edit form. Text fields hold raw user
// input; CanSubmit and Saving are derived. It is never persisted and is
// discarded on reset or successful save.
type FormState struct {
	Address   string
	Price     string
	Details   string
	Latitude  string
	Longitude string
	ImageURI  *string

	CanSubmit bool
	Saving    bool
	// Saved is set on the fresh state produced by a successful save.
	Saved bool
}

// ListingService answers the UI's listing actions: favorite toggling,
// deletion, and the validated add/edit workflow. A single mutex serializes
// form access and saves, which also serializes new-ID allocation.
type ListingService struct {
	catalog *CatalogService
	metrics *metrics.Metrics
	log     logger.Logger

	mu    sync.Mutex
	form  FormState
	formB *watch.Broadcaster[FormState]
}

func NewListingService(catalog *CatalogService, m *metrics.Metrics, log logger.Logger) *ListingService {
	s := &ListingService{
		catalog: catalog,
		metrics: m,
		log:     log,
		formB:   watch.NewBroadcaster[FormState](),
	}
	s.formB.Publish(s.form)
	return s
}

// ToggleFavorite flips the favorite flag on the matching listing. An
// unknown id is a no-op, not an error.
func (s *ListingService) ToggleFavorite(ctx context.Context, id int64) error {
	listing, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debugf("ToggleFavorite: listing %d not found, ignoring", id)
			return nil
		}
		return err
	}

	listing.IsFavorite = !listing.IsFavorite
	if err := s.catalog.Update(ctx, *listing); err != nil {
		return fmt.Errorf("failed to toggle favorite on listing %d: %w", id, err)
	}
	s.metrics.FavoriteTogglesTotal.Inc()
	return nil
}

// Delete removes the listing. An unknown id is a no-op.
func (s *ListingService) Delete(ctx context.Context, id int64) error {
	listing, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debugf("Delete: listing %d not found, ignoring", id)
			return nil
		}
		return err
	}

	if err := s.catalog.Delete(ctx, *listing); err != nil {
		return fmt.Errorf("failed to delete listing %d: %w", id, err)
	}
	s.metrics.ListingDeletesTotal.Inc()
	s.log.Infof("Listing %d deleted", id)
	return nil
}

func (s *ListingService) SetAddress(v string)   { s.setField(func(f *FormState) { f.Address = v }) }
func (s *ListingService) SetPrice(v string)     { s.setField(func(f *FormState) { f.Price = v }) }
func (s *ListingService) SetDetails(v string)   { s.setField(func(f *FormState) { f.Details = v }) }
func (s *ListingService) SetLatitude(v string)  { s.setField(func(f *FormState) { f.Latitude = v }) }
func (s *ListingService) SetLongitude(v string) { s.setField(func(f *FormState) { f.Longitude = v }) }
func (s *ListingService) SetImageURI(uri *string) {
	s.setField(func(f *FormState) { f.ImageURI = uri })
}

// LoadForEditing fills the form from the matching listing. When the id is
// unknown the form resets to the empty "add new" state instead of failing.
func (s *ListingService) LoadForEditing(ctx context.Context, id int64) error {
	listing, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Reset()
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	imageURI := listing.ImageURI
	s.form = FormState{
		Address:   listing.Address,
		Price:     listing.Price,
		Details:   listing.Details,
		Latitude:  strconv.FormatFloat(listing.Latitude, 'f', -1, 64),
		Longitude: strconv.FormatFloat(listing.Longitude, 'f', -1, 64),
		ImageURI:  &imageURI,
	}
	s.recomputeCanSubmitLocked()
	s.formB.Publish(s.form)
	return nil
}

// Reset returns the form to the empty "add new" state.
func (s *ListingService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = FormState{}
	s.formB.Publish(s.form)
}

func (s *ListingService) FormSnapshot() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *ListingService) WatchForm() *watch.Subscription[FormState] {
	return s.formB.Subscribe()
}

// Save persists the form. With a nil id it adds a new listing under the
// next free ID; otherwise it updates the matching listing's editable fields
// while preserving its ID and favorite flag. While CanSubmit is false the
// call is silently ignored. Coordinates that fail to parse become 0.0; the
// form gate only checks presence, malformed numbers never block a save.
func (s *ListingService) Save(ctx context.Context, id *int64) (*entity.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.form.CanSubmit {
		s.log.Debugf("Save ignored: form validation gate closed")
		return nil, nil
	}

	s.form.Saving = true
	s.form.Saved = false
	s.formB.Publish(s.form)

	latitude := parseCoordinate(s.form.Latitude)
	longitude := parseCoordinate(s.form.Longitude)

	var saved entity.Listing
	var err error
	if id == nil {
		saved, err = s.addLocked(ctx, latitude, longitude)
	} else {
		saved, err = s.updateLocked(ctx, *id, latitude, longitude)
	}
	if err != nil {
		// Back to the editable state; the error belongs to this caller only.
		s.form.Saving = false
		s.formB.Publish(s.form)
		return nil, err
	}

	s.metrics.ListingsSavedTotal.Inc()
	s.form = FormState{Saved: true}
	s.formB.Publish(s.form)
	return &saved, nil
}

func (s *ListingService) addLocked(ctx context.Context, latitude, longitude float64) (entity.Listing, error) {
	listings, err := s.catalog.All(ctx)
	if err != nil {
		return entity.Listing{}, fmt.Errorf("failed to load listings for id allocation: %w", err)
	}

	listing := entity.Listing{
		ID:         entity.NextListingID(listings),
		Address:    s.form.Address,
		Price:      s.form.Price,
		Details:    s.form.Details,
		ImageURI:   *s.form.ImageURI,
		Latitude:   latitude,
		Longitude:  longitude,
		IsFavorite: false,
	}
	if err := s.catalog.Insert(ctx, listing); err != nil {
		return entity.Listing{}, fmt.Errorf("failed to add listing: %w", err)
	}
	return listing, nil
}

func (s *ListingService) updateLocked(ctx context.Context, id int64, latitude, longitude float64) (entity.Listing, error) {
	existing, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Save: listing %d no longer exists, nothing saved", id)
			return entity.Listing{ID: id}, nil
		}
		return entity.Listing{}, fmt.Errorf("failed to load listing %d for editing: %w", id, err)
	}

	existing.ApplyEdit(s.form.Address, s.form.Price, s.form.Details, *s.form.ImageURI, latitude, longitude)
	if err := s.catalog.Update(ctx, *existing); err != nil {
		return entity.Listing{}, fmt.Errorf("failed to update listing %d: %w", id, err)
	}
	return *existing, nil
}

func (s *ListingService) setField(apply func(*FormState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.form)
	s.recomputeCanSubmitLocked()
	s.formB.Publish(s.form)
}

func (s *ListingService) recomputeCanSubmitLocked() {
	f := &s.form
	f.CanSubmit = strings.TrimSpace(f.Address) != "" &&
		strings.TrimSpace(f.Price) != "" &&
		strings.TrimSpace(f.Details) != "" &&
		strings.TrimSpace(f.Latitude) != "" &&
		strings.TrimSpace(f.Longitude) != "" &&
		f.ImageURI != nil
}

func parseCoordinate(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0.0
	}
	return v
}
