package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
)

const photosField = "photos"

type ListingHandler struct {
	responder
	listings ListingService
	limits   UploadLimits
	metrics  UploadMetrics
}

func NewListingHandler(listings ListingService, limits UploadLimits, metrics UploadMetrics, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		responder: responder{logger: log.Named("ListingHTTPHandler")},
		listings:  listings,
		limits:    limits,
		metrics:   metrics,
	}
}

func (h *ListingHandler) ChooseCategory(w http.ResponseWriter, r *http.Request) {
	view := newView(r, "chooseCategory", "Choose Category")
	view.Data = map[string]any{
		"categories": []string{domain.CategoryCar, domain.CategoryProperty},
	}
	h.render(w, http.StatusOK, view)
}

func (h *ListingHandler) carFormView(r *http.Request) *View {
	view := newView(r, "cars", "Sell Car")
	view.Data = map[string]any{
		"fuelTypes":     []domain.FuelType{domain.FuelPetrol, domain.FuelDiesel, domain.FuelElectric, domain.FuelHybrid},
		"transmissions": []domain.Transmission{domain.TransmissionManual, domain.TransmissionAutomatic},
		"minYear":       domain.MinCarYear,
		"maxYear":       domain.MaxCarYear(time.Now()),
		"maxPhotos":     h.limits.MaxFiles,
		"maxPhotoMB":    h.limits.MaxFileSizeMB,
	}
	return view
}

func (h *ListingHandler) propertyFormView(r *http.Request) *View {
	view := newView(r, "properties", "Sell Property")
	view.Data = map[string]any{
		"furnishings":     []domain.Furnishing{domain.Furnished, domain.SemiFurnished, domain.Unfurnished},
		"projectStatuses": []domain.ProjectStatus{domain.ReadyToMove, domain.UnderConstruction},
		"listedBy":        []domain.ListedBy{domain.ListedByOwner, domain.ListedByBuilder, domain.ListedByAgent},
		"maxPhotos":       h.limits.MaxFiles,
		"maxPhotoMB":      h.limits.MaxFileSizeMB,
	}
	return view
}

func (h *ListingHandler) CarForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.carFormView(r))
}

func (h *ListingHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	view := h.carFormView(r)
	form, err := h.parseListingForm(w, r)
	if err != nil {
		h.formError(w, r, view, err, http.StatusBadRequest)
		return
	}
	view.OldInput = firstValues(form.Values)

	in := usecase.CarForm{
		Brand:        form.Values.Get("brand"),
		Model:        form.Values.Get("model"),
		Year:         form.Values.Get("year"),
		Fuel:         form.Values.Get("fuel"),
		Transmission: form.Values.Get("transmission"),
		KmDriven:     form.Values.Get("kmDriven"),
		AdTitle:      form.Values.Get("adTitle"),
		Price:        form.Values.Get("price"),
		State:        form.Values.Get("state"),
		City:         form.Values.Get("city"),
	}
	user := middleware.CurrentUser(r.Context())
	if _, err := h.listings.CreateCar(r.Context(), user.ID, in, form.Files[photosField]); err != nil {
		h.formError(w, r, view, err, http.StatusBadRequest)
		return
	}
	h.redirect(w, r, "/dashboard")
}

func (h *ListingHandler) PropertyForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.propertyFormView(r))
}

func (h *ListingHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	view := h.propertyFormView(r)
	form, err := h.parseListingForm(w, r)
	if err != nil {
		h.formError(w, r, view, err, http.StatusBadRequest)
		return
	}
	view.OldInput = firstValues(form.Values)

	in := usecase.PropertyForm{
		HouseType:     form.Values.Get("houseType"),
		BHK:           form.Values.Get("bhk"),
		Bathrooms:     form.Values.Get("bathrooms"),
		Furnishing:    form.Values.Get("furnishing"),
		ProjectStatus: form.Values.Get("projectStatus"),
		ListedBy:      form.Values.Get("listedBy"),
		TotalFloors:   form.Values.Get("totalFloors"),
		AdTitle:       form.Values.Get("adTitle"),
		Price:         form.Values.Get("price"),
		State:         form.Values.Get("state"),
		City:          form.Values.Get("city"),
	}
	user := middleware.CurrentUser(r.Context())
	if _, err := h.listings.CreateProperty(r.Context(), user.ID, in, form.Files[photosField]); err != nil {
		h.formError(w, r, view, err, http.StatusBadRequest)
		return
	}
	h.redirect(w, r, "/dashboard")
}

func (h *ListingHandler) CarsOnly(w http.ResponseWriter, r *http.Request) {
	cars, err := h.listings.BrowseCars(r.Context())
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	view := newView(r, "carsmarket", "Cars")
	view.Data = map[string]any{"cars": cars}
	h.render(w, http.StatusOK, view)
}

func (h *ListingHandler) PropertyOnly(w http.ResponseWriter, r *http.Request) {
	properties, err := h.listings.BrowseProperties(r.Context())
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	view := newView(r, "propertiesmarket", "Properties")
	view.Data = map[string]any{"properties": properties}
	h.render(w, http.StatusOK, view)
}

func (h *ListingHandler) CarDetail(w http.ResponseWriter, r *http.Request) {
	car, err := h.listings.CarDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	view := newView(r, "carDetails", car.AdTitle)
	view.Data = map[string]any{"car": car}
	h.render(w, http.StatusOK, view)
}

func (h *ListingHandler) PropertyDetail(w http.ResponseWriter, r *http.Request) {
	property, err := h.listings.PropertyDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, http.StatusBadRequest)
		return
	}
	view := newView(r, "propertyDetails", property.AdTitle)
	view.Data = map[string]any{"property": property}
	h.render(w, http.StatusOK, view)
}

func (h *ListingHandler) parseListingForm(w http.ResponseWriter, r *http.Request) (*multipartForm, error) {
	form, err := parseForm(w, r, h.limits, map[string]int{photosField: h.limits.MaxFiles})
	if err != nil {
		countRejection(h.metrics, err)
		return nil, err
	}
	return form, nil
}

// firstValues flattens form values for echoing back into the view.
func firstValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k := range values {
		if k == "password" {
			continue
		}
		out[k] = values.Get(k)
	}
	return out
}
