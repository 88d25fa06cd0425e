package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gymstack/internal/common"
	"gymstack/internal/services"

	"github.com/labstack/echo/v4"
)

// SupplementHandlers handles the supplement shop catalog
type SupplementHandlers struct {
	supplementSvc services.SupplementService
}

func NewSupplementHandlers(supplementSvc services.SupplementService) *SupplementHandlers {
	return &SupplementHandlers{supplementSvc: supplementSvc}
}

// ListSupplements returns the supplement catalog (public)
func (h *SupplementHandlers) ListSupplements(c echo.Context) error {
	supplements, err := h.supplementSvc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list supplements")
	}
	return c.JSON(http.StatusOK, supplements)
}

// GetSupplement returns one supplement by ID (public)
func (h *SupplementHandlers) GetSupplement(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "supplement ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	supplement, err := h.supplementSvc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSupplementNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Supplement not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load supplement")
	}
	return c.JSON(http.StatusOK, supplement)
}

// GetSupplementImage streams the supplement's image (public)
func (h *SupplementHandlers) GetSupplementImage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "supplement ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reader, err := h.supplementSvc.StreamImage(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSupplementNotFound), errors.Is(err, services.ErrImageMissing):
			return echo.NewHTTPError(http.StatusNotFound, "Image not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load image")
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, "image/*", reader)
}

// CreateSupplement creates a supplement from a multipart form (admin)
func (h *SupplementHandlers) CreateSupplement(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.FormValue("name")
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
	}
	if err := common.ValidatePositiveFloat(price, "price", 1_000_000); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var description *string
	if desc := c.FormValue("description"); desc != "" {
		description = &desc
	}

	supplement, err := h.supplementSvc.Create(ctx, name, description, price)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create supplement")
	}

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxImageSize {
			return echo.NewHTTPError(http.StatusBadRequest, "Image exceeds 5MB limit")
		}
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
		}
		defer src.Close()
		if err := h.supplementSvc.UploadImage(ctx, supplement.ID, src, file.Size, file.Header.Get("Content-Type")); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
		}
	}

	return c.JSON(http.StatusCreated, supplement)
}

// UpdateSupplement patches supplement fields, optionally replacing the image (admin)
func (h *SupplementHandlers) UpdateSupplement(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := common.ValidateUUID(c.Param("id"), "supplement ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var name, description *string
	var price *float64
	if v := c.FormValue("name"); v != "" {
		name = &v
	}
	if v := c.FormValue("description"); v != "" {
		description = &v
	}
	if v := c.FormValue("price"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
		}
		if err := common.ValidatePositiveFloat(parsed, "price", 1_000_000); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		price = &parsed
	}

	supplement, err := h.supplementSvc.Update(ctx, id, name, description, price)
	if err != nil {
		if errors.Is(err, services.ErrSupplementNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Supplement not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update supplement")
	}

	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxImageSize {
			return echo.NewHTTPError(http.StatusBadRequest, "Image exceeds 5MB limit")
		}
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image")
		}
		defer src.Close()
		if err := h.supplementSvc.UploadImage(ctx, id, src, file.Size, file.Header.Get("Content-Type")); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image")
		}
	}

	return c.JSON(http.StatusOK, supplement)
}

// DeleteSupplement removes a supplement and its stored image (admin)
func (h *SupplementHandlers) DeleteSupplement(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "supplement ID")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.supplementSvc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, services.ErrSupplementNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Supplement not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete supplement")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Supplement deleted successfully",
	})
}
