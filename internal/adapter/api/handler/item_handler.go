package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"campusfound/internal/domain/entity"
	"campusfound/internal/usecase"
	"campusfound/pkg/errors"
	"campusfound/pkg/logger"
	"campusfound/pkg/response"
)

type ItemHandler struct {
	itemUseCase *usecase.ItemUseCase
}

func NewItemHandler(itemUseCase *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{
		itemUseCase: itemUseCase,
	}
}

type submitFoundItemRequest struct {
	Description   string `form:"description" validate:"required,min=10,max=500"`
	LocationFound string `form:"locationFound" validate:"required,min=3,max=100"`
	ContactInfo   string `form:"contactInfo" validate:"required,min=5,max=100"`
}

type postLostItemRequest struct {
	Description      string `json:"description" validate:"required,min=10,max=500"`
	LastSeenLocation string `json:"lastSeenLocation" validate:"required,min=3,max=100"`
	LastSeenDate     string `json:"lastSeenDate" validate:"required"`
	ContactInfo      string `json:"contactInfo" validate:"required,min=5,max=100"`
}

type reportItemRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type itemListResponse struct {
	Items []entity.Item `json:"items"`
}

type submitItemResponse struct {
	Message string      `json:"message"`
	Item    entity.Item `json:"item"`
}

// SubmitFoundItem accepts a multipart form: the item fields plus an
// optional single photo under "photo".
func (h *ItemHandler) SubmitFoundItem(c echo.Context) error {
	var req submitFoundItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid form data", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	var photo *usecase.PhotoUpload
	file, err := c.FormFile("photo")
	if err == nil {
		src, err := file.Open()
		if err != nil {
			logger.Error("Failed to open uploaded photo: %v", err)
			return response.Error(c, errors.Internal("Unable to read photo", err))
		}
		defer src.Close()

		photo = &usecase.PhotoUpload{
			File:     src,
			Filename: file.Filename,
			FileType: file.Header.Get("Content-Type"),
			Size:     file.Size,
		}
	} else if err != http.ErrMissingFile {
		logger.Debug("No photo attached: %v", err)
	}

	item, err := h.itemUseCase.SubmitFoundItem(c.Request().Context(), usecase.SubmitFoundItemInput{
		Description:   req.Description,
		LocationFound: req.LocationFound,
		ContactInfo:   req.ContactInfo,
	}, photo)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, submitItemResponse{
		Message: "Found item submitted successfully!",
		Item:    item,
	})
}

func (h *ItemHandler) PostLostItem(c echo.Context) error {
	var req postLostItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	lastSeenDate, err := time.Parse("2006-01-02", req.LastSeenDate)
	if err != nil {
		return response.Error(c, errors.BadRequest("lastSeenDate must be a date in YYYY-MM-DD format", err))
	}

	item, err := h.itemUseCase.PostLostItem(c.Request().Context(), usecase.PostLostItemInput{
		Description:      req.Description,
		LastSeenLocation: req.LastSeenLocation,
		LastSeenDate:     lastSeenDate,
		ContactInfo:      req.ContactInfo,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, submitItemResponse{
		Message: "Lost item posted successfully!",
		Item:    item,
	})
}

func (h *ItemHandler) ListFoundItems(c echo.Context) error {
	return h.listItems(c, entity.CollectionFoundItems)
}

func (h *ItemHandler) ListLostItems(c echo.Context) error {
	return h.listItems(c, entity.CollectionLostItems)
}

func (h *ItemHandler) listItems(c echo.Context, col entity.Collection) error {
	searchTerm := c.QueryParam("search")
	category := c.QueryParam("category")
	if category == "" {
		category = usecase.CategoryAll
	}

	items, err := h.itemUseCase.ListItems(c.Request().Context(), col, searchTerm, category)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, itemListResponse{Items: items})
}

func (h *ItemHandler) GetFoundItem(c echo.Context) error {
	return h.getItem(c, entity.CollectionFoundItems)
}

func (h *ItemHandler) GetLostItem(c echo.Context) error {
	return h.getItem(c, entity.CollectionLostItems)
}

func (h *ItemHandler) getItem(c echo.Context, col entity.Collection) error {
	item, err := h.itemUseCase.GetItem(c.Request().Context(), col, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, item)
}

func (h *ItemHandler) ResolveItem(c echo.Context) error {
	col, err := entity.ParseCollection(c.Param("collection"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Unknown collection", err))
	}

	if err := h.itemUseCase.ResolveItem(c.Request().Context(), col, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Item status updated successfully.",
	})
}

func (h *ItemHandler) ReportItem(c echo.Context) error {
	col, err := entity.ParseCollection(c.Param("collection"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Unknown collection", err))
	}

	var req reportItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.itemUseCase.ReportItem(c.Request().Context(), col, c.Param("id"), req.Reason); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Item reported. Thank you for your feedback.",
	})
}
