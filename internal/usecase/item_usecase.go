package usecase

import (
	"context"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"campusfound/internal/domain/entity"
	"campusfound/internal/domain/repository"
	"campusfound/internal/domain/service"
	"campusfound/internal/infrastructure/viewcache"
	"campusfound/pkg/errors"
	"campusfound/pkg/logger"
)

const maxPhotoSize = 5 * 1024 * 1024

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

var minLastSeenDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

type ItemUseCase struct {
	itemRepo    repository.ItemRepository
	fileService service.FileUploadService
	viewCache   *viewcache.Cache
}

func NewItemUseCase(
	itemRepo repository.ItemRepository,
	fileService service.FileUploadService,
	viewCache *viewcache.Cache,
) *ItemUseCase {
	return &ItemUseCase{
		itemRepo:    itemRepo,
		fileService: fileService,
		viewCache:   viewCache,
	}
}

type SubmitFoundItemInput struct {
	Description   string
	LocationFound string
	ContactInfo   string
}

type PostLostItemInput struct {
	Description      string
	LastSeenLocation string
	LastSeenDate     time.Time
	ContactInfo      string
}

// PhotoUpload carries an optional photo attached to a found item submission.
type PhotoUpload struct {
	File     io.Reader
	Filename string
	FileType string
	Size     int64
}

func (uc *ItemUseCase) SubmitFoundItem(ctx context.Context, input SubmitFoundItemInput, photo *PhotoUpload) (*entity.FoundItem, error) {
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateLocation(input.LocationFound); err != nil {
		return nil, err
	}
	if err := validateContactInfo(input.ContactInfo); err != nil {
		return nil, err
	}
	if err := validatePhoto(photo); err != nil {
		return nil, err
	}

	item := &entity.FoundItem{
		ItemBase: entity.ItemBase{
			Description: input.Description,
			ContactInfo: input.ContactInfo,
			Tags:        []string{},
			Categories:  []string{},
		},
		LocationFound: input.LocationFound,
	}

	// Upload first: a failed upload aborts the whole submission so no
	// document ever references a missing photo.
	if photo != nil {
		result, err := uc.fileService.UploadItemPhoto(ctx, photo.File, photo.FileType, photo.Filename)
		if err != nil {
			logger.Error("Photo upload failed: %v", err)
			return nil, errors.Internal("Failed to upload photo", err)
		}
		item.ImageURL = result.URL
		item.ImageFileName = result.ObjectName
	}

	if err := uc.itemRepo.CreateFound(ctx, item); err != nil {
		// The uploaded object is orphaned here; logged, not compensated.
		if item.ImageFileName != "" {
			logger.Warn("Found item write failed after photo upload, orphaned object: %s", item.ImageFileName)
		}
		return nil, err
	}

	uc.invalidateViews()
	logger.Info("Found item %s submitted", item.ID)

	return item, nil
}

func (uc *ItemUseCase) PostLostItem(ctx context.Context, input PostLostItemInput) (*entity.LostItem, error) {
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateLocation(input.LastSeenLocation); err != nil {
		return nil, err
	}
	if err := validateContactInfo(input.ContactInfo); err != nil {
		return nil, err
	}
	if err := validateLastSeenDate(input.LastSeenDate); err != nil {
		return nil, err
	}

	item := &entity.LostItem{
		ItemBase: entity.ItemBase{
			Description: input.Description,
			ContactInfo: input.ContactInfo,
			Tags:        []string{},
			Categories:  []string{},
		},
		LastSeenLocation: input.LastSeenLocation,
		LastSeenDate:     input.LastSeenDate,
	}

	if err := uc.itemRepo.CreateLost(ctx, item); err != nil {
		return nil, err
	}

	uc.invalidateViews()
	logger.Info("Lost item %s posted", item.ID)

	return item, nil
}

func (uc *ItemUseCase) ListItems(ctx context.Context, col entity.Collection, searchTerm, category string) ([]entity.Item, error) {
	items, err := uc.listAll(ctx, col)
	if err != nil {
		return nil, err
	}
	return Filter(items, searchTerm, category), nil
}

func (uc *ItemUseCase) GetItem(ctx context.Context, col entity.Collection, id string) (entity.Item, error) {
	return uc.itemRepo.GetByID(ctx, col, id)
}

func (uc *ItemUseCase) ResolveItem(ctx context.Context, col entity.Collection, id string) error {
	if err := uc.itemRepo.Resolve(ctx, col, id); err != nil {
		return err
	}

	uc.invalidateViews()
	logger.Info("Item %s in %s marked as resolved", id, col)
	return nil
}

func (uc *ItemUseCase) ReportItem(ctx context.Context, col entity.Collection, id, reason string) error {
	// Empty reason is a local failure; the store is never contacted.
	if strings.TrimSpace(reason) == "" {
		return errors.BadRequest("Report reason is required", nil)
	}

	if err := uc.itemRepo.Report(ctx, col, id, reason); err != nil {
		return err
	}

	uc.invalidateViews()
	logger.Info("Item %s in %s reported for: %s", id, col, reason)
	return nil
}

// listAll serves the unfiltered ordered list from the view cache when fresh;
// writes invalidate the cache so navigations after a mutation see new data.
func (uc *ItemUseCase) listAll(ctx context.Context, col entity.Collection) ([]entity.Item, error) {
	key := "list:" + string(col)
	if cached, ok := uc.viewCache.Get(key); ok {
		return cached.([]entity.Item), nil
	}

	items, err := uc.itemRepo.List(ctx, col)
	if err != nil {
		return nil, err
	}

	uc.viewCache.Set(key, items)
	return items, nil
}

func (uc *ItemUseCase) invalidateViews() {
	uc.viewCache.Invalidate(
		"dashboard",
		"list:"+string(entity.CollectionFoundItems),
		"list:"+string(entity.CollectionLostItems),
	)
}

func validateDescription(description string) error {
	length := utf8.RuneCountInString(description)
	if length < 10 {
		return errors.BadRequest("Description must be at least 10 characters long", nil)
	}
	if length > 500 {
		return errors.BadRequest("Description must be 500 characters or less", nil)
	}
	return nil
}

func validateLocation(location string) error {
	length := utf8.RuneCountInString(location)
	if length < 3 {
		return errors.BadRequest("Location must be at least 3 characters long", nil)
	}
	if length > 100 {
		return errors.BadRequest("Location must be 100 characters or less", nil)
	}
	return nil
}

func validateContactInfo(contactInfo string) error {
	length := utf8.RuneCountInString(contactInfo)
	if length < 5 {
		return errors.BadRequest("Contact info must be at least 5 characters long", nil)
	}
	if length > 100 {
		return errors.BadRequest("Contact info must be 100 characters or less", nil)
	}
	return nil
}

func validateLastSeenDate(date time.Time) error {
	if date.IsZero() {
		return errors.BadRequest("Please select a date", nil)
	}
	if date.Before(minLastSeenDate) {
		return errors.BadRequest("Date must not be before 2000-01-01", nil)
	}
	if date.After(time.Now()) {
		return errors.BadRequest("Date must not be in the future", nil)
	}
	return nil
}

func validatePhoto(photo *PhotoUpload) error {
	if photo == nil {
		return nil
	}
	if photo.Size > maxPhotoSize {
		return errors.BadRequest("Max image size is 5MB", nil)
	}
	if !allowedPhotoTypes[photo.FileType] {
		return errors.BadRequest("Only .jpg, .jpeg, .png and .webp formats are supported", nil)
	}
	return nil
}
