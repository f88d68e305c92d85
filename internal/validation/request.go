// Package validation checks client input before it reaches the pipeline.
package validation

import (
	"fmt"
	"strings"

	"github.com/fridgechef/gusteau/internal/errors"
	"github.com/fridgechef/gusteau/internal/services/ai"
	"github.com/fridgechef/gusteau/internal/services/llm"
)

const (
	// MaxImages bounds one detection batch.
	MaxImages = 5
	// MaxImageBytes is the per-photo upload cap.
	MaxImageBytes = 10 << 20
)

// ValidateImages checks a detection batch: between 1 and MaxImages photos,
// none empty, none above the size cap. Media types are not validated here;
// unknown types are coerced to JPEG at the provider boundary.
func ValidateImages(images []llm.ImageAsset) *errors.AppError {
	if len(images) == 0 {
		return errors.NewValidationError(
			"at least one photo is required",
			"NO_IMAGES",
			"Attach between 1 and 5 fridge photos.",
		)
	}
	if len(images) > MaxImages {
		return errors.NewValidationError(
			fmt.Sprintf("too many photos: got %d, maximum is %d", len(images), MaxImages),
			"TOO_MANY_IMAGES",
			"Attach between 1 and 5 fridge photos.",
		)
	}
	for i, image := range images {
		if len(image.Data) == 0 {
			return errors.NewValidationError(
				fmt.Sprintf("photo %d is empty", i+1),
				"EMPTY_IMAGE",
				"Re-upload the photo; the file arrived without content.",
			)
		}
		if len(image.Data) > MaxImageBytes {
			return errors.NewValidationError(
				fmt.Sprintf("photo %d exceeds the %d MB limit", i+1, MaxImageBytes>>20),
				"IMAGE_TOO_LARGE",
				"Resize or recompress the photo below 10 MB.",
			)
		}
	}
	return nil
}

// ValidateRecipeRequest checks the edited ingredient list and preference
// selections. Preferences are matched case-insensitively against the
// selectable vocabularies; an empty cuisine and each locale's "any"
// sentinel both mean no preference and pass.
func ValidateRecipeRequest(req ai.RecipeRequest) *errors.AppError {
	hasIngredient := false
	for _, ing := range req.Ingredients {
		if strings.TrimSpace(ing) != "" {
			hasIngredient = true
			break
		}
	}
	if !hasIngredient {
		return errors.NewValidationError(
			"at least one ingredient is required",
			"NO_INGREDIENTS",
			"Detect ingredients from photos or type them in, then retry.",
		)
	}

	for _, tag := range req.DietaryTags {
		if !containsFold(ai.DietaryOptions, tag) {
			return errors.NewValidationError(
				fmt.Sprintf("unsupported dietary requirement %q", tag),
				"UNSUPPORTED_DIETARY_TAG",
				"Pick dietary requirements from the offered list.",
			)
		}
	}

	if cuisine := strings.TrimSpace(req.Cuisine); cuisine != "" &&
		!isAnyCuisine(cuisine) && !containsFold(ai.CuisineOptions, cuisine) {
		return errors.NewValidationError(
			fmt.Sprintf("unsupported cuisine %q", req.Cuisine),
			"UNSUPPORTED_CUISINE",
			"Pick a cuisine from the offered list.",
		)
	}

	return nil
}

func containsFold(options []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, opt := range options {
		if strings.EqualFold(opt, value) {
			return true
		}
	}
	return false
}

// isAnyCuisine recognizes the "no preference" sentinel of every supported
// locale, not just the request's, so a French client sending "Toutes" with
// an English locale header still passes.
func isAnyCuisine(cuisine string) bool {
	for _, l := range []ai.Locale{ai.LocaleEnglish, ai.LocaleFrench, ai.LocalePolish} {
		if strings.EqualFold(cuisine, l.CuisineAny()) {
			return true
		}
	}
	return false
}
