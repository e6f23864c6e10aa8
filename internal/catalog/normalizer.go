// internal/catalog/normalizer.go
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/providers"
)

// ErrMalformedRecord marks a raw provider record that cannot be converted.
// The aggregator isolates these per record so one bad record never fails a
// whole catalog fetch.
var ErrMalformedRecord = errors.New("malformed provider record")

// centsToMajor converts integer minor units to major currency units. Each
// normalizer applies it exactly once; nothing downstream converts again.
func centsToMajor(cents int64) float64 {
	return float64(cents) / 100
}

// axisID derives a stable variant-axis id from the axis name so repeated
// fetches of the same catalog produce identical ids.
func axisID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// dedupeImages drops repeated URLs while preserving first-seen order, which
// defines primary display order for gallery consumers.
func dedupeImages(images []models.ProductImage) []models.ProductImage {
	seen := make(map[string]bool, len(images))
	out := make([]models.ProductImage, 0, len(images))
	for _, img := range images {
		if img.URL == "" || seen[img.URL] {
			continue
		}
		seen[img.URL] = true
		out = append(out, img)
	}
	return out
}

// availableByDefault implements the availability policy: an absent flag means
// available, only an explicit false disables.
func availableByDefault(flag *bool) bool {
	return flag == nil || *flag
}

// NormalizeGumroad converts a raw Gumroad record into the unified Product.
// Gumroad reports prices in cents.
func NormalizeGumroad(raw providers.GumroadProduct) (models.Product, error) {
	if raw.ID == "" {
		return models.Product{}, fmt.Errorf("%w: gumroad product without id", ErrMalformedRecord)
	}
	if raw.Price < 0 {
		return models.Product{}, fmt.Errorf("%w: gumroad product %s has negative price", ErrMalformedRecord, raw.ID)
	}

	basePrice := centsToMajor(raw.Price)

	// Image precedence: thumbnail over preview. Gumroad has no raw images
	// array beyond these two fields.
	var images []models.ProductImage
	if raw.ThumbnailURL != "" {
		images = append(images, models.ProductImage{URL: raw.ThumbnailURL, AltText: raw.Name})
	}
	if raw.PreviewURL != "" {
		images = append(images, models.ProductImage{URL: raw.PreviewURL, AltText: raw.Name})
	}

	var variants []models.ProductVariant
	var details []models.VariantDetail
	for _, axis := range raw.Variants {
		if axis.Title == "" || len(axis.Options) == 0 {
			continue
		}
		id := axisID(axis.Title)
		variant := models.ProductVariant{ID: id, Name: axis.Title}
		for _, opt := range axis.Options {
			variant.Options = append(variant.Options, opt.Name)
			details = append(details, models.VariantDetail{
				ID:      id + ":" + axisID(opt.Name),
				Options: map[string]string{axis.Title: opt.Name},
				Price:   basePrice + centsToMajor(opt.PriceDifference),
			})
		}
		variants = append(variants, variant)
	}

	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}

	return models.Product{
		ID:             models.BuildProductID(models.ProviderGumroad, raw.ID),
		Source:         models.ProviderGumroad,
		Name:           raw.Name,
		Description:    raw.Description,
		Price:          basePrice,
		Images:         dedupeImages(images),
		Variants:       variants,
		VariantDetails: details,
		Tags:           tags,
		Available:      availableByDefault(raw.Published),
		PurchaseURL:    raw.ShortURL,
	}, nil
}

// NormalizePrintify converts a raw Printify record into the unified Product.
// Printify reports variant prices in cents and has no direct-redirect
// checkout, so PurchaseURL stays empty unless the product is published to an
// external storefront.
func NormalizePrintify(raw providers.PrintifyProduct) (models.Product, error) {
	if raw.ID == "" {
		return models.Product{}, fmt.Errorf("%w: printify product without id", ErrMalformedRecord)
	}

	// Axis value lookup for resolving a variant's option id list.
	valueTitles := make(map[int64]string)
	valueAxes := make(map[int64]string)
	var variants []models.ProductVariant
	for _, opt := range raw.Options {
		if opt.Name == "" || len(opt.Values) == 0 {
			continue
		}
		variant := models.ProductVariant{ID: axisID(opt.Name), Name: opt.Name}
		for _, v := range opt.Values {
			variant.Options = append(variant.Options, v.Title)
			valueTitles[v.ID] = v.Title
			valueAxes[v.ID] = opt.Name
		}
		variants = append(variants, variant)
	}

	var details []models.VariantDetail
	basePrice := float64(-1)
	for _, v := range raw.Variants {
		if v.Price < 0 {
			return models.Product{}, fmt.Errorf("%w: printify variant %d has negative price", ErrMalformedRecord, v.ID)
		}
		if !availableByDefault(v.IsEnabled) {
			continue
		}
		price := centsToMajor(v.Price)
		if basePrice < 0 {
			basePrice = price
		}
		options := make(map[string]string, len(v.Options))
		for _, valueID := range v.Options {
			if axis, ok := valueAxes[valueID]; ok {
				options[axis] = valueTitles[valueID]
			}
		}
		nativeID := strconv.FormatInt(v.ID, 10)
		details = append(details, models.VariantDetail{
			ID:       nativeID,
			NativeID: nativeID,
			Options:  options,
			Price:    price,
		})
	}
	if basePrice < 0 {
		basePrice = 0
	}

	// Default image first, remaining in raw order.
	var images []models.ProductImage
	for _, img := range raw.Images {
		if img.IsDefault {
			images = append(images, models.ProductImage{URL: img.Src, AltText: raw.Title})
		}
	}
	for _, img := range raw.Images {
		if !img.IsDefault {
			images = append(images, models.ProductImage{URL: img.Src, AltText: raw.Title})
		}
	}

	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}

	var purchaseURL string
	if raw.External != nil {
		purchaseURL = raw.External.Handle
	}

	return models.Product{
		ID:             models.BuildProductID(models.ProviderPrintify, raw.ID),
		Source:         models.ProviderPrintify,
		Name:           raw.Title,
		Description:    raw.Description,
		Price:          basePrice,
		Images:         dedupeImages(images),
		Variants:       variants,
		VariantDetails: details,
		Tags:           tags,
		Available:      availableByDefault(raw.Visible),
		PurchaseURL:    purchaseURL,
	}, nil
}
