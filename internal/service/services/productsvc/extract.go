package productsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/warungnusantara/storefront/internal/service/models/product"
)

var ErrInvalidExtraction = errors.New("model returned an invalid product")

const extractionPrompt = `Analyze this food image and return the result as pure JSON with no extra text.
Format:
{
  "name": string,
  "description": string,
  "price": number,
  "category": "food"
}

Price guidance (IDR):
- simple dishes: 8000-15000
- traditional dishes: 15000-35000
- premium dishes: 35000-60000`

var codeFenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ExtractProduct uploads the image, asks the model to describe it and
// returns a validated product draft for the admin to review.
func (s *ProductService) ExtractProduct(
	ctx context.Context,
	mimeType string,
	image []byte,
) (*product.Extraction, error) {
	imageURL, err := s.images.Upload(ctx, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}

	raw, err := s.describer.DescribeImage(ctx, mimeType, image, extractionPrompt)
	if err != nil {
		return nil, err
	}

	extraction, err := parseExtraction(raw)
	if err != nil {
		return nil, err
	}
	extraction.ImageURL = imageURL

	return extraction, nil
}

// parseExtraction strips an optional markdown code fence and decodes the
// model output into a product draft.
func parseExtraction(raw string) (*product.Extraction, error) {
	clean := strings.TrimSpace(raw)
	if match := codeFenceRe.FindStringSubmatch(clean); match != nil {
		clean = match[1]
	}

	var extraction product.Extraction
	if err := json.Unmarshal([]byte(clean), &extraction); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtraction, err)
	}

	if extraction.Name == "" || extraction.Price <= 0 || extraction.Category != "food" {
		return nil, fmt.Errorf("%w: missing name, price or category", ErrInvalidExtraction)
	}

	return &extraction, nil
}
