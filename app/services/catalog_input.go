package services

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/expertwinding/storefront/app/helpers"
	"github.com/expertwinding/storefront/app/models"
	"github.com/go-playground/validator/v10"
)

// Authorization is the caller's admin status as established by the HTTP
// layer's session check. Every mutation requires IsAdmin.
type Authorization struct {
	IsAdmin bool
}

func AdminAuthorization() Authorization {
	return Authorization{IsAdmin: true}
}

func (a Authorization) require() error {
	if !a.IsAdmin {
		return models.ErrUnauthorized
	}
	return nil
}

type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProductInput carries raw form values. A nil field means the field was
// not submitted at all, which differs from an empty submission for
// Description.
type ProductInput struct {
	Name        *string      `form:"name" validate:"omitempty,max=200"`
	Description *string      `form:"description"`
	Price       *string      `form:"price"`
	CategoryID  *string      `form:"category"`
	Sku         *string      `form:"sku" validate:"omitempty,max=80"`
	Stock       *string      `form:"stock"`
	Unit        *string      `form:"unit" validate:"omitempty,max=40"`
	Specs       *string      `form:"specs"`
	Image       *ImageUpload `validate:"-"`
}

type CategoryInput struct {
	Name string `form:"name" validate:"required,max=120"`
}

func (in ProductInput) hasImage() bool {
	return in.Image != nil && in.Image.Filename != "" && in.Image.Content != nil
}

type parsedProduct struct {
	name        string
	description *string
	price       *float64
	categoryID  *uint
	sku         *string
	stock       *int
	unit        *string
	specs       *string
}

func parseProductInput(v *validator.Validate, in ProductInput) (*parsedProduct, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	// Blank optional fields count as absent.
	in.Price = nonEmpty(in.Price)
	in.CategoryID = nonEmpty(in.CategoryID)
	in.Stock = nonEmpty(in.Stock)
	in.Sku = nonEmpty(in.Sku)
	in.Unit = nonEmpty(in.Unit)
	in.Specs = nonEmpty(in.Specs)

	fieldErrors := map[string]string{}
	if err := v.Struct(&in); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, err
		}
		fieldErrors = helpers.FormatValidationErrors(validationErrors)
	}

	out := &parsedProduct{
		description: in.Description,
		sku:         in.Sku,
		unit:        in.Unit,
		specs:       in.Specs,
	}
	if in.Name != nil {
		out.name = *in.Name
	}

	if in.Price != nil {
		price, err := strconv.ParseFloat(*in.Price, 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			fieldErrors["price"] = "Price must be a number."
		} else {
			out.price = &price
		}
	}
	if in.CategoryID != nil {
		id, err := strconv.ParseUint(*in.CategoryID, 10, 0)
		if err != nil {
			fieldErrors["category"] = "Category must be a valid id."
		} else {
			categoryID := uint(id)
			out.categoryID = &categoryID
		}
	}
	if in.Stock != nil {
		stock, err := strconv.Atoi(*in.Stock)
		if err != nil {
			fieldErrors["stock"] = "Stock must be a whole number."
		} else {
			out.stock = &stock
		}
	}
	if len(fieldErrors) > 0 {
		return nil, &models.ValidationError{Fields: fieldErrors}
	}
	return out, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func toValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return &models.ValidationError{Fields: helpers.FormatValidationErrors(validationErrors)}
	}
	return err
}
