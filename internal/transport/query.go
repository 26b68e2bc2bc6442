package transport

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"marketplace-geo/internal/middleware"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// proximityParams are the query parameters shared by discovery endpoints
type proximityParams struct {
	Lat      *float64 `query:"lat" validate:"required,latitude"`
	Lng      *float64 `query:"lng" validate:"required,longitude"`
	RadiusKm *float64 `query:"radius_km"`
}

type offersParams struct {
	proximityParams
	CategoryID *uuid.UUID       `query:"category_id"`
	Subtotal   *decimal.Decimal `query:"subtotal"`
}

// queryParser collects type errors so they are reported together with
// validator errors.
type queryParser struct {
	values url.Values
	errs   []middleware.ValidationError
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{values: r.URL.Query()}
}

func (p *queryParser) raw(name string) (string, bool) {
	v := strings.TrimSpace(p.values.Get(name))
	return v, v != ""
}

func (p *queryParser) fail(name, message string) {
	p.errs = append(p.errs, middleware.ValidationError{Field: name, Message: message})
}

func (p *queryParser) float(name string) *float64 {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(name, "Must be a number")
		return nil
	}
	return &f
}

func (p *queryParser) uuid(name string) *uuid.UUID {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		p.fail(name, "Must be a valid UUID")
		return nil
	}
	return &id
}

func (p *queryParser) decimal(name string) *decimal.Decimal {
	v, ok := p.raw(name)
	if !ok {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		p.fail(name, "Must be a decimal number")
		return nil
	}
	if d.IsNegative() {
		p.fail(name, "Value must be greater than or equal to 0")
		return nil
	}
	return &d
}

// validate runs struct validation and merges its errors with parse errors
func (p *queryParser) validate(v interface{}) []middleware.ValidationError {
	errs := p.errs
	if err := middleware.ValidateRequest(v); err != nil {
		for _, ve := range middleware.FormatValidationErrors(err) {
			if !p.failed(ve.Field) {
				errs = append(errs, ve)
			}
		}
	}
	return errs
}

func (p *queryParser) failed(name string) bool {
	for _, e := range p.errs {
		if e.Field == name {
			return true
		}
	}
	return false
}

func parseProximity(p *queryParser) proximityParams {
	return proximityParams{
		Lat:      p.float("lat"),
		Lng:      p.float("lng"),
		RadiusKm: p.float("radius_km"),
	}
}
