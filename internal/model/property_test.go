package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProperty() *Property {
	landType := LandTypeResidential
	size := 0.25
	return &Property{
		Title:        "Prime Plot in Ruiru",
		PropertyType: PropertyTypeLand,
		LandType:     &landType,
		Price:        1500000,
		SizeAcres:    &size,
		City:         "Ruiru",
		State:        "Kiambu",
	}
}

func TestValidateAcceptsCompleteListing(t *testing.T) {
	assert.NoError(t, validProperty().Validate())
}

func TestValidateRequiresLandTypeForLand(t *testing.T) {
	p := validProperty()
	p.LandType = nil

	err := p.Validate()
	require.ErrorIs(t, err, ErrValidation)

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "land_type")
}

func TestValidateLandTypeOptionalForNonLand(t *testing.T) {
	p := validProperty()
	p.PropertyType = PropertyTypeRental
	p.LandType = nil

	assert.NoError(t, p.Validate())
}

func TestValidateRejectsNonPositivePrice(t *testing.T) {
	p := validProperty()
	p.Price = 0

	var fieldErrs FieldErrors
	require.ErrorAs(t, p.Validate(), &fieldErrs)
	assert.Contains(t, fieldErrs, "price")
}

func TestValidateRejectsNonPositiveSize(t *testing.T) {
	p := validProperty()
	zero := 0.0
	p.SizeAcres = &zero

	var fieldErrs FieldErrors
	require.ErrorAs(t, p.Validate(), &fieldErrs)
	assert.Contains(t, fieldErrs, "size_acres")
}

func TestValidateSizeIsOptional(t *testing.T) {
	p := validProperty()
	p.SizeAcres = nil

	assert.NoError(t, p.Validate())
}

func TestLandmarksList(t *testing.T) {
	p := validProperty()
	p.Landmarks = "Thika Road, , Ruiru Rainbow Resort ,Kamakis"

	assert.Equal(t, []string{"Thika Road", "Ruiru Rainbow Resort", "Kamakis"}, p.LandmarksList())

	p.Landmarks = ""
	assert.Empty(t, p.LandmarksList())
}

func TestPriceDisplay(t *testing.T) {
	p := validProperty()
	assert.Equal(t, "Ksh 1500000", p.PriceDisplay())

	p.PricePerUnit = "per acre"
	assert.Equal(t, "Ksh 1500000 per acre", p.PriceDisplay())
}

func TestLocationDisplay(t *testing.T) {
	assert.Equal(t, "Ruiru, Kiambu", validProperty().LocationDisplay())
}

func TestIsLandProperty(t *testing.T) {
	p := validProperty()
	assert.True(t, p.IsLandProperty())

	p.PropertyType = PropertyTypeApartment
	assert.False(t, p.IsLandProperty())
}
