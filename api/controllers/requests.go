package controllers

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
)

// bookingTarget names what a draft is priced against. Custom trips may
// carry an optional destination.
type bookingTarget struct {
	Type          string `json:"type" validate:"required,oneof=package destination custom"`
	PackageID     string `json:"packageId" validate:"required_if=Type package,omitempty,uuid"`
	DestinationID string `json:"destinationId" validate:"required_if=Type destination,omitempty,uuid"`
}

func (t bookingTarget) resolve() (enums.BookingType, uuid.UUID, error) {
	kind, err := enums.ParseBookingType(t.Type)
	if err != nil {
		return "", uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking type")
	}
	raw := t.DestinationID
	if kind == enums.BookingTypePackage {
		raw = t.PackageID
	}
	if raw == "" {
		return kind, uuid.Nil, nil
	}
	ref, err := uuid.Parse(raw)
	if err != nil {
		return "", uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid catalog reference")
	}
	return kind, ref, nil
}
