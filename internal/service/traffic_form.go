package service

import (
	"strconv"
	"strings"

	"harbor-control/internal/dto"
	"harbor-control/internal/model"
	pkgerrors "harbor-control/pkg/errors"
)

const msgPassengersMinimum = "Ensure this value is greater than or equal to 1."

// cleanTrafficForm validates the fields that do not depend on the linked
// boat. The copied boat fields may stay blank here; they are completed from
// the boat and checked by completeFromBoat.
func cleanTrafficForm(f *dto.TrafficForm, v *pkgerrors.ValidationError) (*model.TrafficEntry, *uint) {
	form := f.Trimmed()
	dto.AddFieldErrors(v, dto.Validate(&form))
	if v.Has("boat_id") {
		v.Fields["boat_id"] = []string{msgUnknownBoat}
	}

	entry := &model.TrafficEntry{
		Name:     form.Name,
		Berth:    form.Berth,
		Purpose:  form.Purpose,
		Comments: form.Comments,
	}
	entry.BoatType, _ = model.ParseBoatType(form.BoatType)
	entry.Direction, _ = model.ParseDirection(form.Direction)
	entry.TrDate = parseDateInput(form.TrDate)
	entry.TrTime = clockInput(form.TrTime)
	entry.ExpectedReturnDate = parseDateInput(form.Edr)
	entry.ExpectedReturnTime = clockInput(form.Etr)

	if n, err := strconv.Atoi(form.Passengers.String()); err == nil && !v.Has("passengers") {
		entry.Passengers = &n
	}

	var boatID *uint
	if id, err := strconv.ParseUint(form.BoatID.String(), 10, 64); err == nil && !v.Has("boat_id") {
		u := uint(id)
		boatID = &u
	}
	return entry, boatID
}

// completeFromBoat fills blank copies from the linked boat, then requires
// name and type.
func completeFromBoat(entry *model.TrafficEntry, boat *model.Boat, v *pkgerrors.ValidationError) {
	if boat != nil {
		if entry.Name == "" {
			entry.Name = boat.Name
		}
		if entry.Berth == "" {
			entry.Berth = boat.Berth
		}
		if entry.BoatType == 0 && !v.Has("boat_type") {
			entry.BoatType = boat.BoatType
		}
	}
	if entry.Name == "" {
		v.Add("name", msgRequired)
	}
	if !entry.BoatType.Valid() && !v.Has("boat_type") {
		v.Add("boat_type", msgRequired)
	}
}

// clockInput a validated time input as HH:MM; nil when blank.
func clockInput(raw string) *string {
	t, ok := dto.ParseClock(raw)
	if !ok {
		return nil
	}
	out := t.Format(model.ClockLayout)
	return &out
}

// displayWhen date and time as shown in the traffic log, either part optional.
func displayWhen(e *model.TrafficEntry) string {
	var parts []string
	if e.TrDate != nil {
		parts = append(parts, e.TrDate.Format(model.LabelDateLayout))
	}
	if e.TrTime != nil {
		parts = append(parts, *e.TrTime)
	}
	return strings.Join(parts, " ")
}
