package service

import (
	"time"

	"harbor-control/internal/dto"
	"harbor-control/internal/model"
	pkgerrors "harbor-control/pkg/errors"
)

const (
	msgRequired        = dto.MsgRequired
	msgInvalidChoice   = dto.MsgInvalidChoice
	msgCheckInRequired = "Please select a check-in date."
	msgCheckOutOrder   = "Check-out date must be later than check-in date."
	msgUnknownBoat     = "Select a valid boat."
)

// dateInputLayout what an HTML date input submits.
const dateInputLayout = model.DayLayout

// cleanBoatForm validates f and returns the boat it describes, with check-in
// and check-out resolved to their stored labels.
//
// Field rules come from the form's binding tags. The booking rules that
// involve more than one field are checked here.
func cleanBoatForm(f *dto.BoatForm) (*model.Boat, error) {
	form := f.Trimmed()
	booking, _ := model.ParseBookingType(form.BookingType)
	if booking != model.BookingDailyMonthly {
		// sentinel bookings ignore whatever dates were submitted
		form.CheckIn, form.CheckOut = "", ""
	}

	v := pkgerrors.NewValidationError()
	dto.AddFieldErrors(v, dto.Validate(&form))

	boat := &model.Boat{Name: form.Name, Berth: form.Berth}
	boat.BoatType, _ = model.ParseBoatType(form.BoatType)
	boat.State, _ = model.ParseState(form.State)

	switch booking {
	case model.BookingYearly:
		boat.CheckIn, boat.CheckOut = model.LabelYearly, model.LabelYearly
	case model.BookingGuest:
		boat.CheckIn, boat.CheckOut = model.LabelGuest, model.LabelGuest
	case model.BookingDailyMonthly:
		if v.Has("check_in") || v.Has("check_out") {
			break
		}
		checkIn, checkOut := parseDateInput(form.CheckIn), parseDateInput(form.CheckOut)
		switch {
		case checkIn == nil:
			v.Add(pkgerrors.NonFieldKey, msgCheckInRequired)
		case checkOut == nil:
			boat.CheckIn, boat.CheckOut = checkIn.Format(model.LabelDateLayout), model.LabelUnknown
		case !checkOut.After(*checkIn):
			v.Add(pkgerrors.NonFieldKey, msgCheckOutOrder)
		default:
			boat.CheckIn = checkIn.Format(model.LabelDateLayout)
			boat.CheckOut = checkOut.Format(model.LabelDateLayout)
		}
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return boat, nil
}

// FormFromBoat pre-fills an edit form from a stored boat.
func FormFromBoat(b *dto.BoatResponse) dto.BoatForm {
	f := dto.BoatForm{
		BoatType: b.BoatType,
		Name:     b.Name,
		Berth:    b.Berth,
		State:    b.State,
	}
	switch b.CheckIn {
	case model.LabelYearly:
		f.BookingType = model.BookingYearly.String()
	case model.LabelGuest:
		f.BookingType = model.BookingGuest.String()
	default:
		f.BookingType = model.BookingDailyMonthly.String()
		f.CheckIn = labelToDateInput(b.CheckIn)
		f.CheckOut = labelToDateInput(b.CheckOut)
	}
	return f
}

func labelToDateInput(label string) string {
	t, err := time.Parse(model.LabelDateLayout, label)
	if err != nil {
		return ""
	}
	return t.Format(dateInputLayout)
}

// parseDateInput a validated YYYY-MM-DD input; nil when blank.
func parseDateInput(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateInputLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}
