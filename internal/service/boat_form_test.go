package service

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"harbor-control/internal/dto"
	"harbor-control/internal/model"
	pkgerrors "harbor-control/pkg/errors"
)

func validBoatForm(booking string) *dto.BoatForm {
	return &dto.BoatForm{
		BoatType:    "S/Y",
		Name:        "blue moon",
		Berth:       "d4",
		State:       "in",
		BookingType: booking,
	}
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *pkgerrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	return ve.Fields
}

func TestCleanBoatForm_SentinelBookings(t *testing.T) {
	tests := []struct {
		booking string
		want    string
	}{
		{"yearly", model.LabelYearly},
		{"guest", model.LabelGuest},
	}
	for _, tt := range tests {
		t.Run(tt.booking, func(t *testing.T) {
			f := validBoatForm(tt.booking)
			f.CheckIn, f.CheckOut = "2024-05-01", "garbage"

			boat, err := cleanBoatForm(f)
			if err != nil {
				t.Fatalf("form should be valid: %v", err)
			}
			if boat.CheckIn != tt.want || boat.CheckOut != tt.want {
				t.Errorf("expected %s/%s, got %s/%s", tt.want, tt.want, boat.CheckIn, boat.CheckOut)
			}
		})
	}
}

func TestCleanBoatForm_DailyMonthly(t *testing.T) {
	f := validBoatForm("daily_monthly")
	f.CheckIn, f.CheckOut = "2024-05-01", "2024-05-09"

	boat, err := cleanBoatForm(f)
	if err != nil {
		t.Fatalf("form should be valid: %v", err)
	}
	if boat.CheckIn != "2024/05/01" || boat.CheckOut != "2024/05/09" {
		t.Errorf("unexpected labels %s/%s", boat.CheckIn, boat.CheckOut)
	}
	if boat.BoatType != model.BoatTypeSailingYacht || boat.State != model.StateIn {
		t.Errorf("unexpected type/state %v/%v", boat.BoatType, boat.State)
	}
}

func TestCleanBoatForm_DailyMonthly_OpenEnded(t *testing.T) {
	f := validBoatForm("daily_monthly")
	f.CheckIn = "2024-05-01"

	boat, err := cleanBoatForm(f)
	if err != nil {
		t.Fatalf("form should be valid: %v", err)
	}
	if boat.CheckIn != "2024/05/01" || boat.CheckOut != model.LabelUnknown {
		t.Errorf("expected 2024/05/01/Unknown, got %s/%s", boat.CheckIn, boat.CheckOut)
	}
}

func TestCleanBoatForm_DailyMonthly_MissingCheckIn(t *testing.T) {
	_, err := cleanBoatForm(validBoatForm("daily_monthly"))

	fields := fieldErrors(t, err)
	if len(fields[pkgerrors.NonFieldKey]) != 1 || fields[pkgerrors.NonFieldKey][0] != msgCheckInRequired {
		t.Errorf("expected check-in required error, got %v", fields)
	}
}

func TestCleanBoatForm_DailyMonthly_CheckOutNotAfterCheckIn(t *testing.T) {
	for _, out := range []string{"2024-05-01", "2024-04-30"} {
		f := validBoatForm("daily_monthly")
		f.CheckIn, f.CheckOut = "2024-05-01", out

		_, err := cleanBoatForm(f)
		fields := fieldErrors(t, err)
		if len(fields[pkgerrors.NonFieldKey]) != 1 || fields[pkgerrors.NonFieldKey][0] != msgCheckOutOrder {
			t.Errorf("check-out %s: expected ordering error, got %v", out, fields)
		}
	}
}

func TestCleanBoatForm_RequiredAndChoices(t *testing.T) {
	_, err := cleanBoatForm(&dto.BoatForm{BoatType: "SUBMARINE", State: "sunk"})

	fields := fieldErrors(t, err)
	for _, key := range []string{"boat_type", "state", "name", "berth", "booking_type"} {
		if len(fields[key]) == 0 {
			t.Errorf("expected error for %s, got %v", key, fields)
		}
	}
	if fields["boat_type"][0] != msgInvalidChoice {
		t.Errorf("expected invalid choice, got %s", fields["boat_type"][0])
	}
}

func TestCleanBoatForm_InvalidDate(t *testing.T) {
	f := validBoatForm("daily_monthly")
	f.CheckIn = "01/05/2024"

	_, err := cleanBoatForm(f)
	fields := fieldErrors(t, err)
	if len(fields["check_in"]) != 1 {
		t.Errorf("expected check_in error, got %v", fields)
	}
	if len(fields[pkgerrors.NonFieldKey]) != 0 {
		t.Errorf("invalid date should not also report a missing date, got %v", fields)
	}
}

func TestCleanBoatForm_MaxLength(t *testing.T) {
	f := validBoatForm("yearly")
	f.Berth = "berth-number-twenty-one"

	_, err := cleanBoatForm(f)
	fields := fieldErrors(t, err)
	want := "Ensure this value has at most 20 characters (it has 23)."
	if len(fields["berth"]) != 1 || fields["berth"][0] != want {
		t.Errorf("expected %q, got %v", want, fields)
	}
}

func TestCleanBoatForm_BlankAfterTrim(t *testing.T) {
	f := validBoatForm("yearly")
	f.Name = "   "

	_, err := cleanBoatForm(f)
	fields := fieldErrors(t, err)
	if len(fields["name"]) != 1 || fields["name"][0] != msgRequired {
		t.Errorf("expected name required, got %v", fields)
	}
}

func TestCleanBoatForm_FieldAndBookingErrorsTogether(t *testing.T) {
	f := validBoatForm("daily_monthly")
	f.State = "sunk"

	_, err := cleanBoatForm(f)
	fields := fieldErrors(t, err)
	if len(fields["state"]) != 1 || fields["state"][0] != msgInvalidChoice {
		t.Errorf("expected state choice error, got %v", fields)
	}
	if len(fields[pkgerrors.NonFieldKey]) != 1 || fields[pkgerrors.NonFieldKey][0] != msgCheckInRequired {
		t.Errorf("expected check-in required error as well, got %v", fields)
	}
}

func TestFormFromBoat(t *testing.T) {
	f := FormFromBoat(&dto.BoatResponse{BoatType: "M/Y", CheckIn: "2024/05/01", CheckOut: model.LabelUnknown})
	if f.BookingType != "daily_monthly" || f.CheckIn != "2024-05-01" || f.CheckOut != "" {
		t.Errorf("unexpected form %+v", f)
	}

	f = FormFromBoat(&dto.BoatResponse{CheckIn: model.LabelGuest, CheckOut: model.LabelGuest})
	if f.BookingType != "guest" {
		t.Errorf("expected guest, got %s", f.BookingType)
	}
}

func TestFormChoicesMatchEnums(t *testing.T) {
	codes := func(n int, code func(i int) string) string {
		out := make([]string, n)
		for i := range out {
			out[i] = code(i)
		}
		return "oneof=" + strings.Join(out, " ")
	}
	boatTypes := codes(len(model.BoatTypes), func(i int) string { return model.BoatTypes[i].String() })

	tests := []struct {
		form  interface{}
		field string
		want  string
	}{
		{dto.BoatForm{}, "BoatType", boatTypes},
		{dto.BoatForm{}, "State", codes(len(model.States), func(i int) string { return model.States[i].String() })},
		{dto.BoatForm{}, "BookingType", codes(len(model.BookingTypes), func(i int) string { return model.BookingTypes[i].String() })},
		{dto.TrafficForm{}, "BoatType", boatTypes},
		{dto.TrafficForm{}, "Direction", codes(len(model.Directions), func(i int) string { return model.Directions[i].String() })},
	}
	for _, tt := range tests {
		f, ok := reflect.TypeOf(tt.form).FieldByName(tt.field)
		if !ok {
			t.Fatalf("%T has no field %s", tt.form, tt.field)
		}
		if tag := f.Tag.Get("binding"); !strings.Contains(tag, tt.want) {
			t.Errorf("%T.%s: binding %q should contain %q", tt.form, tt.field, tag, tt.want)
		}
	}
}
