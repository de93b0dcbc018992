package trainyard

import (
	"errors"
	"slices"
	"testing"
)

func TestNormalizeTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"08:00:00", "08:00:00"},
		{"08:00", "08:00:00"},
		{"8:00 AM", "08:00:00"},
		{"8:00 am", "08:00:00"},
		{"8:00AM", "08:00:00"},
		{"12:30 PM", "12:30:00"},
		{"12:05 AM", "00:05:00"},
		{" 23:59 ", "23:59:00"},
		{"11:15:30 PM", "23:15:30"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeTime(tt.in)
			if err != nil {
				t.Fatalf("NormalizeTime(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTime_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "noon", "25:00", "8", "08:61"} {
		if _, err := NormalizeTime(in); !errors.Is(err, ErrBadRequest) {
			t.Errorf("NormalizeTime(%q) err = %v, want ErrBadRequest", in, err)
		}
	}
}

func TestNormalizeTrainName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a1", "A1", false},
		{" ACE ", "ACE", false},
		{"LIRR", "LIRR", false},
		{"", "", true},
		{"TOOLONG", "", true},
		{"A-1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeTrainName(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadRequest) {
					t.Errorf("err = %v, want ErrBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("NormalizeTrainName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSchedule(t *testing.T) {
	t.Parallel()

	got, err := NormalizeSchedule(Schedule{
		Train: "ab",
		Times: []string{"9:00 AM", "08:00", "09:00:00"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Train != "AB" {
		t.Errorf("train = %q, want AB", got.Train)
	}
	want := []string{"09:00:00", "08:00:00"}
	if !slices.Equal(got.Times, want) {
		t.Errorf("times = %v, want %v", got.Times, want)
	}

	if _, err := NormalizeSchedule(Schedule{Train: "AB"}); !errors.Is(err, ErrBadRequest) {
		t.Errorf("empty times err = %v, want ErrBadRequest", err)
	}
}
