package models

import (
	"reflect"
	"testing"
	"time"
)

func TestDoctorDaysList(t *testing.T) {
	cases := []struct {
		name string
		days string
		want []string
	}{
		{"empty", "", nil},
		{"single", "Monday", []string{"Monday"}},
		{"several", "Monday,Wednesday,Friday", []string{"Monday", "Wednesday", "Friday"}},
		{"spaces and stray commas", " Monday , ,Friday,", []string{"Monday", "Friday"}},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			d := &Doctor{AvailableDays: tt.days}
			if got := d.DaysList(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("DaysList()=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestDoctorAvailableOn(t *testing.T) {
	d := &Doctor{AvailableDays: "monday,Wednesday,FRIDAY"}

	cases := []struct {
		day  time.Weekday
		want bool
	}{
		{time.Monday, true},
		{time.Wednesday, true},
		{time.Friday, true},
		{time.Tuesday, false},
		{time.Sunday, false},
	}
	for _, tt := range cases {
		if got := d.AvailableOn(tt.day); got != tt.want {
			t.Errorf("AvailableOn(%s)=%v, want %v", tt.day, got, tt.want)
		}
	}
}
