package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr string
	}{
		{"today", "2025-03-10", ""},
		{"lower bound", "1900-01-01", ""},
		{"upper bound", "2028-03-10", ""},
		{"empty", "", "Date is required"},
		{"bad format", "03/10/2025", "Invalid date format"},
		{"before 1900", "1899-12-31", "before January 1, 1900"},
		{"past upper bound", "2028-03-11", "more than 3 years in the future (max: Mar 10, 2028)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDateRange(tt.date, fixedNow)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("error %T is not a ValidationError", err)
			}
		})
	}
}

func TestReminderInput_Validate(t *testing.T) {
	t.Run("title required", func(t *testing.T) {
		in := ReminderInput{Kind: KindDeadline, Date: "2025-04-01"}
		if err := in.Validate(fixedNow); err == nil || err.Error() != "Please enter a title" {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("deadline needs date", func(t *testing.T) {
		in := ReminderInput{Kind: KindDeadline, Title: "Submit"}
		if err := in.Validate(fixedNow); err == nil || err.Error() != "Please enter a deadline" {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("interview needs start date", func(t *testing.T) {
		in := ReminderInput{Kind: KindInterview, Title: "Onsite"}
		if err := in.Validate(fixedNow); err == nil || err.Error() != "Please enter a start date" {
			t.Fatalf("error = %v", err)
		}
	})

	t.Run("interview end date defaults to start", func(t *testing.T) {
		in := ReminderInput{Kind: KindInterview, Title: "Onsite", Date: "2025-04-01", StartTime: "10:00"}
		if err := in.Validate(fixedNow); err != nil {
			t.Fatal(err)
		}
		if in.EndDate != "2025-04-01" {
			t.Errorf("EndDate = %q, want start date", in.EndDate)
		}
	})

	t.Run("interview end date validated", func(t *testing.T) {
		in := ReminderInput{Kind: KindInterview, Title: "Onsite", Date: "2025-04-01", EndDate: "2099-01-01"}
		err := in.Validate(fixedNow)
		var ve ValidationError
		if !errors.As(err, &ve) || ve.Field != "end_date" {
			t.Fatalf("error = %v, want end_date validation error", err)
		}
	})

	t.Run("follow-up drops interview fields", func(t *testing.T) {
		in := ReminderInput{Kind: KindFollowUp, Title: "Ping", Date: "2025-04-01", EndDate: "2025-04-02", MeetingLink: "x"}
		if err := in.Validate(fixedNow); err != nil {
			t.Fatal(err)
		}
		if in.EndDate != "" || in.MeetingLink != "" {
			t.Errorf("interview-only fields kept: %+v", in)
		}
	})

	t.Run("empty kind is deadline", func(t *testing.T) {
		in := ReminderInput{Title: "x", Date: "2025-04-01"}
		if err := in.Validate(fixedNow); err != nil {
			t.Fatal(err)
		}
		if in.Kind != KindDeadline {
			t.Errorf("Kind = %q", in.Kind)
		}
	})
}

func TestReminder_Input(t *testing.T) {
	r := Reminder{ID: "r1", Kind: KindInterview, Title: "Onsite", TriggerAt: "2025-04-01", EndDate: "2025-04-02", StartTime: "09:00", EndTime: "17:00", MeetingLink: "https://meet"}
	in := r.Input()
	if in.Date != "2025-04-01" || in.EndDate != "2025-04-02" || in.EndTime != "17:00" || in.MeetingLink != "https://meet" {
		t.Errorf("Input() = %+v", in)
	}

	r.Kind = KindDeadline
	in = r.Input()
	if in.EndDate != "" || in.MeetingLink != "" {
		t.Errorf("deadline Input() kept interview fields: %+v", in)
	}
}

func TestParseColorAndKind(t *testing.T) {
	if ParseColor("Purple") != ColorPurple {
		t.Error("ParseColor(Purple)")
	}
	if ParseColor("") != ColorBlue || ParseColor("teal") != ColorBlue {
		t.Error("unknown colors must default to blue")
	}
	if ParseKind("follow-up") != KindFollowUp {
		t.Error("ParseKind(follow-up)")
	}
	if ParseKind("interview") != KindInterview {
		t.Error("ParseKind(interview)")
	}
	if ParseKind("???") != KindDeadline {
		t.Error("unknown kinds must default to deadline")
	}
}

func TestSession_Expired(t *testing.T) {
	if !(Session{}).Expired(fixedNow) {
		t.Error("empty session must be expired")
	}
}
