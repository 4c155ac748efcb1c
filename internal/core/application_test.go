package core

import "testing"

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"APPLIED", StatusApplied, false},
		{"offer", StatusOffer, false},
		{"Pending Apply", StatusDraft, false},
		{"Under Review", StatusApplied, false},
		{"Pending Interview / Assignment", StatusInterview, false},
		{"Offered", StatusOffer, false},
		{"  rejected ", StatusRejected, false},
		{"ghosted", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStatus_Label(t *testing.T) {
	if got := StatusDraft.Label(); got != "Pending Apply" {
		t.Errorf("DRAFT label = %q", got)
	}
	if got := Status("WITHDRAWN").Label(); got != "WITHDRAWN" {
		t.Errorf("unknown label = %q, want raw value", got)
	}
}

func TestFilterApplications(t *testing.T) {
	apps := []Application{
		{ID: "1", Company: "Google", Title: "Software Engineer", Status: StatusInterview},
		{ID: "2", Company: "Microsoft", Title: "Product Manager", Status: StatusApplied},
		{ID: "3", Company: "Amazon", Title: "SDE II", Status: StatusOffer},
		{ID: "4", Company: "Zürich Insurance", Title: "Data Engineer", Status: StatusRejected},
	}

	tests := []struct {
		name   string
		term   string
		filter AppFilter
		want   []string
	}{
		{"all", "", FilterAll, []string{"1", "2", "3", "4"}},
		{"active", "", FilterActive, []string{"1", "2"}},
		{"closed", "", FilterClosed, []string{"3", "4"}},
		{"term matches company", "goo", FilterAll, []string{"1"}},
		{"term matches title", "engineer", FilterAll, []string{"1", "4"}},
		{"term is case-folded", "ZÜRICH", FilterAll, []string{"4"}},
		{"term and filter", "engineer", FilterActive, []string{"1"}},
		{"no match", "netflix", FilterAll, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterApplications(apps, tt.term, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d apps, want %d", len(got), len(tt.want))
			}
			for i, a := range got {
				if a.ID != tt.want[i] {
					t.Errorf("got[%d].ID = %s, want %s", i, a.ID, tt.want[i])
				}
			}
		})
	}
}

func TestApplicationInput_Validate(t *testing.T) {
	in := ApplicationInput{Company: " Stripe ", Title: "Backend Engineer", Status: "Under Review"}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if in.Company != "Stripe" {
		t.Errorf("Company = %q, want trimmed", in.Company)
	}
	if in.Status != string(StatusApplied) {
		t.Errorf("Status = %q, want APPLIED", in.Status)
	}
	if in.JobType != "Full-time" {
		t.Errorf("JobType = %q, want default", in.JobType)
	}

	missing := ApplicationInput{Company: "Stripe"}
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing title")
	}

	defaulted := ApplicationInput{Company: "A", Title: "B"}
	if err := defaulted.Validate(); err != nil {
		t.Fatal(err)
	}
	if defaulted.Status != string(StatusApplied) {
		t.Errorf("default Status = %q, want APPLIED", defaulted.Status)
	}
}

func TestCountLabel(t *testing.T) {
	if got := CountLabel(2, 5); got != "Showing 2 of 5" {
		t.Errorf("CountLabel = %q", got)
	}
}
