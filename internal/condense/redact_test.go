package condense

import (
	"testing"
)

func TestRedact(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want string
	}{
		{
			name: "doctor reference",
			in:   "Seen by Dr. Alice Smith today.",
			want: "Seen by Dr. [DOCTOR_NAME] today.",
		},
		{
			name: "physician field",
			in:   "Visited Physician: John Carter.",
			want: "Visited Physician: [DOCTOR_NAME].",
		},
		{
			name: "patient with dob",
			in:   "Patient Jane Doe (DOB: 1961-04-02) presented.",
			want: "Patient [PATIENT_NAME] (DOB: [DATE_OF_BIRTH]) presented.",
		},
		{
			name: "name before history",
			in:   "John Doe has a history of smoking.",
			want: "[PATIENT_NAME] has a history of smoking.",
		},
		{
			name: "visit date",
			in:   "Reviewed on 3/14/2024 with the team.",
			want: "Reviewed on [DATE] with the team.",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := Redact(tc.in); got != tc.want {
				t.Fatalf("Redact(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRedactLeavesClinicalContentAlone(t *testing.T) {
	in := "Vital signs stable. Blood Count: 300. Nodule unchanged from prior scan."
	if got := Redact(in); got != in {
		t.Fatalf("clinical content altered: %q", got)
	}
}
