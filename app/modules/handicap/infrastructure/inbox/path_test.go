package handicapinbox

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseInboxPath(t *testing.T) {
	course := uuid.MustParse("5b1c7f3e-2f4a-4d0e-9d8a-6c1f2e3a4b5c")
	june := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rel     string
		want    Location
		wantErr bool
	}{
		{name: "plain date", rel: course.String() + "/2024-06-14.csv", want: Location{CourseID: course, PlayedOn: june}},
		{name: "suffixed", rel: course.String() + "/2024-06-14-league.xlsx", want: Location{CourseID: course, PlayedOn: june}},
		{name: "underscore suffix", rel: course.String() + "/2024-06-14_2.tsv", want: Location{CourseID: course, PlayedOn: june}},
		{name: "no course dir", rel: "2024-06-14.csv", wantErr: true},
		{name: "course not a uuid", rel: "pine-valley/2024-06-14.csv", wantErr: true},
		{name: "no date", rel: course.String() + "/league.csv", wantErr: true},
		{name: "bad date", rel: course.String() + "/2024-13-40.csv", wantErr: true},
		{name: "date run into text", rel: course.String() + "/2024-06-14league.csv", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInboxPath(tt.rel)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPath) {
					t.Fatalf("expected ErrInvalidPath, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.CourseID != tt.want.CourseID || !got.PlayedOn.Equal(tt.want.PlayedOn) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
