package models

import "testing"

func TestMovieValidate(t *testing.T) {
	tc := []struct {
		name    string
		movie   Movie
		wantErr bool
	}{
		{name: "title only", movie: Movie{Title: "Inception"}},
		{name: "empty title", movie: Movie{}, wantErr: true},
		{name: "whitespace title", movie: Movie{Title: "   "}, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.movie.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPtrDeref(t *testing.T) {
	year := Ptr(2010)
	if Deref(year) != 2010 {
		t.Errorf("expected 2010, got %d", Deref(year))
	}

	var missing *string
	if Deref(missing) != "" {
		t.Error("expected zero value for nil pointer")
	}
}
