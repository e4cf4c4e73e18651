// Moodlyrics - Sentiment-Driven Lyric Passage Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodlyrics

package validation

import (
	"errors"
	"strings"
	"testing"
)

type impressionBody struct {
	Key   string   `json:"key" validate:"required,oneof=songs passages groups"`
	IDs   []string `json:"ids" validate:"required,min=1,max=3,dive,storekey"`
	Limit int      `json:"limit" validate:"gte=0,lte=10"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	body := impressionBody{Key: "songs", IDs: []string{"s1", "spotify-123"}, Limit: 10}
	if err := ValidateStruct(&body); err != nil {
		t.Errorf("ValidateStruct() = %v", err)
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     impressionBody
		wantField string
		wantTag   string
	}{
		{"missing key", impressionBody{IDs: []string{"s1"}}, "key", "required"},
		{"unknown key", impressionBody{Key: "albums", IDs: []string{"s1"}}, "key", "oneof"},
		{"no ids", impressionBody{Key: "songs"}, "ids", "required"},
		{"too many ids", impressionBody{Key: "songs", IDs: []string{"a", "b", "c", "d"}}, "ids", "max"},
		{"colon in id", impressionBody{Key: "songs", IDs: []string{"a:b"}}, "ids[0]", "storekey"},
		{"limit too high", impressionBody{Key: "songs", IDs: []string{"a"}, Limit: 11}, "limit", "lte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}
			found := false
			for _, e := range err.Errors() {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s/%s, got %v", tt.wantField, tt.wantTag, err)
			}
		})
	}
}

func TestRequestValidationError_Messages(t *testing.T) {
	err := ValidateStruct(&impressionBody{Key: "songs", IDs: []string{"a", "b", "c", "d"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "ids must be at most 3 items" {
		t.Errorf("Error() = %q", got)
	}

	fields, ok := err.Details()["fields"].([]map[string]string)
	if !ok || len(fields) != 1 || fields[0]["field"] != "ids" {
		t.Errorf("Details() = %v", err.Details())
	}
}

func TestValidateVar_StoreKey(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"user-1", false},
		{"", true},
		{"a b", true},
		{"a:b", true},
		{"tab\there", true},
		{strings.Repeat("x", maxStoreKeyLen), false},
		{strings.Repeat("x", maxStoreKeyLen+1), true},
	}
	for _, tt := range tests {
		err := ValidateVar("userID", tt.value, "storekey")
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVar(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		var ve *RequestValidationError
		if err != nil && (!errors.As(err, &ve) || !strings.HasPrefix(err.Error(), "userID ")) {
			t.Errorf("ValidateVar(%q) error = %v, want field-prefixed RequestValidationError", tt.value, err)
		}
	}
}

func TestFieldName_Fallbacks(t *testing.T) {
	type cfg struct {
		Port  int    `koanf:"port" validate:"min=1"`
		Plain string `validate:"required"`
	}
	err := ValidateStruct(&cfg{})
	if err == nil || len(err.Errors()) != 2 {
		t.Fatalf("ValidateStruct() = %v, want 2 errors", err)
	}
	if err.Errors()[0].Field() != "port" || err.Errors()[1].Field() != "Plain" {
		t.Errorf("fields = %s, %s", err.Errors()[0].Field(), err.Errors()[1].Field())
	}
}
