package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneProductURL(t *testing.T) {
	tests := []struct {
		caseType, model, want string
	}{
		{CaseTypeRubber, "iPhone 15 Pro", "/tough/iphone_15_pro.png"},
		{CaseTypeClear, "samsung galaxy s23", "/normal/samsung_galaxy_s23.png"},
		{"Tough", " redmi a3 ", "/tough/redmi_a3.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhoneProductURL(tt.caseType, tt.model))
	}
}
