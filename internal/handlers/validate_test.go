// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"testing"
)

func TestValidateBilingualTitle(t *testing.T) {
	tests := []struct {
		name    string
		titleEN string
		titleAR string
		wantErr bool
	}{
		{name: "both present", titleEN: "Criminal Law", titleAR: "القانون الجنائي", wantErr: false},
		{name: "missing english", titleEN: "", titleAR: "القانون", wantErr: true},
		{name: "missing arabic", titleEN: "Criminal Law", titleAR: "", wantErr: true},
		{name: "whitespace only", titleEN: "   ", titleAR: "القانون", wantErr: true},
		{name: "too long", titleEN: strings.Repeat("x", 301), titleAR: "القانون", wantErr: true},
		{name: "at limit", titleEN: strings.Repeat("x", 300), titleAR: "القانون", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateBilingualTitle(tt.titleEN, tt.titleAR)
			if (msg != "") != tt.wantErr {
				t.Errorf("validateBilingualTitle() = %q, wantErr %v", msg, tt.wantErr)
			}
		})
	}
}

func TestValidateColorHex(t *testing.T) {
	tests := []struct {
		color   string
		wantErr bool
	}{
		{color: "", wantErr: false}, // empty gets a default later
		{color: "#3B82F6", wantErr: false},
		{color: "#abcdef", wantErr: false},
		{color: "3B82F6", wantErr: true},
		{color: "#3B82F", wantErr: true},
		{color: "#GGGGGG", wantErr: true},
		{color: "red", wantErr: true},
	}

	for _, tt := range tests {
		msg := validateColorHex(tt.color)
		if (msg != "") != tt.wantErr {
			t.Errorf("validateColorHex(%q) = %q, wantErr %v", tt.color, msg, tt.wantErr)
		}
	}
}

func TestValidateDefinition(t *testing.T) {
	if msg := validateDefinition("retribution in kind", "القصاص"); msg != "" {
		t.Errorf("valid definition rejected: %q", msg)
	}
	if msg := validateDefinition("", "القصاص"); msg == "" {
		t.Error("missing english definition should be rejected")
	}
	if msg := validateDefinition("retribution", ""); msg == "" {
		t.Error("missing arabic definition should be rejected")
	}
	long := strings.Repeat("x", 10_001)
	if msg := validateDefinition(long, "القصاص"); msg == "" {
		t.Error("oversized definition should be rejected")
	}
}

func TestCategoryRequestAppliesDefaultColor(t *testing.T) {
	req := categoryRequest{TitleEN: "Law", TitleAR: "قانون"}
	if msg := req.validate(); msg != "" {
		t.Fatalf("validate() = %q, want ok", msg)
	}
	if req.ColorHex != defaultColorHex {
		t.Errorf("ColorHex = %q, want default %q", req.ColorHex, defaultColorHex)
	}
}
