// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"testing"

	"github.com/rfpdesk/rfpmail/domain"

	"github.com/stretchr/testify/assert"
)

func Test_parseItems(t *testing.T) {
	tests := []struct {
		name    string
		specs   []string
		want    []domain.RfpItem
		wantErr bool
	}{
		{"none", nil, []domain.RfpItem{}, false},
		{"name only", []string{"Desk"}, []domain.RfpItem{{Name: "Desk", Quantity: 1}}, false},
		{"with specs", []string{"Laptop:10:16GB RAM: 1TB"}, []domain.RfpItem{{Name: "Laptop", Quantity: 10, Specs: "16GB RAM: 1TB"}}, false},
		{"fractional", []string{" Cable : 2.5 "}, []domain.RfpItem{{Name: "Cable", Quantity: 2.5}}, false},
		{"bad quantity", []string{"Laptop:ten"}, nil, true},
		{"zero quantity", []string{"Laptop:0"}, nil, true},
		{"no name", []string{":3"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := parseItems(tt.specs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, items)
		})
	}
}
