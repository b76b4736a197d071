package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookNormalize(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		available bool
		wantQty   int
		wantAvail bool
	}{
		{name: "in stock", quantity: 3, available: false, wantQty: 3, wantAvail: true},
		{name: "empty", quantity: 0, available: true, wantQty: 0, wantAvail: false},
		{name: "negative clamps", quantity: -2, available: true, wantQty: 0, wantAvail: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Book{Quantity: tt.quantity, Available: tt.available}
			b.Normalize()
			assert.Equal(t, tt.wantQty, b.Quantity)
			assert.Equal(t, tt.wantAvail, b.Available)
		})
	}
}

func TestRolesFor(t *testing.T) {
	assert.Equal(t, []string{RoleUser}, RolesFor(false))
	assert.Equal(t, []string{RoleAdmin, RoleUser}, RolesFor(true))
	assert.True(t, User{Roles: RolesFor(true)}.IsAdmin())
	assert.False(t, User{Roles: RolesFor(false)}.IsAdmin())
}

func TestMarkReturned(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	r := IssueRecord{}
	r.MarkReturned(at)
	assert.True(t, r.Returned)
	if assert.NotNil(t, r.ReturnDate) {
		assert.Equal(t, at, *r.ReturnDate)
	}
}
