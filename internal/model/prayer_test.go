package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationValidate(t *testing.T) {
	cases := []struct {
		name string
		loc  Location
		ok   bool
	}{
		{"chicago", Location{41.8781, -87.6298}, true},
		{"poles and antimeridian", Location{90, 180}, true},
		{"south edge", Location{-90, -180}, true},
		{"latitude too high", Location{90.01, 0}, false},
		{"longitude too low", Location{0, -180.5}, false},
		{"NaN latitude", Location{math.NaN(), 0}, false},
		{"NaN longitude", Location{0, math.NaN()}, false},
		{"infinite latitude", Location{math.Inf(-1), 0}, false},
		{"infinite longitude", Location{0, math.Inf(1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.loc.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
