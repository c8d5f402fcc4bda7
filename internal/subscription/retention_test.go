package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldDeleteUserDataAt(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		end  *time.Time
		want bool
	}{
		{"expired trial", TypeFreeTrial, at(-2 * 24 * time.Hour), true},
		{"trial expired a second ago", TypeFreeTrial, at(-time.Second), true},
		{"running trial", TypeFreeTrial, at(time.Hour), false},
		{"trial ending exactly now", TypeFreeTrial, at(0), false},
		{"trial without end date", TypeFreeTrial, nil, false},
		{"expired pro keeps data", TypePro, at(-30 * 24 * time.Hour), false},
		{"expired ultimate keeps data", TypeUltimate, at(-time.Hour), false},
		{"none with stale end", TypeNone, at(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldDeleteUserDataAt(tt.typ, tt.end, now))
		})
	}
}
