package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/sla-service/internal/domain"
)

func TestComputeDeadline(t *testing.T) {
	explicit := at(1)

	tests := []struct {
		name   string
		ticket domain.Ticket
		hours  float64
		want   time.Time
	}{
		{"PolicyHours", domain.Ticket{CreatedAt: base}, 24, at(24)},
		{"FractionalHours", domain.Ticket{CreatedAt: base}, 1.5, base.Add(90 * time.Minute)},
		{"ExplicitOverridesPolicy", domain.Ticket{CreatedAt: base, ExplicitDeadline: &explicit}, 168, explicit},
		{"ExplicitWithoutCreatedAt", domain.Ticket{ExplicitDeadline: &explicit}, 4, explicit},
		{"WallClockAcrossWeekend", domain.Ticket{CreatedAt: time.Date(2025, 3, 7, 17, 0, 0, 0, time.UTC)}, 72, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ComputeDeadline(&tt.ticket, tt.hours)))
		})
	}
}
