package tenq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDates(t *testing.T) {
	tests := []struct {
		ref, due, lastPayment time.Time
	}{
		{day(2020, 1, 1), day(2020, 5, 1), day(2020, 5, 20)},
		{day(2020, 1, 2), day(2020, 5, 1), day(2020, 5, 20)},
		{day(2020, 2, 29), day(2020, 6, 1), day(2020, 6, 22)},
		{day(2021, 2, 28), day(2021, 6, 1), day(2021, 6, 21)},
		{day(2020, 12, 30), day(2021, 4, 1), day(2021, 4, 20)},
		{day(2020, 7, 5), day(2020, 11, 1), day(2020, 11, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.ref.Format(time.DateOnly), func(t *testing.T) {
			assert.Equal(t, tt.due, DueDate(tt.ref))
			assert.Equal(t, tt.lastPayment, LastPaymentDateFromDueDate(tt.due))
			assert.Equal(t, tt.lastPayment, LastPaymentDate(tt.ref))
		})
	}
}
