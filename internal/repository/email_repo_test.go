package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendPaging(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		offset    int
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "limit and offset",
			limit:     10,
			offset:    40,
			wantQuery: "SELECT 1 LIMIT $2 OFFSET $3",
			wantArgs:  []any{int64(7), 10, 40},
		},
		{
			name:      "limit only",
			limit:     10,
			wantQuery: "SELECT 1 LIMIT $2",
			wantArgs:  []any{int64(7), 10},
		},
		{
			name:      "offset without limit still applies",
			offset:    40,
			wantQuery: "SELECT 1 OFFSET $2",
			wantArgs:  []any{int64(7), 40},
		},
		{
			name:      "neither",
			wantQuery: "SELECT 1",
			wantArgs:  []any{int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := appendPaging("SELECT 1", []any{int64(7)}, tt.limit, tt.offset)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
