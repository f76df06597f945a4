package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateKeepsCalendarDate(t *testing.T) {
	want := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	got, err := ParseDate("2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseDate("2024-06-30T23:30:00-06:00")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ParseDate("30/06/2024")
	assert.Error(t, err)

	got, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Limit: 50, Offset: 0}},
		{"limit=10&offset=20", Pagination{Limit: 10, Offset: 20}},
		{"limit=1000", Pagination{Limit: 200, Offset: 0}},
		{"limit=-3&offset=-1", Pagination{Limit: 50, Offset: 0}},
		{"pageSize=25&page=3", Pagination{Limit: 25, Offset: 50}},
		{"page=2&offset=5", Pagination{Limit: 50, Offset: 5}},
		{"page=zero", Pagination{Limit: 50, Offset: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			assert.Equal(t, tc.want, ParsePagination(r, 50, 200))
		})
	}
}
