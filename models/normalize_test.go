package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContract_Aliases(t *testing.T) {
	// Tarihsel key varyantları kanonik alanlara eşlenmeli
	doc := map[string]any{
		"title":       "Office Lease",
		"state":       "Active",
		"amount":      1200.5,
		"notice_days": float64(45),
		"auto_renew":  true,
		"start_date":  "2024-01-15",
		"created":     "2024-01-01T10:00:00Z",
	}

	c := NormalizeContract("abc", doc)

	assert.Equal(t, "abc", c.ID)
	assert.Equal(t, "Office Lease", c.Title)
	assert.Equal(t, "Active", c.Status)
	assert.Equal(t, 1200.5, c.Value)
	assert.Equal(t, 45, c.NoticeDays)
	assert.True(t, c.AutoRenew)
	require.NotNil(t, c.StartDate)
	assert.Equal(t, "2024-01-15T00:00:00Z", *c.StartDate)
	require.NotNil(t, c.Created)
	assert.Equal(t, "2024-01-01T10:00:00Z", *c.Created)
}

func TestNormalizeContract_FirstPresentWins(t *testing.T) {
	// Kanonik key varsa alias'lar okunmaz
	doc := map[string]any{
		"status": "Draft",
		"state":  "Active",
		"value":  float64(100),
		"amount": float64(999),
	}

	c := NormalizeContract("id", doc)

	assert.Equal(t, "Draft", c.Status)
	assert.Equal(t, float64(100), c.Value)
}

func TestNormalizeContract_Defaults(t *testing.T) {
	c := NormalizeContract("id", map[string]any{})

	assert.Equal(t, "", c.Title)
	assert.Equal(t, StatusDraft, c.Status)
	assert.Equal(t, float64(0), c.Value)
	assert.Equal(t, DefaultCurrency, c.Currency)
	assert.Equal(t, DefaultNoticeDays, c.NoticeDays)
	assert.False(t, c.AutoRenew)
	assert.Equal(t, []string{}, c.Tags)
	assert.Nil(t, c.StartDate)
	assert.Nil(t, c.EndDate)
}

func TestNormalizeContract_TagShapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"array", []any{"legal", "hr"}, []string{"legal", "hr"}},
		{"array with junk", []any{"legal", float64(5), "hr"}, []string{"legal", "hr"}},
		{"csv string", "legal, hr,, finance ", []string{"legal", "hr", "finance"}},
		{"empty string", "", []string{}},
		{"wrong type", float64(3), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NormalizeContract("id", map[string]any{"tags": tt.in})
			assert.Equal(t, tt.want, c.Tags)
		})
	}
}

func TestNormalizeContract_ValueCoercion(t *testing.T) {
	// String olarak gelen sayılar parse edilir, saçmalık default'a düşer
	c := NormalizeContract("id", map[string]any{"value": "150.75"})
	assert.Equal(t, 150.75, c.Value)

	c = NormalizeContract("id", map[string]any{"value": "not a number"})
	assert.Equal(t, float64(0), c.Value)

	c = NormalizeContract("id", map[string]any{"noticeDays": "15"})
	assert.Equal(t, 15, c.NoticeDays)
}

func TestNormalizeContract_BadDateDropped(t *testing.T) {
	c := NormalizeContract("id", map[string]any{
		"startDate": "soon",
		"endDate":   "2025-06-30",
	})

	assert.Nil(t, c.StartDate)
	require.NotNil(t, c.EndDate)
	assert.Equal(t, "2025-06-30T00:00:00Z", *c.EndDate)
}

func TestNormalizeContract_Idempotent(t *testing.T) {
	// normalize(normalize(x).Doc()) == normalize(x)
	raw := map[string]any{
		"title":       "Vendor SLA",
		"state":       "Pending",
		"amount":      "880",
		"tags":        "legal,vendor",
		"auto_renew":  "true",
		"notice_days": float64(60),
		"start_date":  "2024-03-01",
		"created_at":  "2024-02-15T08:30:00Z",
		"updated_at":  "2024-02-20T08:30:00Z",
	}

	first := NormalizeContract("x", raw)
	second := NormalizeContract("x", first.Doc())

	assert.Equal(t, first, second)
}

func TestNewContractDoc_Defaults(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	doc := NewContractDoc(map[string]any{"title": "Lease A"}, now)

	c := NormalizeContract("new", doc)
	assert.Equal(t, "Lease A", c.Title)
	assert.Equal(t, StatusDraft, c.Status)
	assert.Equal(t, DefaultCurrency, c.Currency)
	assert.Equal(t, DefaultNoticeDays, c.NoticeDays)
	assert.False(t, c.AutoRenew)
	assert.Equal(t, []string{}, c.Tags)

	require.NotNil(t, c.Created)
	require.NotNil(t, c.Updated)
	assert.Equal(t, "2025-01-10T12:00:00Z", *c.Created)
	assert.Equal(t, *c.Created, *c.Updated)
}

func TestListQuery_Normalize(t *testing.T) {
	tests := []struct {
		name               string
		in                 ListQuery
		wantPage, wantSize int
	}{
		{"zero values", ListQuery{}, 1, 10},
		{"negative page", ListQuery{Page: -3, PageSize: 20}, 1, 20},
		{"oversized pageSize", ListQuery{Page: 2, PageSize: 500}, 2, 50},
		{"valid", ListQuery{Page: 3, PageSize: 25}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Normalize()
			assert.Equal(t, tt.wantPage, tt.in.Page)
			assert.Equal(t, tt.wantSize, tt.in.PageSize)
		})
	}
}

func TestListQuery_NormalizeTrimsStatus(t *testing.T) {
	q := ListQuery{Status: " Draft "}
	q.Normalize()

	assert.Equal(t, StatusDraft, q.Status)
	assert.True(t, q.HasStatusFilter())

	// Sadece boşluktan ibaret status, filtre yok demektir
	q = ListQuery{Status: "   "}
	q.Normalize()
	assert.False(t, q.HasStatusFilter())
}

func TestTotalPagesFor(t *testing.T) {
	assert.Equal(t, 1, TotalPagesFor(0, 10))
	assert.Equal(t, 1, TotalPagesFor(10, 10))
	assert.Equal(t, 2, TotalPagesFor(11, 10))
	assert.Equal(t, 2, TotalPagesFor(15, 10))
}

func TestHasStatusFilter(t *testing.T) {
	assert.False(t, (&ListQuery{Status: ""}).HasStatusFilter())
	assert.False(t, (&ListQuery{Status: StatusFilterAll}).HasStatusFilter())
	assert.True(t, (&ListQuery{Status: StatusActive}).HasStatusFilter())
}
