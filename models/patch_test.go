package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContractPatch_Whitelist(t *testing.T) {
	p := ParseContractPatch(map[string]any{
		"title":      "  New Title  ",
		"status":     "Active",
		"value":      float64(500),
		"noticeDays": "20",
		"autoRenew":  "true",
		"tags":       []any{"a", "b"},
		"ownerId":    "attacker-id", // tanınmayan key — yok sayılır
		"_id":        "evil",
	})

	require.NotNil(t, p.Title)
	assert.Equal(t, "New Title", *p.Title)
	require.NotNil(t, p.Status)
	assert.Equal(t, "Active", *p.Status)
	require.NotNil(t, p.Value)
	assert.Equal(t, float64(500), *p.Value)
	require.NotNil(t, p.NoticeDays)
	assert.Equal(t, 20, *p.NoticeDays)
	require.NotNil(t, p.AutoRenew)
	assert.True(t, *p.AutoRenew)
	require.NotNil(t, p.Tags)
	assert.Equal(t, []string{"a", "b"}, *p.Tags)
}

func TestParseContractPatch_AbsentFieldsUnset(t *testing.T) {
	p := ParseContractPatch(map[string]any{})

	assert.Nil(t, p.Title)
	assert.Nil(t, p.Status)
	assert.Nil(t, p.Value)
	assert.Nil(t, p.Tags)
	assert.False(t, p.StartDate.Present)
	assert.False(t, p.EndDate.Present)
}

func TestParseContractPatch_FailedCoercionIgnored(t *testing.T) {
	// Tip uymuyorsa alan patch'e girmez — mevcut değer korunur
	p := ParseContractPatch(map[string]any{
		"title":     float64(42), // string değil
		"value":     "abc",       // parse edilemez
		"autoRenew": "maybe",
		"tags":      float64(7),
	})

	assert.Nil(t, p.Title)
	assert.Nil(t, p.Value)
	assert.Nil(t, p.AutoRenew)
	assert.Nil(t, p.Tags)
}

func TestParseContractPatch_DateStates(t *testing.T) {
	// Dört durum: yok → Unset, ""/null → Clear, geçerli → Set, bozuk → Unset
	p := ParseContractPatch(map[string]any{})
	assert.False(t, p.StartDate.Present)

	p = ParseContractPatch(map[string]any{"startDate": ""})
	assert.True(t, p.StartDate.Present)
	assert.True(t, p.StartDate.Clear)

	p = ParseContractPatch(map[string]any{"startDate": nil})
	assert.True(t, p.StartDate.Present)
	assert.True(t, p.StartDate.Clear)

	p = ParseContractPatch(map[string]any{"startDate": "2025-03-01"})
	assert.True(t, p.StartDate.Present)
	assert.False(t, p.StartDate.Clear)
	assert.Equal(t, "2025-03-01T00:00:00Z", p.StartDate.Value)

	p = ParseContractPatch(map[string]any{"startDate": "next tuesday"})
	assert.False(t, p.StartDate.Present)
}

func TestContractPatch_Apply(t *testing.T) {
	doc := NewContractDoc(map[string]any{
		"title":     "Original",
		"startDate": "2024-01-01",
		"endDate":   "2024-12-31",
	}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	p := ParseContractPatch(map[string]any{
		"title":     "Renamed",
		"status":    "Active",
		"endDate":   "", // açık temizleme
		"startDate": "garbage",
	})

	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	p.Apply(doc, now)

	c := NormalizeContract("id", doc)
	assert.Equal(t, "Renamed", c.Title)
	assert.Equal(t, "Active", c.Status)

	// endDate açıkça temizlendi, startDate bozuk girdi yüzünden dokunulmadı
	assert.Nil(t, c.EndDate)
	require.NotNil(t, c.StartDate)
	assert.Equal(t, "2024-01-01T00:00:00Z", *c.StartDate)

	// updatedAt her Apply'da damgalanır, createdAt sabit kalır
	require.NotNil(t, c.Updated)
	assert.Equal(t, "2025-02-01T09:00:00Z", *c.Updated)
	require.NotNil(t, c.Created)
	assert.Equal(t, "2024-01-01T00:00:00Z", *c.Created)
}

func TestContractPatch_ApplyEmptyStillStamps(t *testing.T) {
	doc := NewContractDoc(map[string]any{"title": "Keep"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	p := ParseContractPatch(map[string]any{"unknown": "field"})
	p.Apply(doc, time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC))

	c := NormalizeContract("id", doc)
	assert.Equal(t, "Keep", c.Title)
	require.NotNil(t, c.Updated)
	assert.Equal(t, "2025-05-05T05:05:05Z", *c.Updated)
}

func TestParseContractPatch_TagsCSV(t *testing.T) {
	p := ParseContractPatch(map[string]any{"tags": "x, y ,"})
	require.NotNil(t, p.Tags)
	assert.Equal(t, []string{"x", "y"}, *p.Tags)

	// Boş string → boş liste (tüm tag'leri temizleme yolu)
	p = ParseContractPatch(map[string]any{"tags": ""})
	require.NotNil(t, p.Tags)
	assert.Equal(t, []string{}, *p.Tags)
}
