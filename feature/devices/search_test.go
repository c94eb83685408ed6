package devices

import (
	"testing"

	"device-locator/feature/devices/models"

	"github.com/stretchr/testify/assert"
)

func TestMatchesQuery_Chosung(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		query  string
		want   bool
	}{
		{"ChosungMatch", "남양", "ㄴㅇ", true},
		{"ChosungNoMatch", "서울", "ㄴㅇ", false},
		{"LiteralMatch", "남양", "남양", true},
		{"LiteralSubstring", "남양주시", "양주", true},
		{"ChosungAnchoredMidWord", "정읍 남양동", "ㄴㅇ", true},
		{"MixedLiteralAndChosung", "남양", "남ㅇ", true},
		{"ChosungLongerThanText", "남", "ㄴㅇ", false},
		{"AspiratedDistinct", "까치", "ㄱㅊ", false},
		{"TenseInitial", "까치", "ㄲㅊ", true},
		{"NonHangulTarget", "Pump A", "ㄴ", false},
		{"EmptyQuery", "남양", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesQuery(tt.text, tt.query))
		})
	}
}

func TestStore_Search(t *testing.T) {
	s := NewStore()
	s.AddDevice(models.Device{Name: "남양 관정 모터", InstalledAt: "2023-06-02"})
	s.AddDevice(models.Device{Name: "서울 배수펌프", InstalledAt: "2023-06-02", Note: "점검 완료"})
	s.AddDevice(models.Device{Name: "Pump A", InstalledAt: "2024-03-01"})

	t.Run("ChosungOnName", func(t *testing.T) {
		got := s.Search("ㄴㅇ")
		assert.Len(t, got, 1)
		assert.Equal(t, "남양 관정 모터", got[0].Name)
	})

	t.Run("LiteralOnName", func(t *testing.T) {
		got := s.Search("남양")
		assert.Len(t, got, 1)
	})

	t.Run("SubstringOnNote", func(t *testing.T) {
		got := s.Search("점검")
		assert.Len(t, got, 1)
		assert.Equal(t, "서울 배수펌프", got[0].Name)
	})

	t.Run("LatinSubstring", func(t *testing.T) {
		got := s.Search("Pump")
		assert.Len(t, got, 1)
	})

	t.Run("EmptyReturnsAll", func(t *testing.T) {
		assert.Len(t, s.Search(""), 3)
	})

	t.Run("NoMatch", func(t *testing.T) {
		assert.Empty(t, s.Search("ㅈㅈㅈ"))
	})
}
