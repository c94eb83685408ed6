package devices

import (
	"strings"

	"device-locator/feature/devices/models"
)

// Hangul syllables occupy U+AC00..U+D7A3, grouped in blocks of 588
// syllables per initial consonant (choseong).
const (
	hangulBase      = rune(0xAC00)
	hangulEnd       = rune(0xD7A3)
	syllablesPerCho = 588
)

// choseong lists the 19 initial consonants in Unicode block order.
var choseong = []rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ',
	'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

func choseongIndex(r rune) int {
	for i, c := range choseong {
		if c == r {
			return i
		}
	}
	return -1
}

// matchesQuery reports whether the text matches the query, either as a
// plain substring or by initial-consonant (chosung) classes. The substring
// check runs first and short-circuits.
func matchesQuery(text, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(text, query) {
		return true
	}
	return matchChosung([]rune(text), []rune(query))
}

// matchChosung anchors the query at every start position of the target and
// walks it left to right. Each query rune must either match the target rune
// literally or be a choseong symbol whose syllable block contains the
// target rune.
func matchChosung(target, query []rune) bool {
	if len(query) == 0 || len(target) < len(query) {
		return false
	}

	for start := 0; start+len(query) <= len(target); start++ {
		ok := true
		for i, q := range query {
			t := target[start+i]
			if q == t {
				continue
			}
			ci := choseongIndex(q)
			if ci < 0 {
				ok = false
				break
			}
			blockStart := hangulBase + rune(ci*syllablesPerCho)
			if t < blockStart || t >= blockStart+syllablesPerCho || t > hangulEnd {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Search filters devices by name or note. Supports both literal substring
// match and Korean initial-consonant search, so "ㄴㅇ" finds "남양".
func (s *Store) Search(query string) []models.Device {
	query = strings.TrimSpace(query)
	all := s.Devices()
	if query == "" {
		return all
	}

	var out []models.Device
	for _, d := range all {
		if matchesQuery(d.Name, query) || matchesQuery(d.Note, query) {
			out = append(out, d)
		}
	}
	return out
}
