// Package geocode is a thin proxy over two keyword search APIs (naver
// local search, kakao keyword search), kept server-side so the provider
// secrets never reach the browser.
//
// Responses are normalized into one result shape with x as longitude and
// y as latitude. Naver's integer coordinates are divided by 1e7 and the
// HTML highlighting tags are stripped from its titles; kakao coordinates
// pass through as-is.
//
// The aggregated endpoint merges both providers: duplicates collapse on
// normalized title+address, exact title matches rank first, then provider
// priority. When every provider fails a small bundled fallback set keeps
// the add-device flow usable.
package geocode
