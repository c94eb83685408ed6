package geocode

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubClient serves canned results for handler tests.
type stubClient struct {
	provider string
	results  []Result
	err      error
}

func (s *stubClient) Provider() string { return s.provider }

func (s *stubClient) Search(context.Context, string) ([]Result, error) {
	return s.results, s.err
}

func setupTestApp(clients ...Client) *fiber.App {
	app := fiber.New()
	NewHandler(NewService(zap.NewNop(), clients...)).RegisterRoutes(app)
	return app
}

func TestHandleSearch(t *testing.T) {
	app := setupTestApp(&stubClient{
		provider: ProviderKakao,
		results: []Result{
			{Title: "정읍시청", Address: "전라북도 정읍시 시기2길 25", X: 126.85, Y: 35.57},
		},
	})

	target := "/search-address?provider=kakao&query=" + url.QueryEscape("정읍시청")
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body struct {
		Success  bool     `json:"success"`
		Provider string   `json:"provider"`
		Query    string   `json:"query"`
		Results  []Result `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "kakao", body.Provider)
	require.NotEmpty(t, body.Results)
	assert.Contains(t, body.Results[0].Address, "정읍")
}

func TestHandleSearch_MissingParams(t *testing.T) {
	app := setupTestApp(&stubClient{provider: ProviderKakao})

	for _, target := range []string{
		"/search-address",
		"/search-address?provider=kakao",
		"/search-address?query=abc",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode, target)
	}
}

func TestHandleSearch_UnknownProvider(t *testing.T) {
	app := setupTestApp(&stubClient{provider: ProviderKakao})

	resp, err := app.Test(httptest.NewRequest("GET", "/search-address?provider=bing&query=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleSearch_UpstreamFailure(t *testing.T) {
	app := setupTestApp(&stubClient{provider: ProviderNaver, err: assert.AnError})

	resp, err := app.Test(httptest.NewRequest("GET", "/search-address?provider=naver&query=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["details"])
}

func TestHandlePreflight(t *testing.T) {
	app := setupTestApp(&stubClient{provider: ProviderKakao})

	resp, err := app.Test(httptest.NewRequest("OPTIONS", "/search-address", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "OPTIONS")
}

func TestHandleSearchAll_FallbackWhenAllFail(t *testing.T) {
	app := setupTestApp(
		&stubClient{provider: ProviderKakao, err: assert.AnError},
		&stubClient{provider: ProviderNaver, err: assert.AnError},
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/search-address/all?query=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Results []Result `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Results)
	assert.Contains(t, body.Results[0].Address, "정읍")
}

func TestHandleSearchAll_MergesProviders(t *testing.T) {
	app := setupTestApp(
		&stubClient{provider: ProviderKakao, results: []Result{
			{Title: "정읍시청", Address: "a", Source: ProviderKakao},
		}},
		&stubClient{provider: ProviderNaver, results: []Result{
			{Title: "정읍시청", Address: "a", Source: ProviderNaver},
			{Title: "정읍역", Address: "b", Source: ProviderNaver},
		}},
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/search-address/all?query="+url.QueryEscape("정읍시청"), nil))
	require.NoError(t, err)

	var body struct {
		Results []Result `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Results, 2)
	assert.Equal(t, "정읍시청", body.Results[0].Title)
}
