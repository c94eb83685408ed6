package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"device-locator/core/config"
)

// Supported address search providers.
const (
	ProviderNaver = "naver"
	ProviderKakao = "kakao"
)

const (
	naverSearchURL = "https://openapi.naver.com/v1/search/local.json"
	kakaoSearchURL = "https://dapi.kakao.com/v2/local/search/keyword.json"

	// Both upstreams are asked for the same small page.
	resultLimit = 5

	requestTimeout = 10 * time.Second
)

// naverCoordScale converts the KATECH-style integer coordinates the naver
// local API returns into WGS84 degrees.
const naverCoordScale = 1e7

// htmlTagPattern strips the <b> highlighting naver embeds in titles.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Result is the normalized shape of one address search hit. X is
// longitude and Y latitude, matching the proxy wire format.
type Result struct {
	Title       string  `json:"title"`
	Address     string  `json:"address"`
	RoadAddress string  `json:"roadAddress"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`

	// Source tags which provider produced the hit; not part of the wire shape.
	Source string `json:"-"`
}

// Client queries one address search provider.
type Client interface {
	Provider() string
	Search(ctx context.Context, query string) ([]Result, error)
}

type naverClient struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

type kakaoClient struct {
	httpClient *http.Client
	baseURL    string
	restKey    string
}

// NewNaverClient creates a client for the naver local search API.
func NewNaverClient(cfg config.SearchConfig) Client {
	return &naverClient{
		httpClient:   &http.Client{Timeout: requestTimeout},
		baseURL:      naverSearchURL,
		clientID:     cfg.NaverClientID,
		clientSecret: cfg.NaverClientSecret,
	}
}

// NewKakaoClient creates a client for the kakao keyword search API.
func NewKakaoClient(cfg config.SearchConfig) Client {
	return &kakaoClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    kakaoSearchURL,
		restKey:    cfg.KakaoRESTKey,
	}
}

func (c *naverClient) Provider() string { return ProviderNaver }

func (c *naverClient) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint := fmt.Sprintf("%s?query=%s&display=%d&sort=random",
		c.baseURL, url.QueryEscape(query), resultLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver search failed: %s", resp.Status)
	}

	var body struct {
		Items []struct {
			Title       string `json:"title"`
			Address     string `json:"address"`
			RoadAddress string `json:"roadAddress"`
			MapX        string `json:"mapx"`
			MapY        string `json:"mapy"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("naver search response: %w", err)
	}

	results := make([]Result, 0, len(body.Items))
	for _, item := range body.Items {
		x, _ := strconv.ParseFloat(item.MapX, 64)
		y, _ := strconv.ParseFloat(item.MapY, 64)
		results = append(results, Result{
			Title:       htmlTagPattern.ReplaceAllString(item.Title, ""),
			Address:     item.Address,
			RoadAddress: item.RoadAddress,
			X:           x / naverCoordScale,
			Y:           y / naverCoordScale,
			Source:      ProviderNaver,
		})
	}
	return results, nil
}

func (c *kakaoClient) Provider() string { return ProviderKakao }

func (c *kakaoClient) Search(ctx context.Context, query string) ([]Result, error) {
	endpoint := fmt.Sprintf("%s?query=%s&size=%d",
		c.baseURL, url.QueryEscape(query), resultLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "KakaoAK "+c.restKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao search failed: %s", resp.Status)
	}

	var body struct {
		Documents []struct {
			PlaceName       string `json:"place_name"`
			AddressName     string `json:"address_name"`
			RoadAddressName string `json:"road_address_name"`
			X               string `json:"x"`
			Y               string `json:"y"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("kakao search response: %w", err)
	}

	results := make([]Result, 0, len(body.Documents))
	for _, doc := range body.Documents {
		// Kakao already returns WGS84 degrees as strings.
		x, _ := strconv.ParseFloat(doc.X, 64)
		y, _ := strconv.ParseFloat(doc.Y, 64)
		results = append(results, Result{
			Title:       doc.PlaceName,
			Address:     doc.AddressName,
			RoadAddress: doc.RoadAddressName,
			X:           x,
			Y:           y,
			Source:      ProviderKakao,
		})
	}
	return results, nil
}
