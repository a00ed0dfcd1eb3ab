package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"cleanops_backend/internals/helpers/geo"
)

var ErrNoGeocodeMatch = errors.New("address not found by geocoder")

// Geocoder resolves a postal address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
}

// restGeocoder talks to a Nominatim-style search endpoint:
// GET <url>?q=<address>&format=json&limit=1 -> [{"lat":"..","lon":".."}]
type restGeocoder struct {
	client *resty.Client
	url    string
	apiKey string
	log    *zap.Logger
}

type geocodeHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewGeocoder returns nil when no endpoint is configured.
func NewGeocoder(url, apiKey string, log *zap.Logger) Geocoder {
	if url == "" {
		return nil
	}
	client := resty.New().
		SetTimeout(10*time.Second).
		SetRetryCount(1).
		SetRetryWaitTime(200*time.Millisecond).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "cleanops-backend")
	return &restGeocoder{client: client, url: url, apiKey: apiKey, log: log}
}

func (g *restGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	params := map[string]string{
		"q":      address,
		"format": "json",
		"limit":  "1",
	}
	if g.apiKey != "" {
		params["key"] = g.apiKey
	}

	var hits []geocodeHit
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&hits).
		Get(g.url)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		g.log.Warn("geocoder returned error", zap.Int("status_code", resp.StatusCode()))
		return geo.Point{}, fmt.Errorf("geocoder status %d", resp.StatusCode())
	}
	if len(hits) == 0 {
		return geo.Point{}, ErrNoGeocodeMatch
	}

	lat, errLat := strconv.ParseFloat(hits[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(hits[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return geo.Point{}, fmt.Errorf("geocoder returned malformed coordinates %q,%q", hits[0].Lat, hits[0].Lon)
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}
