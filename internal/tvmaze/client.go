// Package tvmaze resolves TVMaze show ids to premiere years, the single
// piece of network metadata consumed at manifest import time. Everything
// else in a capture run is offline.
package tvmaze

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps the TVMaze REST API.
type Client struct {
	baseURL string
	client  *resty.Client
}

// NewClient builds a client against the given API root, typically
// "https://api.tvmaze.com".
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetHeader("User-Agent", "discmapper/1.0")

	return &Client{
		baseURL: baseURL,
		client:  client,
	}
}

type showResponse struct {
	Premiered string `json:"premiered"`
}

// ShowYear returns the premiere year for a show id.
func (c *Client) ShowYear(showID int) (int, error) {
	var show showResponse
	resp, err := c.client.R().
		SetResult(&show).
		Get(fmt.Sprintf("%s/shows/%d", c.baseURL, showID))
	if err != nil {
		return 0, fmt.Errorf("tvmaze request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return 0, fmt.Errorf("tvmaze error for show %d: %s", showID, resp.Status())
	}

	if len(show.Premiered) < 4 {
		return 0, fmt.Errorf("show %d has no premiere date", showID)
	}
	year, err := strconv.Atoi(show.Premiered[:4])
	if err != nil {
		return 0, fmt.Errorf("show %d premiere date %q: %w", showID, show.Premiered, err)
	}
	return year, nil
}

// YearLookup adapts the client to the manifest import signature. Failures
// report absent rather than erroring, the year is cosmetic in output names.
func (c *Client) YearLookup(showID int) (int, bool) {
	year, err := c.ShowYear(showID)
	if err != nil {
		return 0, false
	}
	return year, true
}
