// Package location turns Indian postal pincodes into a city/state pair using
// the public postal pincode API. Lookups never fail: any error yields a
// fallback location derived from the pincode itself.
package location

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bloodsync/bloodsync/pkg/logger"
	"github.com/bloodsync/bloodsync/pkg/metrics"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "https://api.postalpincode.in"
	DefaultTimeout = 5 * time.Second

	unknown = "Unknown"
)

// Location is what gets stored on a donor record.
type Location struct {
	City     string `json:"city"`
	State    string `json:"state"`
	Location string `json:"location"`
}

// Resolver looks up a pincode. Implementations must not return an error;
// Fallback covers every failure path.
type Resolver interface {
	Resolve(ctx context.Context, pincode string) Location
}

// Cache stores successful lookups.
type Cache interface {
	Get(ctx context.Context, pincode string) (Location, bool, error)
	Set(ctx context.Context, pincode string, loc Location) error
}

// Fallback is returned whenever the lookup does not produce a result.
func Fallback(pincode string) Location {
	return Location{City: unknown, State: unknown, Location: "Pincode " + pincode}
}

type postOffice struct {
	Name     string `json:"Name"`
	District string `json:"District"`
	State    string `json:"State"`
}

type pincodeResult struct {
	Message    string       `json:"Message"`
	Status     string       `json:"Status"`
	PostOffice []postOffice `json:"PostOffice"`
}

// Client resolves pincodes over HTTP.
type Client struct {
	http    *resty.Client
	timeout time.Duration
	cache   Cache
	group   singleflight.Group
}

// NewClient builds a resolver against baseURL. A zero timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: rc, timeout: timeout}
}

// WithCache enables caching of successful lookups.
func (c *Client) WithCache(cache Cache) *Client {
	c.cache = cache
	return c
}

func (c *Client) Resolve(ctx context.Context, pincode string) Location {
	if c.cache != nil {
		loc, ok, err := c.cache.Get(ctx, pincode)
		if err != nil {
			logger.Warnf("location cache read failed for %s: %v", pincode, err)
		} else if ok {
			metrics.LocationLookups.WithLabelValues("cache_hit").Inc()
			return loc
		}
	}

	// The shared lookup must not inherit one caller's cancellation; fetch
	// bounds it with the client timeout instead.
	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(pincode, func() (interface{}, error) {
		loc, err := c.fetch(lookupCtx, pincode)
		if err != nil {
			logger.L().Warn("pincode lookup failed, using fallback",
				zap.String("pincode", pincode),
				zap.Error(err),
			)
			metrics.LocationLookups.WithLabelValues("fallback").Inc()
			return Fallback(pincode), nil
		}
		metrics.LocationLookups.WithLabelValues("resolved").Inc()
		if c.cache != nil {
			if err := c.cache.Set(lookupCtx, pincode, loc); err != nil {
				logger.Warnf("location cache write failed for %s: %v", pincode, err)
			}
		}
		return loc, nil
	})

	select {
	case res := <-ch:
		return res.Val.(Location)
	case <-ctx.Done():
		metrics.LocationLookups.WithLabelValues("fallback").Inc()
		return Fallback(pincode)
	}
}

func (c *Client) fetch(ctx context.Context, pincode string) (Location, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var results []pincodeResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("pin", pincode).
		SetResult(&results).
		Get("/pincode/{pin}")
	if err != nil {
		return Location{}, fmt.Errorf("call pincode api: %w", err)
	}
	if resp.IsError() {
		return Location{}, fmt.Errorf("pincode api status %d", resp.StatusCode())
	}
	if len(results) == 0 || results[0].Status != "Success" || len(results[0].PostOffice) == 0 {
		return Location{}, fmt.Errorf("no post office for pincode %s", pincode)
	}

	po := results[0].PostOffice[0]
	city := po.District
	if city == "" {
		city = po.Name
	}
	return Location{
		City:     city,
		State:    po.State,
		Location: po.Name + ", " + po.District + ", " + po.State,
	}, nil
}
