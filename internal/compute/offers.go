// Package compute lists VM image offers from the compute resource provider.
package compute

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/rs/zerolog/log"
)

// OfferLister is the subset of armcompute.VirtualMachineImagesClient used here.
type OfferLister interface {
	ListOffers(ctx context.Context, location, publisherName string, options *armcompute.VirtualMachineImagesClientListOffersOptions) (armcompute.VirtualMachineImagesClientListOffersResponse, error)
}

// ImageOffer is one offer of a publisher in a location.
type ImageOffer struct {
	RequestID     string `json:"requestId"`
	StatusCode    int    `json:"statusCode"`
	ID            string `json:"id"`
	Location      string `json:"location"`
	Offer         string `json:"offer"`
	PublisherName string `json:"publisherName"`
}

var (
	ErrEmptyLocation  = errors.New("location is required")
	ErrEmptyPublisher = errors.New("publisher name is required")
)

// CanonicalizeLocation turns a display name like "West Europe" into "westeurope".
func CanonicalizeLocation(location string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(location), " ", ""))
}

// ListOffers returns the offers published by publisher in location.
func ListOffers(ctx context.Context, l OfferLister, location, publisher string) ([]ImageOffer, error) {
	loc := CanonicalizeLocation(location)
	publisher = strings.TrimSpace(publisher)
	if loc == "" {
		return nil, ErrEmptyLocation
	}
	if publisher == "" {
		return nil, ErrEmptyPublisher
	}

	start := time.Now()
	var raw *http.Response
	resp, err := l.ListOffers(runtime.WithCaptureResponse(ctx, &raw), loc, publisher, nil)
	if err != nil {
		log.Error().
			Err(err).
			Str("action", "list_image_offers").
			Str("location", loc).
			Str("publisher", publisher).
			Dur("elapsed_ms", time.Since(start)).
			Msg("list offers failed")
		return nil, fmt.Errorf("list offers for %s in %s: %w", publisher, loc, err)
	}

	var requestID string
	var status int
	if raw != nil {
		requestID = raw.Header.Get("x-ms-request-id")
		status = raw.StatusCode
	}

	out := make([]ImageOffer, 0, len(resp.VirtualMachineImageResourceArray))
	for _, r := range resp.VirtualMachineImageResourceArray {
		if r == nil {
			continue
		}
		out = append(out, ImageOffer{
			RequestID:     requestID,
			StatusCode:    status,
			ID:            deref(r.ID),
			Location:      deref(r.Location),
			Offer:         deref(r.Name),
			PublisherName: publisher,
		})
	}
	log.Debug().
		Str("action", "list_image_offers").
		Str("location", loc).
		Str("publisher", publisher).
		Int("offers", len(out)).
		Dur("elapsed_ms", time.Since(start)).
		Msg("offers listed")
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
