package geo

import "context"

// IPCityLocator resolves city candidates directly from a structured IP
// location record.
type IPCityLocator struct {
	provider   IPLocationProvider
	normalizer Normalizer
}

// NewIPCityLocator creates a locator backed by a structured IP location provider.
func NewIPCityLocator(provider IPLocationProvider) *IPCityLocator {
	return &IPCityLocator{provider: provider}
}

// LocateCityCandidates resolves the device location to city-name candidates.
func (l *IPCityLocator) LocateCityCandidates(ctx context.Context) (CityLocationResult, error) {
	loc, err := l.provider.IPLocation(ctx)
	if err != nil {
		return CityLocationResult{}, err
	}

	return CityLocationResult{
		RawLocationText: l.normalizer.RawTextFromRecord(loc),
		CityCandidates:  l.normalizer.CityCandidatesFromRecord(loc),
	}, nil
}

// TwoHopCityLocator resolves the public IP first, then resolves the IP to a
// location description. The location-text API takes an IP parameter rather
// than device geolocation, which avoids requiring a location permission for
// coarse positioning.
type TwoHopCityLocator struct {
	ips        PublicIPProvider
	texts      IPTextLocationProvider
	normalizer Normalizer
}

// NewTwoHopCityLocator creates a locator that chains a public-IP lookup with
// an IP-to-location-text lookup.
func NewTwoHopCityLocator(ips PublicIPProvider, texts IPTextLocationProvider) *TwoHopCityLocator {
	return &TwoHopCityLocator{ips: ips, texts: texts}
}

// LocateCityCandidates resolves the device location to city-name candidates.
// Each hop is a single attempt; failures propagate unchanged.
func (l *TwoHopCityLocator) LocateCityCandidates(ctx context.Context) (CityLocationResult, error) {
	ip, err := l.ips.PublicIP(ctx)
	if err != nil {
		return CityLocationResult{}, err
	}

	text, err := l.texts.LocationText(ctx, ip)
	if err != nil {
		return CityLocationResult{}, err
	}

	return CityLocationResult{
		RawLocationText: l.normalizer.RawTextFromText(text),
		CityCandidates:  l.normalizer.CityCandidatesFromText(text),
	}, nil
}
