package listing

import (
	"strings"
	"time"

	"github.com/seu-repo/arremateai/internal/domain"
	"github.com/seu-repo/arremateai/internal/ports"
)

// applyFull overwrites every field; absent values become zero values.
// Status is kept when absent.
func applyFull(l *domain.Listing, in ports.ListingInput) {
	l.LotNumber = strings.TrimSpace(str(in.LotNumber))
	l.Description = strings.TrimSpace(str(in.Description))
	l.AppraisalValue = num(in.AppraisalValue)
	l.AuctionDate = date(in.AuctionDate)
	l.UF = strings.ToUpper(strings.TrimSpace(str(in.UF)))
	l.City = str(in.City)
	l.Neighborhood = str(in.Neighborhood)
	l.Address = str(in.Address)
	l.CEP = str(in.CEP)
	l.Latitude = in.Latitude
	l.Longitude = in.Longitude
	l.Rooms = count(in.Rooms)
	l.Bathrooms = count(in.Bathrooms)
	l.ParkingSpots = count(in.ParkingSpots)
	l.TotalArea = in.TotalArea
	l.PropertyType = str(in.PropertyType)
	l.Institution = strings.TrimSpace(str(in.Institution))
	l.EditalLink = str(in.EditalLink)
	l.Condition = ""
	if in.Condition != nil {
		l.Condition = *in.Condition
	}
	l.AcceptsFinancing = in.AcceptsFinancing != nil && *in.AcceptsFinancing
	l.Observations = str(in.Observations)
	if in.Status != nil {
		l.Status = *in.Status
	}
}

// applyPartial overwrites only the fields present in in.
func applyPartial(l *domain.Listing, in ports.ListingInput) {
	if in.LotNumber != nil {
		l.LotNumber = strings.TrimSpace(*in.LotNumber)
	}
	if in.Description != nil {
		l.Description = strings.TrimSpace(*in.Description)
	}
	if in.AppraisalValue != nil {
		l.AppraisalValue = *in.AppraisalValue
	}
	if in.AuctionDate != nil {
		l.AuctionDate = *in.AuctionDate
	}
	if in.UF != nil {
		l.UF = strings.ToUpper(strings.TrimSpace(*in.UF))
	}
	if in.City != nil {
		l.City = *in.City
	}
	if in.Neighborhood != nil {
		l.Neighborhood = *in.Neighborhood
	}
	if in.Address != nil {
		l.Address = *in.Address
	}
	if in.CEP != nil {
		l.CEP = *in.CEP
	}
	if in.Latitude != nil {
		l.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		l.Longitude = in.Longitude
	}
	if in.Rooms != nil {
		l.Rooms = *in.Rooms
	}
	if in.Bathrooms != nil {
		l.Bathrooms = *in.Bathrooms
	}
	if in.ParkingSpots != nil {
		l.ParkingSpots = *in.ParkingSpots
	}
	if in.TotalArea != nil {
		l.TotalArea = in.TotalArea
	}
	if in.PropertyType != nil {
		l.PropertyType = *in.PropertyType
	}
	if in.Institution != nil {
		l.Institution = strings.TrimSpace(*in.Institution)
	}
	if in.EditalLink != nil {
		l.EditalLink = *in.EditalLink
	}
	if in.Condition != nil {
		l.Condition = *in.Condition
	}
	if in.AcceptsFinancing != nil {
		l.AcceptsFinancing = *in.AcceptsFinancing
	}
	if in.Observations != nil {
		l.Observations = *in.Observations
	}
	if in.Status != nil {
		l.Status = *in.Status
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func count(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func date(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}
