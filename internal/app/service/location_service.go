package service

import (
	"context"
	"fmt"

	"evreg/internal/common"
	"evreg/internal/domain/model"
	"evreg/internal/domain/repository"
)

type LocationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

type LocationRequest struct {
	Name             string `json:"name"`
	Capacity         int    `json:"capacity"`
	Zipcode          string `json:"zipcode"`
	City             string `json:"city"`
	Street           string `json:"street"`
	Country          string `json:"country"`
	AddressAdditions string `json:"address_additions"`
	MapsURL          string `json:"maps_url"`
}

func (r LocationRequest) validate() common.FieldErrors {
	fields := common.FieldErrors{}
	if r.Name == "" {
		fields["name"] = "This field is required."
	}
	if r.Capacity < 0 {
		fields["capacity"] = "Only positive numbers."
	}
	required := map[string]string{
		"zipcode": r.Zipcode,
		"city":    r.City,
		"street":  r.Street,
		"country": r.Country,
	}
	for field, value := range required {
		if value == "" {
			fields[field] = "This field is required."
		}
	}
	if r.Country != "" && !model.ValidCountry(r.Country) {
		fields["country"] = "Unknown country."
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (s *LocationService) Create(ctx context.Context, req LocationRequest) (*model.Location, error) {
	if fields := req.validate(); fields != nil {
		return nil, fields
	}
	location := &model.Location{
		Name: req.Name,
		Address: model.Address{
			Zipcode: req.Zipcode,
			City:    req.City,
			Street:  req.Street,
			Country: req.Country,
		},
		Capacity:         req.Capacity,
		AddressAdditions: req.AddressAdditions,
		MapsURL:          req.MapsURL,
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

func (s *LocationService) Update(ctx context.Context, id int64, req LocationRequest) (*model.Location, error) {
	if fields := req.validate(); fields != nil {
		return nil, fields
	}
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	location.Name = req.Name
	location.Capacity = req.Capacity
	location.Zipcode = req.Zipcode
	location.City = req.City
	location.Street = req.Street
	location.Country = req.Country
	location.AddressAdditions = req.AddressAdditions
	location.MapsURL = req.MapsURL
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return location, nil
}

func (s *LocationService) Get(ctx context.Context, id int64) (*model.Location, error) {
	return s.locationRepo.FindByID(ctx, id)
}

func (s *LocationService) List(ctx context.Context) ([]model.Location, error) {
	return s.locationRepo.List(ctx)
}

// Countries exposes the static country reference data for address forms.
func (s *LocationService) Countries() []model.Country {
	return model.Countries
}
