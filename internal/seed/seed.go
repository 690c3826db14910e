// Package seed loads the store registry at start-up.
package seed

import (
	"bytes"
	"cmp"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/domain/repository"
	"github.com/polkiloo/storepickup/internal/pkg/validation"
)

//go:embed default_stores.yaml
var defaultStores []byte

const upsertConcurrency = 4

type storeFile struct {
	Stores []storeRecord `yaml:"stores" validate:"required,min=1,unique=ID,dive"`
}

type storeRecord struct {
	ID                     string               `yaml:"id" validate:"required"`
	Name                   string               `yaml:"name" validate:"required"`
	Address                addressRecord        `yaml:"address"`
	Location               pointRecord          `yaml:"location"`
	Phone                  string               `yaml:"phone"`
	Hours                  map[string]dayRecord `yaml:"hours" validate:"dive"`
	Capabilities           []string             `yaml:"capabilities"`
	PickupAvailable        bool                 `yaml:"pickup_available"`
	EstimatedPickupMinutes int                  `yaml:"estimated_pickup_minutes" validate:"gte=0"`
	MaxPickupHours         int                  `yaml:"max_pickup_hours" validate:"gte=0"`
	SlotCapacity           int                  `yaml:"slot_capacity" validate:"gte=0"`
	Active                 bool                 `yaml:"active"`
}

type addressRecord struct {
	Street     string `yaml:"street"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	PostalCode string `yaml:"postal_code"`
	Country    string `yaml:"country"`
}

type pointRecord struct {
	Lat float64 `yaml:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `yaml:"lng" validate:"gte=-180,lte=180"`
}

type dayRecord struct {
	Open   string `yaml:"open" validate:"omitempty,hhmm"`
	Close  string `yaml:"close" validate:"omitempty,hhmm"`
	Closed bool   `yaml:"closed"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads stores from path, or the built-in registry when path is empty.
func Load(path string) ([]model.Store, error) {
	if path == "" {
		return Parse(defaultStores)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stores file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML store registry.
func Parse(data []byte) ([]model.Store, error) {
	var file storeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode stores: %w", err)
	}
	if err := validation.New().Struct(file); err != nil {
		return nil, fmt.Errorf("validate stores: %w", describe(err))
	}

	stores := make([]model.Store, 0, len(file.Stores))
	for _, rec := range file.Stores {
		st, err := rec.toModel()
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", rec.ID, err)
		}
		stores = append(stores, st)
	}
	return stores, nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func (r storeRecord) toModel() (model.Store, error) {
	hours := make(model.OpeningHours, len(r.Hours))
	for name, day := range r.Hours {
		wd, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return model.Store{}, fmt.Errorf("unknown weekday %q", name)
		}
		if !day.Closed && (day.Open == "" || day.Close == "") {
			return model.Store{}, fmt.Errorf("%s: open and close are required unless closed", name)
		}
		hours[wd] = model.DayHours{Open: day.Open, Close: day.Close, Closed: day.Closed}
	}

	return model.Store{
		ID:   r.ID,
		Name: r.Name,
		Address: model.Address{
			Street:     r.Address.Street,
			City:       r.Address.City,
			State:      r.Address.State,
			PostalCode: r.Address.PostalCode,
			Country:    r.Address.Country,
		},
		Location:                   model.Point{Lat: r.Location.Lat, Lng: r.Location.Lng},
		Phone:                      r.Phone,
		Hours:                      hours,
		Capabilities:               r.Capabilities,
		PickupAvailable:            r.PickupAvailable,
		EstimatedPickupTimeMinutes: r.EstimatedPickupMinutes,
		MaxPickupTimeHours:         cmp.Or(r.MaxPickupHours, model.DefaultMaxPickupTimeHours),
		SlotCapacity:               r.SlotCapacity,
		IsActive:                   r.Active,
	}, nil
}

// Apply upserts stores into the repository.
func Apply(ctx context.Context, repo repository.StoreRepository, stores []model.Store) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(upsertConcurrency)
	for _, st := range stores {
		g.Go(func() error {
			if err := repo.Upsert(gctx, st); err != nil {
				return fmt.Errorf("upsert store %s: %w", st.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
