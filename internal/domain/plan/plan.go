package plan

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

var validCurrencies = map[string]bool{
	"XAF": true,
	"USD": true,
	"EUR": true,
	"GBP": true,
	"NGN": true,
}

// Plan is a purchasable pricing tier. Price is stored in minor currency
// units. The features blob is the semi-structured per-plan capability
// override persisted alongside the row; entitlement resolution parses it,
// the aggregate itself only carries it.
type Plan struct {
	id          uint
	name        string
	slug        string
	description string
	price       uint64
	currency    string
	interval    Interval
	isPopular   bool
	sortOrder   int
	status      Status
	features    map[string]interface{}
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

func NewPlan(name, slug, description string, price uint64, currency string,
	interval Interval) (*Plan, error) {

	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("plan slug is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("plan name too long (max 100 characters)")
	}
	if len(slug) > 100 {
		return nil, fmt.Errorf("plan slug too long (max 100 characters)")
	}
	if !validCurrencies[currency] {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}
	if !interval.IsValid() {
		return nil, fmt.Errorf("invalid billing interval: %s", interval)
	}

	now := time.Now()
	return &Plan{
		name:        name,
		slug:        slug,
		description: description,
		price:       price,
		currency:    currency,
		interval:    interval,
		isPopular:   false,
		sortOrder:   0,
		status:      StatusActive,
		features:    make(map[string]interface{}),
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructPlan(id uint, name, slug, description string, price uint64,
	currency string, interval Interval, isPopular bool, sortOrder int,
	status string, features map[string]interface{}, version int,
	createdAt, updatedAt time.Time) (*Plan, error) {

	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}

	planStatus := Status(status)
	if planStatus != StatusActive && planStatus != StatusInactive {
		return nil, fmt.Errorf("invalid plan status: %s", status)
	}

	if features == nil {
		features = make(map[string]interface{})
	}

	return &Plan{
		id:          id,
		name:        name,
		slug:        slug,
		description: description,
		price:       price,
		currency:    currency,
		interval:    interval,
		isPopular:   isPopular,
		sortOrder:   sortOrder,
		status:      planStatus,
		features:    features,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (p *Plan) ID() uint {
	return p.id
}

func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Plan) Name() string {
	return p.name
}

func (p *Plan) Slug() string {
	return p.slug
}

func (p *Plan) Description() string {
	return p.description
}

func (p *Plan) Price() uint64 {
	return p.price
}

func (p *Plan) Currency() string {
	return p.currency
}

func (p *Plan) Interval() Interval {
	return p.interval
}

func (p *Plan) IsPopular() bool {
	return p.isPopular
}

func (p *Plan) SortOrder() int {
	return p.sortOrder
}

func (p *Plan) Status() Status {
	return p.status
}

func (p *Plan) Features() map[string]interface{} {
	return p.features
}

func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Plan) UpdatedAt() time.Time {
	return p.updatedAt
}

// Version returns the aggregate version for optimistic locking
func (p *Plan) Version() int {
	return p.version
}

func (p *Plan) IsActive() bool {
	return p.status == StatusActive
}

func (p *Plan) Activate() {
	if p.status == StatusActive {
		return
	}
	p.status = StatusActive
	p.updatedAt = time.Now()
	p.version++
}

func (p *Plan) Deactivate() {
	if p.status == StatusInactive {
		return
	}
	p.status = StatusInactive
	p.updatedAt = time.Now()
	p.version++
}

func (p *Plan) UpdatePrice(price uint64, currency string) error {
	if !validCurrencies[currency] {
		return fmt.Errorf("invalid currency code: %s", currency)
	}
	p.price = price
	p.currency = currency
	p.updatedAt = time.Now()
	p.version++
	return nil
}

func (p *Plan) UpdateDetails(name, description string) error {
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("plan name too long (max 100 characters)")
	}
	p.name = name
	p.description = description
	p.updatedAt = time.Now()
	p.version++
	return nil
}

// UpdateFeatures replaces the raw capability override blob. A nil blob
// clears the override so the plan falls back to its slug defaults.
func (p *Plan) UpdateFeatures(features map[string]interface{}) {
	if features == nil {
		features = make(map[string]interface{})
	}
	p.features = features
	p.updatedAt = time.Now()
	p.version++
}

func (p *Plan) MarkPopular(popular bool) {
	p.isPopular = popular
	p.updatedAt = time.Now()
	p.version++
}

func (p *Plan) SetSortOrder(order int) {
	p.sortOrder = order
	p.updatedAt = time.Now()
	p.version++
}
