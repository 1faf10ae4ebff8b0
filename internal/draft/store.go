// Package draft persists in-progress checklist form state keyed by
// identity and by the schedule or lift being worked on. The store is an
// interface so the storage medium stays swappable.
package draft

import (
	"errors"

	"github.com/liftcare-id/liftcare/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no draft exists for the given keys
var ErrNotFound = errors.New("draft not found")

// Store saves, loads and clears per-identity form drafts
type Store interface {
	Get(ownerKey, formKey string) (datatypes.JSON, error)
	Put(ownerKey, formKey string, payload datatypes.JSON) error
	Clear(ownerKey, formKey string) error
}

// GormStore is the database-backed Store implementation
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the saved payload for (ownerKey, formKey)
func (s *GormStore) Get(ownerKey, formKey string) (datatypes.JSON, error) {
	var d models.Draft
	err := s.db.Where("owner_key = ? AND form_key = ?", ownerKey, formKey).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.Payload, nil
}

// Put upserts the payload for (ownerKey, formKey)
func (s *GormStore) Put(ownerKey, formKey string, payload datatypes.JSON) error {
	d := models.Draft{
		OwnerKey: ownerKey,
		FormKey:  formKey,
		Payload:  payload,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_key"}, {Name: "form_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&d).Error
}

// Clear removes the draft for (ownerKey, formKey); absent drafts are a no-op
func (s *GormStore) Clear(ownerKey, formKey string) error {
	return s.db.Where("owner_key = ? AND form_key = ?", ownerKey, formKey).
		Delete(&models.Draft{}).Error
}
