package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Check-in / check-out sentinel labels.
const (
	LabelYearly  = "Yearly"
	LabelGuest   = "Guest"
	LabelUnknown = "Unknown"
)

// Boat a vessel occupying a berth for table boats.
//
// Deleted/Archived are owned by the lifecycle transitions; the general
// create/update path never writes them.
type Boat struct {
	ID         uint       `gorm:"primaryKey"                               json:"id"`
	BoatType   BoatType   `gorm:"type:varchar(30);not null"                json:"boat_type"`
	Name       string     `gorm:"type:varchar(100);not null"               json:"name"`
	Berth      string     `gorm:"type:varchar(20);not null"                json:"berth"`
	State      State      `gorm:"type:varchar(20);not null"                json:"state"`
	CheckIn    string     `gorm:"type:varchar(50);not null;default:''"     json:"check_in"`
	CheckOut   string     `gorm:"type:varchar(50);not null;default:''"     json:"check_out"`
	Deleted    bool       `gorm:"not null;default:false;index:idx_boats_visibility" json:"deleted"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	Archived   bool       `gorm:"not null;default:false;index:idx_boats_visibility" json:"archived"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	BaseModel
}

// TableName table name.
func (Boat) TableName() string { return "boats" }

// EditableColumns are the columns a form save may write.
var EditableColumns = []string{"boat_type", "name", "berth", "state", "check_in", "check_out", "updated_at"}

// Normalize uppercases name and berth.
func (b *Boat) Normalize() {
	b.Name = strings.ToUpper(strings.TrimSpace(b.Name))
	b.Berth = strings.ToUpper(strings.TrimSpace(b.Berth))
}

// BeforeSave gorm hook.
func (b *Boat) BeforeSave(_ *gorm.DB) error {
	b.Normalize()
	return nil
}

// Active is shown in the default listing.
func (b *Boat) Active() bool { return !b.Deleted && !b.Archived }

// PendingDeletion is soft-deleted but not yet archived.
func (b *Boat) PendingDeletion() bool { return b.Deleted && !b.Archived }

func (b *Boat) String() string { return b.BoatType.String() + " " + b.Name }
