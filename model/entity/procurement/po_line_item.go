package procurement

import (
	"time"

	"gorm.io/datatypes"
)

// POLineItem represents one purchase-order line in po_line_items.
// (po_number, item_no) is the natural key; the unique index on it is the
// authoritative duplicate guard for concurrent commits.
type POLineItem struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	PONumber          string          `gorm:"column:po_number;type:varchar(64);not null;uniqueIndex:idx_po_item,priority:1" json:"po_number"`
	ItemNo            string          `gorm:"column:item_no;type:varchar(32);not null;uniqueIndex:idx_po_item,priority:2" json:"item_no"`
	PODate            *datatypes.Date `gorm:"column:po_date;type:date" json:"po_date,omitempty"`
	Supplier          *string         `gorm:"column:supplier;type:varchar(255)" json:"supplier,omitempty"`
	ModeOfProcurement *string         `gorm:"column:mode_of_procurement;type:varchar(128)" json:"mode_of_procurement,omitempty"`
	GenericName       *string         `gorm:"column:generic_name;type:text" json:"generic_name,omitempty"`
	BrandName         *string         `gorm:"column:brand_name;type:varchar(255)" json:"brand_name,omitempty"`
	Manufacturer      *string         `gorm:"column:manufacturer;type:varchar(255)" json:"manufacturer,omitempty"`
	AcquisitionCost   *float64        `gorm:"column:acquisition_cost;type:decimal(12,2)" json:"acquisition_cost,omitempty"`
	Quantity          *int            `gorm:"column:quantity" json:"quantity,omitempty"`
	TotalCost         *float64        `gorm:"column:total_cost;type:decimal(14,2)" json:"total_cost,omitempty"`
	// Legacy manual field. Never derived, never recomputed.
	DeliveryStatus *string   `gorm:"column:delivery_status;type:varchar(128)" json:"delivery_status,omitempty"`
	BidAttempt     *int      `gorm:"column:bid_attempt" json:"bid_attempt,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at,omitempty"`
}

func (POLineItem) TableName() string {
	return "po_line_items"
}
