package procurement

import (
	"time"

	"gorm.io/datatypes"
)

// InspectionRecord represents one inspected line against a PO item
// (inspection_records). A PO item may carry several records (partial
// deliveries) with distinct IAR numbers, and one IAR may span several items.
// Inspected-so-far for a (po_number, item_number) pair is the SUM over its
// records; required quantity lives on POLineItem.
type InspectionRecord struct {
	ID                   int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	IARNumber            string         `gorm:"column:iar_number;type:varchar(64);not null;uniqueIndex:idx_iar_po_item,priority:1" json:"iar_number"`
	PONumber             string         `gorm:"column:po_number;type:varchar(64);not null;uniqueIndex:idx_iar_po_item,priority:2;index:idx_iar_pair,priority:1" json:"po_number"`
	ItemNumber           string         `gorm:"column:item_number;type:varchar(32);not null;uniqueIndex:idx_iar_po_item,priority:3;index:idx_iar_pair,priority:2" json:"item_number"`
	DateOfInspection     datatypes.Date `gorm:"column:date_of_inspection;type:date;not null" json:"date_of_inspection"`
	InspectedQuantity    int            `gorm:"column:inspected_quantity;not null" json:"inspected_quantity"`
	RequisitioningOffice *string        `gorm:"column:requisitioning_office;type:varchar(255)" json:"requisitioning_office,omitempty"`
	Brand                *string        `gorm:"column:brand;type:varchar(255)" json:"brand,omitempty"`
	// Backfilled from the matching POLineItem at insert time; never taken
	// from upload input.
	Manufacturer   *string         `gorm:"column:manufacturer;type:varchar(255)" json:"manufacturer,omitempty"`
	BatchLotNumber *string         `gorm:"column:batch_lot_number;type:varchar(128)" json:"batch_lot_number,omitempty"`
	ExpirationDate *datatypes.Date `gorm:"column:expiration_date;type:date" json:"expiration_date,omitempty"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at,omitempty"`
}

func (InspectionRecord) TableName() string {
	return "inspection_records"
}
