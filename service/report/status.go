package report

// Delivery/inspection status derived from required vs. inspected quantity.
// Never persisted; recomputed on every read.
type Status string

const (
	StatusComplete     Status = "Complete"
	StatusPartial      Status = "Partial"
	StatusNotDelivered Status = "NotDelivered"
)

// DeriveStatus computes the three-state status for one PO item. A zero
// required quantity can never yield Complete, however much was inspected.
func DeriveStatus(requiredQty, inspectedQty int) Status {
	if inspectedQty <= 0 {
		return StatusNotDelivered
	}
	if requiredQty > 0 && inspectedQty >= requiredQty {
		return StatusComplete
	}
	return StatusPartial
}

// RollupStatus computes a purchase order's status from its line items:
// Complete only when every item is Complete; NotDelivered when nothing was
// inspected at all; Partial otherwise.
func RollupStatus(items []ItemStatus) Status {
	if len(items) == 0 {
		return StatusNotDelivered
	}
	allComplete := true
	anyInspected := false
	for _, it := range items {
		if it.Status != StatusComplete {
			allComplete = false
		}
		if it.InspectedQuantity > 0 {
			anyInspected = true
		}
	}
	if allComplete {
		return StatusComplete
	}
	if anyInspected {
		return StatusPartial
	}
	return StatusNotDelivered
}
