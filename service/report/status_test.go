package report

import "testing"

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name      string
		required  int
		inspected int
		want      Status
	}{
		{"nothing inspected", 100, 0, StatusNotDelivered},
		{"negative inspected", 100, -5, StatusNotDelivered},
		{"partial", 100, 40, StatusPartial},
		{"exact", 100, 100, StatusComplete},
		{"over-delivery", 100, 120, StatusComplete},
		{"zero required nothing inspected", 0, 0, StatusNotDelivered},
		{"zero required never complete", 0, 3, StatusPartial},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DeriveStatus(c.required, c.inspected); got != c.want {
				t.Errorf("DeriveStatus(%d, %d) = %s, want %s", c.required, c.inspected, got, c.want)
			}
		})
	}
}

func TestRollupStatus(t *testing.T) {
	complete := ItemStatus{RequiredQuantity: 10, InspectedQuantity: 10, Status: StatusComplete}
	partial := ItemStatus{RequiredQuantity: 10, InspectedQuantity: 4, Status: StatusPartial}
	notDelivered := ItemStatus{RequiredQuantity: 10, InspectedQuantity: 0, Status: StatusNotDelivered}

	cases := []struct {
		name  string
		items []ItemStatus
		want  Status
	}{
		{"empty", nil, StatusNotDelivered},
		{"all complete", []ItemStatus{complete, complete}, StatusComplete},
		{"mixed", []ItemStatus{complete, partial}, StatusPartial},
		{"complete and untouched", []ItemStatus{complete, notDelivered}, StatusPartial},
		{"all untouched", []ItemStatus{notDelivered, notDelivered}, StatusNotDelivered},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RollupStatus(c.items); got != c.want {
				t.Errorf("RollupStatus = %s, want %s", got, c.want)
			}
		})
	}
}
