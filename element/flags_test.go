package element

import "testing"

func TestBatchFlagsPredicates(t *testing.T) {
	tests := []struct {
		name   string
		flags  BatchFlags
		create bool
		get    bool
		update bool
		query  bool
	}{
		{"none", BatchNone, false, false, false, false},
		{"create", BatchCreate, true, false, false, false},
		{"get", BatchGet, false, true, false, false},
		{"update", BatchUpdate, false, false, true, false},
		{"query", Query, false, false, false, true},
		{"all", BatchAll, true, true, true, true},
		{"get+update", BatchGet | BatchUpdate, false, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.CanBatchCreate(); got != tt.create {
				t.Errorf("CanBatchCreate() = %v, want %v", got, tt.create)
			}
			if got := tt.flags.CanBatchGet(); got != tt.get {
				t.Errorf("CanBatchGet() = %v, want %v", got, tt.get)
			}
			if got := tt.flags.CanBatchUpdate(); got != tt.update {
				t.Errorf("CanBatchUpdate() = %v, want %v", got, tt.update)
			}
			if got := tt.flags.CanQuery(); got != tt.query {
				t.Errorf("CanQuery() = %v, want %v", got, tt.query)
			}
		})
	}
}

func TestBatchFlagsValidate(t *testing.T) {
	for _, valid := range []BatchFlags{BatchNone, BatchCreate, BatchGet, BatchUpdate, Query, BatchAll} {
		if err := valid.Validate(); err != nil {
			t.Errorf("Validate(%b) = %v, want nil", valid, err)
		}
	}
	if err := BatchFlags(0x80).Validate(); err == nil {
		t.Error("Validate() accepted unknown bits")
	}
	if err := (BatchAll | BatchFlags(0x40)).Validate(); err == nil {
		t.Error("Validate() accepted mixed unknown bits")
	}
}
